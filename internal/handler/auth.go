package handler

import (
	"net/http"

	"github.com/nord-digital/userdir/internal/constants"
	"github.com/nord-digital/userdir/internal/dto"
	apperrors "github.com/nord-digital/userdir/internal/errors"
	"github.com/nord-digital/userdir/internal/middleware"
	"github.com/nord-digital/userdir/internal/service"
	ctxutil "github.com/nord-digital/userdir/pkg/context"
	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users  *service.UserService
	tokens *service.TokenService
}

func NewAuthHandler(users *service.UserService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// IssueToken exchanges a login/password pair for the account's bearer
// token. Repeated calls return the same token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "IssueToken")

	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	token, err := h.tokens.Issue(ctx, req.Login, req.Password)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Token issuance failed").
			String("login", req.Login).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Login is the strict who-am-I check: rejects unknown credentials and
// blocked accounts, returns the reduced profile on success.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Login")

	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.users.Login(ctx, req.Login, req.Password)
	if err != nil {
		logger.LogAuth(req.Login, "login", false)
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	logger.LogAuth(user.Login, "login", true)
	c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}

// Me returns the profile of the editor resolved by the auth middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Me")

	user, err := h.users.Self(ctx, middleware.Editor(c))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}
