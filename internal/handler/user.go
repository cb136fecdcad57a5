package handler

import (
	"net/http"
	"strconv"

	"github.com/nord-digital/userdir/internal/constants"
	"github.com/nord-digital/userdir/internal/dto"
	apperrors "github.com/nord-digital/userdir/internal/errors"
	"github.com/nord-digital/userdir/internal/middleware"
	"github.com/nord-digital/userdir/internal/service"
	ctxutil "github.com/nord-digital/userdir/pkg/context"
	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
}

// ListActive returns all active accounts, oldest first.
func (h *UserHandler) ListActive(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "ListActive")

	users, err := h.users.ActiveUsers(ctx, middleware.Editor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(len(users), dto.NewUserResponses(users)))
}

// GetByLogin returns the reduced profile view of one account.
func (h *UserHandler) GetByLogin(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "GetByLogin")

	login := c.Param("login")
	user, err := h.users.UserByLogin(ctx, middleware.Editor(c), login)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}

// OlderThan returns accounts strictly older than the given age in whole
// years.
func (h *UserHandler) OlderThan(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "OlderThan")

	age, err := strconv.Atoi(c.Param("age"))
	if err != nil || age < 0 {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid age", nil))
		return
	}

	users, err := h.users.UsersOlderThan(ctx, middleware.Editor(c), age)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildListResponse(len(users), dto.NewUserResponses(users)))
}

// Create registers a new account.
func (h *UserHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Create")

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Create user request rejected by binding").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.users.Create(ctx, middleware.Editor(c), service.CreateParams{
		Login:    req.Login,
		Password: req.Password,
		Name:     req.Name,
		Gender:   req.Gender,
		Birthday: req.Birthday.AsTime(),
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Update applies a partial profile change to the target account.
func (h *UserHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Update")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.users.Update(ctx, middleware.Editor(c), c.Param("login"), service.UpdateParams{
		Name:     req.Name,
		Gender:   req.Gender,
		Birthday: req.Birthday.AsTime(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdatePassword changes the target's password. An empty new password is
// accepted and changes nothing.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "UpdatePassword")

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.users.UpdatePassword(ctx, middleware.Editor(c), c.Param("login"), req.NewPassword)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, constants.BuildSuccessResponse("Nothing to change"))
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateLogin renames the target account. An empty new login is accepted
// and changes nothing.
func (h *UserHandler) UpdateLogin(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "UpdateLogin")

	var req dto.UpdateLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.users.UpdateLogin(ctx, middleware.Editor(c), c.Param("login"), req.NewLogin)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, constants.BuildSuccessResponse("Nothing to change"))
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Block soft-deletes the target account.
func (h *UserHandler) Block(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Block")

	user, err := h.users.Block(ctx, middleware.Editor(c), c.Param("login"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Unblock restores a soft-deleted account.
func (h *UserHandler) Unblock(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Unblock")

	user, err := h.users.Unblock(ctx, middleware.Editor(c), c.Param("login"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Delete purges the target account permanently.
func (h *UserHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Delete")

	if err := h.users.DeleteHard(ctx, middleware.Editor(c), c.Param("login")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User deleted"))
}
