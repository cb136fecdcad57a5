package middleware

import (
	"net/http"
	"strings"

	"github.com/nord-digital/userdir/internal/constants"
	apperrors "github.com/nord-digital/userdir/internal/errors"
	"github.com/nord-digital/userdir/internal/model"
	"github.com/nord-digital/userdir/internal/service"
	ctxutil "github.com/nord-digital/userdir/pkg/context"
	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/gin-gonic/gin"
)

const editorKey = string(constants.CtxKeyEditor)

// RequireEditor resolves the caller's identity from either a bearer token
// or a login/password query pair and stores it for the handlers. A request
// carrying no credentials at all is rejected outright; credentials that
// fail to resolve pass a nil editor through, so the service layer reports
// the canonical invalid-credentials failure in operation order.
func RequireEditor(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var editor *model.User
		var attempted bool

		if token := bearerToken(c); token != "" {
			attempted = true
			resolved, err := users.AuthenticateByToken(ctx, token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
				return
			}
			editor = resolved
		} else if login, password, ok := queryCredentials(c); ok {
			attempted = true
			resolved, err := users.AuthenticateByCredentials(ctx, login, password)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
				return
			}
			editor = resolved
		}

		if !attempted {
			logger.WarnWithContext(ctx, "Request without credentials").
				String("path", c.Request.URL.Path).
				Log()
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(apperrors.ErrInvalidCredentials.Message, nil))
			return
		}

		if editor != nil {
			c.Request = c.Request.WithContext(ctxutil.WithEditor(ctx, editor.Login))
		}
		c.Set(editorKey, editor)
		c.Next()
	}
}

// Editor returns the resolved editor for the current request, nil when the
// supplied credentials did not match any account.
func Editor(c *gin.Context) *model.User {
	v, ok := c.Get(editorKey)
	if !ok {
		return nil
	}
	editor, _ := v.(*model.User)
	return editor
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

func queryCredentials(c *gin.Context) (login, password string, ok bool) {
	login = c.Query(constants.QueryParamLogin)
	password = c.Query(constants.QueryParamPassword)
	if login == "" && password == "" {
		return "", "", false
	}
	return login, password, true
}
