package router

import (
	"github.com/nord-digital/userdir/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// Every directory route resolves an editor first; the service layer
		// re-checks authorization per operation.
		users.Use(middleware.RequireEditor(r.userService))
		{
			// List active accounts, oldest first
			users.GET("", r.userHandler.ListActive)

			// Reduced profile view of one account
			users.GET("/:login", r.userHandler.GetByLogin)

			// Register a new account
			users.POST("", r.userHandler.Create)

			// Partial profile update (name/gender/birthday)
			users.PATCH("/:login", r.userHandler.Update)

			// Password and login changes
			users.PUT("/:login/password", r.userHandler.UpdatePassword)
			users.PUT("/:login/login", r.userHandler.UpdateLogin)

			// Soft delete and restore
			users.PUT("/:login/block", r.userHandler.Block)
			users.PUT("/:login/unblock", r.userHandler.Unblock)

			// Permanent removal
			users.DELETE("/:login", r.userHandler.Delete)
		}
	}

	// Registered beside /users rather than under it: a static segment
	// cannot share the position /users/:login already claims.
	olderThan := version.Group("/users-older-than")
	{
		olderThan.Use(middleware.RequireEditor(r.userService))
		{
			// Accounts strictly older than the given whole-year age
			olderThan.GET("/:age", r.userHandler.OlderThan)
		}
	}
}
