package router

import (
	"github.com/nord-digital/userdir/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Public routes (credentials in the body)
		auth.POST("/token", r.authHandler.IssueToken)
		auth.POST("/login", r.authHandler.Login)

		// Protected routes (bearer token)
		protected := auth.Group("")
		protected.Use(middleware.RequireEditor(r.userService))
		{
			protected.GET("/me", r.authHandler.Me)
		}
	}
}
