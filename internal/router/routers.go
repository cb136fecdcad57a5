package router

import (
	"time"

	"github.com/nord-digital/userdir/config"
	"github.com/nord-digital/userdir/internal/handler"
	"github.com/nord-digital/userdir/internal/middleware"
	"github.com/nord-digital/userdir/internal/service"
	"github.com/gin-gonic/gin"
)

type Router struct {
	userHandler   *handler.UserHandler
	authHandler   *handler.AuthHandler
	healthHandler *handler.HealthHandler

	userService *service.UserService
	config      *config.Config
}

func NewRouter(
	user *handler.UserHandler,
	auth *handler.AuthHandler,
	health *handler.HealthHandler,
	users *service.UserService,
	cfg *config.Config,
) *Router {
	return &Router{
		userHandler:   user,
		authHandler:   auth,
		healthHandler: health,
		userService:   users,
		config:        cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.ZapLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestContext())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.config.RateLimit.Request, time.Duration(r.config.RateLimit.Duration)*time.Second))
			v1.Use(middleware.RequestTimeout(r.config.App.Timeout))

			r.authRoutes(v1)
			r.userRoutes(v1)
		}
	}

	return router
}
