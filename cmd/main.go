package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/nord-digital/userdir/config"
	"github.com/nord-digital/userdir/internal/handler"
	"github.com/nord-digital/userdir/internal/repository"
	"github.com/nord-digital/userdir/internal/router"
	"github.com/nord-digital/userdir/internal/service"
	"github.com/nord-digital/userdir/pkg/database"
	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/nord-digital/userdir/pkg/redis"
	"github.com/nord-digital/userdir/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", "1.0.0"),
	)

	validation.RegisterBindingRules()

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Redis is optional; the token cache degrades to store lookups
	redisClient := redis.NewClient(redis.Config{
		Enabled:      config.Redis.Enabled,
		Addr:         config.RedisAddress(),
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	})
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	tokenCache := service.NewTokenCache(redisClient, config.Redis.TokenTTL)
	userService := service.NewUserService(userRepo, tokenCache)
	tokenService := service.NewTokenService(userService, userRepo, tokenCache)

	// Bootstrap: create the default admin against an empty store and issue
	// its token before the server accepts requests.
	if err := database.Seed(db, database.DefaultAdmin{
		Login:    config.Bootstrap.AdminLogin,
		Password: config.Bootstrap.AdminPassword,
		Name:     config.Bootstrap.AdminName,
	}); err != nil {
		logger.GetLogger().Fatal("Failed to seed bootstrap admin", zap.Error(err))
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if admin, err := userRepo.FindByLogin(bootCtx, config.Bootstrap.AdminLogin); err != nil {
		logger.GetLogger().Fatal("Failed to load bootstrap admin", zap.Error(err))
	} else if admin != nil {
		if _, err := tokenService.IssueFor(bootCtx, admin); err != nil {
			logger.GetLogger().Fatal("Failed to issue bootstrap admin token", zap.Error(err))
		}
	}

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(userService, tokenService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	r := router.NewRouter(
		userHandler,
		authHandler,
		healthHandler,
		userService,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
