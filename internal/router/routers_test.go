package router_test

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nord-digital/userdir/config"
	"github.com/nord-digital/userdir/internal/handler"
	"github.com/nord-digital/userdir/internal/repository"
	"github.com/nord-digital/userdir/internal/router"
	"github.com/nord-digital/userdir/internal/service"
	"github.com/nord-digital/userdir/internal/testutils"
)

// Building the engine exercises gin's route-tree insertion; a conflicting
// registration (such as a static segment where /users/:login holds the
// wildcard) would panic here rather than at first request.
func TestSetupRoutesRegistersFullTable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutils.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	users := service.NewUserService(repo, nil)
	tokens := service.NewTokenService(users, repo, nil)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	var engine *gin.Engine
	require.NotPanics(t, func() {
		engine = router.NewRouter(
			handler.NewUserHandler(users),
			handler.NewAuthHandler(users, tokens),
			handler.NewHealthHandler(db, nil),
			users,
			cfg,
		).SetupRoutes()
	})

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /api/health",
		"POST /api/v1/auth/token",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"GET /api/v1/users",
		"GET /api/v1/users/:login",
		"GET /api/v1/users-older-than/:age",
		"POST /api/v1/users",
		"PATCH /api/v1/users/:login",
		"PUT /api/v1/users/:login/password",
		"PUT /api/v1/users/:login/login",
		"PUT /api/v1/users/:login/block",
		"PUT /api/v1/users/:login/unblock",
		"DELETE /api/v1/users/:login",
	} {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
