package auth

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/cache"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/auth/controller"
	"meetsync/modules/auth/repository"
	"meetsync/modules/auth/router"
	"meetsync/modules/auth/service"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, db database.Database, c cache.Cache, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
