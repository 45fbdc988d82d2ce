package group

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/group/controller"
	"meetsync/modules/group/repository"
	"meetsync/modules/group/router"
	"meetsync/modules/group/service"
)

// Init initializes the group module and returns the service for use by other modules
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.GroupServiceInterface {
	repo := repository.NewGroupRepository(db)
	svc := service.NewGroupService(repo)
	ctrl := controller.NewGroupController(svc)
	rtr := router.NewGroupRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
