package notification

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/notification/controller"
	"meetsync/modules/notification/repository"
	"meetsync/modules/notification/router"
	"meetsync/modules/notification/service"
)

// Init initializes the notification module and returns the service for use by other modules
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
