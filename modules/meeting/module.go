package meeting

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/cache"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/core/queue"
	"meetsync/core/storage"
	groupService "meetsync/modules/group/service"
	"meetsync/modules/meeting/controller"
	"meetsync/modules/meeting/repository"
	"meetsync/modules/meeting/router"
	"meetsync/modules/meeting/service"
	notifService "meetsync/modules/notification/service"
)

// Init initializes the meeting module
func Init(
	e *echo.Echo,
	db database.Database,
	mw *middleware.Middleware,
	groupSvc groupService.GroupServiceInterface,
	notifSvc notifService.NotificationServiceInterface,
	store storage.MediaStore,
	q queue.Queue,
	c cache.Cache,
) service.MeetingServiceInterface {
	repo := repository.NewMeetingRepository(db)
	svc := service.NewMeetingService(repo, groupSvc, notifSvc, store, q, c)
	ctrl := controller.NewMeetingController(svc)
	rtr := router.NewMeetingRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
