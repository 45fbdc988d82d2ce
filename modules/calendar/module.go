package calendar

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/core/queue"
	"meetsync/modules/calendar/controller"
	"meetsync/modules/calendar/repository"
	"meetsync/modules/calendar/router"
	"meetsync/modules/calendar/service"
)

// Init initializes the calendar module and returns the repository for the
// conflict detector, which reads events through the same ownership chain.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, q queue.Queue) repository.CalendarRepositoryInterface {
	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo, q)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)

	return repo
}
