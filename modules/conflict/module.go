package conflict

import (
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/core/queue"
	calendarrepo "meetsync/modules/calendar/repository"
	"meetsync/modules/conflict/controller"
	"meetsync/modules/conflict/repository"
	"meetsync/modules/conflict/router"
	"meetsync/modules/conflict/service"
)

// Init initializes the conflict module, registers routes and the background
// detect handler.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, calendarRepo calendarrepo.CalendarRepositoryInterface, mux *asynq.ServeMux) {
	repo := repository.NewConflictRepository(db)
	svc := service.NewConflictService(repo, calendarRepo)
	ctrl := controller.NewConflictController(svc)
	rtr := router.NewConflictRouter(ctrl)

	rtr.Setup(e, mw)

	if mux != nil {
		mux.HandleFunc(queue.TaskConflictDetect, svc.HandleDetectTask)
	}
}
