package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/calendar/controller"
)

// CalendarRouter handles calendar routes
type CalendarRouter struct {
	CalendarController *controller.CalendarController
}

func NewCalendarRouter(calendarController *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		CalendarController: calendarController,
	}
}

// Setup registers calendar routes
func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	eventRoutes := privateRoutes.Group("/calendar/events", mw.AuthMiddleware())

	eventRoutes.POST("", r.CalendarController.CreateEvent)
	eventRoutes.GET("", r.CalendarController.GetMyEvents)
	eventRoutes.PUT("/:id", r.CalendarController.UpdateEvent)
	eventRoutes.DELETE("/:id", r.CalendarController.DeleteEvent)
}
