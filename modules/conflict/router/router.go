package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/conflict/controller"
)

// ConflictRouter handles conflict routes
type ConflictRouter struct {
	ConflictController *controller.ConflictController
}

func NewConflictRouter(conflictController *controller.ConflictController) *ConflictRouter {
	return &ConflictRouter{
		ConflictController: conflictController,
	}
}

// Setup registers conflict routes
func (r *ConflictRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	conflictRoutes := privateRoutes.Group("/conflicts", mw.AuthMiddleware())

	conflictRoutes.GET("", r.ConflictController.ListUnresolved)
	conflictRoutes.POST("/scan", r.ConflictController.Scan)
	conflictRoutes.POST("/:id/resolve", r.ConflictController.Resolve)
}
