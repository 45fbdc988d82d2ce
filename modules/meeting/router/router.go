package router

import (
	"github.com/labstack/echo/v4"

	"meetsync/core/middleware"
	"meetsync/modules/meeting/controller"
)

// MeetingRouter handles meeting routes
type MeetingRouter struct {
	MeetingController *controller.MeetingController
}

func NewMeetingRouter(meetingController *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{
		MeetingController: meetingController,
	}
}

// Setup registers meeting routes
func (r *MeetingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public/meetings")
	publicRoutes.GET("/open", r.MeetingController.ListOpenMeetings)
	publicRoutes.GET("/slug/:slug", r.MeetingController.GetMeetingBySlug)

	privateRoutes := v1.Group("/private")
	meetingRoutes := privateRoutes.Group("/meetings", mw.AuthMiddleware())

	meetingRoutes.POST("", r.MeetingController.CreateMeeting)
	meetingRoutes.GET("", r.MeetingController.GetMyMeetings)
	meetingRoutes.GET("/:id", r.MeetingController.GetMeeting)
	meetingRoutes.PUT("/:id", r.MeetingController.UpdateMeeting)
	meetingRoutes.DELETE("/:id", r.MeetingController.DeleteMeeting)
	meetingRoutes.PUT("/:id/cancel", r.MeetingController.CancelMeeting)

	meetingRoutes.POST("/:id/join", r.MeetingController.JoinMeeting)
	meetingRoutes.DELETE("/:id/join", r.MeetingController.LeaveMeeting)

	meetingRoutes.POST("/:id/responses", r.MeetingController.Respond)
	meetingRoutes.GET("/:id/aggregate", r.MeetingController.GetAggregate)
	meetingRoutes.POST("/:id/confirm", r.MeetingController.ConfirmMeeting)
}
