package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/params"
	"meetsync/core/utils"
	"meetsync/modules/meeting/dto"
	"meetsync/modules/meeting/service"
)

// MeetingController handles meeting HTTP requests
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *MeetingController) getUserIDFromContext(ctx echo.Context) (string, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return "", errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return "", errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

func meetingIDFromPath(ctx echo.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}

// CreateMeeting handles POST /private/meetings
// @Summary Propose a new meeting
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting details"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Failure 502 {object} errors.AppError
// @Router /private/meetings [post]
func (c *MeetingController) CreateMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.CreateSuggestion(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting created successfully")
}

// GetMyMeetings handles GET /private/meetings
// @Summary List meetings visible to me
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.MeetingResponse
// @Failure 401 {object} errors.AppError
// @Router /private/meetings [get]
func (c *MeetingController) GetMyMeetings(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.MeetingService.ListForUser(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meetings retrieved successfully")
}

// GetMeeting handles GET /private/meetings/:id
// @Summary Get meeting details
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id} [get]
func (c *MeetingController) GetMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.GetSuggestion(ctx.Request().Context(), id, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting retrieved successfully")
}

// UpdateMeeting handles PUT /private/meetings/:id
// @Summary Update a meeting
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Meeting ID"
// @Param request body dto.UpdateMeetingRequest true "Fields to update"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id} [put]
func (c *MeetingController) UpdateMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.UpdateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.UpdateSuggestion(ctx.Request().Context(), id, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting updated successfully")
}

// DeleteMeeting handles DELETE /private/meetings/:id
// @Summary Delete a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id} [delete]
func (c *MeetingController) DeleteMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.MeetingService.DeleteSuggestion(ctx.Request().Context(), id, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Meeting deleted successfully")
}

// CancelMeeting handles PUT /private/meetings/:id/cancel
// @Summary Cancel a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id}/cancel [put]
func (c *MeetingController) CancelMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.MeetingService.CancelSuggestion(ctx.Request().Context(), id, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Meeting cancelled successfully")
}

// JoinMeeting handles POST /private/meetings/:id/join
// @Summary Join a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/join [post]
func (c *MeetingController) JoinMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.MeetingService.Join(ctx.Request().Context(), id, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Joined meeting successfully")
}

// LeaveMeeting handles DELETE /private/meetings/:id/join
// @Summary Leave a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/join [delete]
func (c *MeetingController) LeaveMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.MeetingService.Leave(ctx.Request().Context(), id, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Left meeting successfully")
}

// Respond handles POST /private/meetings/:id/responses
// @Summary Respond to a meeting
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Meeting ID"
// @Param request body dto.RespondRequest true "Response"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/responses [post]
func (c *MeetingController) Respond(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.RespondRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.MeetingService.Respond(ctx.Request().Context(), id, userID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Response recorded successfully")
}

// GetAggregate handles GET /private/meetings/:id/aggregate
// @Summary Get the response tally for a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} dto.AggregateResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/aggregate [get]
func (c *MeetingController) GetAggregate(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.Aggregate(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Aggregate retrieved successfully")
}

// ConfirmMeeting handles POST /private/meetings/:id/confirm
// @Summary Confirm a meeting when all participants accepted
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path int true "Meeting ID"
// @Success 200 {object} dto.AggregateResponse
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id}/confirm [post]
func (c *MeetingController) ConfirmMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := meetingIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.ConfirmIfAllAccepted(ctx.Request().Context(), id, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting confirmation evaluated")
}

// ListOpenMeetings handles GET /public/meetings/open
// @Summary List open meetings
// @Tags Meeting
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} dto.MeetingResponse
// @Router /public/meetings/open [get]
func (c *MeetingController) ListOpenMeetings(ctx echo.Context) error {
	queryParams := params.FromEchoContext(ctx)

	result, appErr := c.MeetingService.ListOpen(ctx.Request().Context(), queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Open meetings retrieved successfully")
}

// GetMeetingBySlug handles GET /public/meetings/slug/:slug
// @Summary Get an open meeting by slug
// @Tags Meeting
// @Produce json
// @Param slug path string true "Meeting slug"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} errors.AppError
// @Router /public/meetings/slug/{slug} [get]
func (c *MeetingController) GetMeetingBySlug(ctx echo.Context) error {
	result, appErr := c.MeetingService.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting retrieved successfully")
}
