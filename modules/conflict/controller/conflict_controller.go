package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"
	"meetsync/modules/conflict/service"
)

// ConflictController handles conflict HTTP requests
type ConflictController struct {
	controller.BaseController
	ConflictService service.ConflictServiceInterface
}

func NewConflictController(svc service.ConflictServiceInterface) *ConflictController {
	return &ConflictController{
		BaseController:  controller.NewBaseController(),
		ConflictService: svc,
	}
}

func (c *ConflictController) getUserIDFromContext(ctx echo.Context) (string, error) {
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

// Scan handles POST /conflicts/scan
// @Summary Rescan the caller's events for conflicts
// @Tags Conflict
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.DetectResponse
// @Router /private/conflicts/scan [post]
func (c *ConflictController) Scan(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ConflictService.Detect(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Scan completed")
}

// ListUnresolved handles GET /conflicts
// @Summary List the caller's unresolved conflicts
// @Tags Conflict
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ConflictResponse
// @Router /private/conflicts [get]
func (c *ConflictController) ListUnresolved(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.ConflictService.ListUnresolved(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Resolve handles POST /conflicts/:id/resolve
// @Summary Mark a conflict as resolved
// @Tags Conflict
// @Security BearerAuth
// @Param id path int true "Conflict ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/conflicts/{id}/resolve [post]
func (c *ConflictController) Resolve(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	conflictID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid conflict ID")
	}

	if appErr := c.ConflictService.Resolve(ctx.Request().Context(), conflictID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Conflict resolved")
}
