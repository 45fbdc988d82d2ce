package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"
	"meetsync/modules/group/dto"
	"meetsync/modules/group/service"
)

// GroupController handles group HTTP requests
type GroupController struct {
	controller.BaseController
	GroupService service.GroupServiceInterface
}

func NewGroupController(svc service.GroupServiceInterface) *GroupController {
	return &GroupController{
		BaseController: controller.NewBaseController(),
		GroupService:   svc,
	}
}

func (c *GroupController) getUserIDFromContext(ctx echo.Context) (string, error) {
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

func (c *GroupController) groupIDFromPath(ctx echo.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param("id"), 10, 64)
}

// CreateGroup handles POST /groups
// @Summary Create a group
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateGroupRequest true "Group details"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} errors.AppError
// @Router /private/groups [post]
func (c *GroupController) CreateGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.GroupService.CreateGroup(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Group created successfully")
}

// GetGroup handles GET /groups/:id
// @Summary Get a group
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 404 {object} errors.AppError
// @Router /private/groups/{id} [get]
func (c *GroupController) GetGroup(ctx echo.Context) error {
	groupID, err := c.groupIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	result, appErr := c.GroupService.GetGroupByID(ctx.Request().Context(), groupID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetMyGroups handles GET /groups
// @Summary List the caller's groups
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.GroupResponse
// @Router /private/groups [get]
func (c *GroupController) GetMyGroups(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.GroupService.ListGroupsForUser(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateGroup handles PUT /groups/:id
// @Summary Update a group
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body dto.UpdateGroupRequest true "Updated fields"
// @Success 200 {object} dto.GroupResponse
// @Failure 403 {object} errors.AppError
// @Router /private/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := c.groupIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	var req dto.UpdateGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.GroupService.UpdateGroup(ctx.Request().Context(), groupID, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Group updated successfully")
}

// DeleteGroup handles DELETE /groups/:id
// @Summary Delete a group
// @Tags Group
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Router /private/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := c.groupIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	if appErr := c.GroupService.DeleteGroup(ctx.Request().Context(), groupID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Group deleted successfully")
}

// AddMembers handles POST /groups/:id/members
// @Summary Add members to a group
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Param id path int true "Group ID"
// @Param request body dto.AddMembersRequest true "User IDs"
// @Success 200 {object} map[string]string
// @Failure 409 {object} errors.AppError
// @Router /private/groups/{id}/members [post]
func (c *GroupController) AddMembers(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := c.groupIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	var req dto.AddMembersRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.GroupService.AddMembers(ctx.Request().Context(), groupID, userID, req.UserIDs); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Members added successfully")
}

// RemoveMember handles DELETE /groups/:id/members/:userId
// @Summary Remove a member from a group
// @Tags Group
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Router /private/groups/{id}/members/{userId} [delete]
func (c *GroupController) RemoveMember(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, err := c.groupIDFromPath(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	if appErr := c.GroupService.RemoveMember(ctx.Request().Context(), groupID, userID, ctx.Param("userId")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Member removed successfully")
}
