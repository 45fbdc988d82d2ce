package service

import (
	"context"

	"meetsync/core/errors"
	"meetsync/modules/group/dto"
	"meetsync/modules/group/entity"
	"meetsync/modules/group/repository"
)

// GroupServiceInterface defines the service contract. Membership lookups are
// consumed by the meeting module to resolve who can see a group-scoped meeting.
type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, ownerID string, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError)
	GetGroupByID(ctx context.Context, id int64) (*dto.GroupResponse, *errors.AppError)
	UpdateGroup(ctx context.Context, groupID int64, callerID string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, *errors.AppError)
	DeleteGroup(ctx context.Context, groupID int64, callerID string) *errors.AppError
	AddMembers(ctx context.Context, groupID int64, callerID string, userIDs []string) *errors.AppError
	RemoveMember(ctx context.Context, groupID int64, callerID string, userID string) *errors.AppError
	ListGroupsForUser(ctx context.Context, userID string) ([]dto.GroupResponse, *errors.AppError)

	IsMember(ctx context.Context, groupID int64, userID string) (bool, error)
	ListGroupIDsForUser(ctx context.Context, userID string) ([]int64, error)
}

type GroupService struct {
	repo repository.GroupRepositoryInterface
}

func NewGroupService(repo repository.GroupRepositoryInterface) GroupServiceInterface {
	return &GroupService{repo: repo}
}

// CreateGroup creates a group; the owner is added as the first member.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID string, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Group name is required", nil)
	}

	cap := req.MemberCap
	if cap <= 0 {
		cap = entity.DefaultMemberCap
	}

	group := &entity.Group{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		MemberCap:   cap,
	}

	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create group", err)
	}

	if err := s.repo.AddMembers(ctx, group.ID, []string{ownerID}); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to add owner to group", err)
	}

	return s.GetGroupByID(ctx, group.ID)
}

func (s *GroupService) GetGroupByID(ctx context.Context, id int64) (*dto.GroupResponse, *errors.AppError) {
	group, err := s.repo.GetGroupByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get group", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}

	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list members", err)
	}

	return dto.ToGroupResponse(group, members), nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, groupID int64, callerID string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get group", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}
	if group.OwnerID != callerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the owner can update a group", nil)
	}

	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Description != "" {
		group.Description = req.Description
	}
	if req.MemberCap > 0 {
		group.MemberCap = req.MemberCap
	}

	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update group", err)
	}

	return s.GetGroupByID(ctx, groupID)
}

func (s *GroupService) DeleteGroup(ctx context.Context, groupID int64, callerID string) *errors.AppError {
	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get group", err)
	}
	if group == nil {
		return errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}
	if group.OwnerID != callerID {
		return errors.NewAppError(errors.ErrForbidden, "Only the owner can delete a group", nil)
	}

	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete group", err)
	}
	return nil
}

// AddMembers adds users to the group, enforcing the soft membership cap.
func (s *GroupService) AddMembers(ctx context.Context, groupID int64, callerID string, userIDs []string) *errors.AppError {
	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get group", err)
	}
	if group == nil {
		return errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}
	if group.OwnerID != callerID {
		return errors.NewAppError(errors.ErrForbidden, "Only the owner can add members", nil)
	}

	count, err := s.repo.CountMembers(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to count members", err)
	}
	if count+len(userIDs) > group.MemberCap {
		return errors.NewAppError(errors.ErrQuotaExceeded, "Group membership cap reached", nil)
	}

	if err := s.repo.AddMembers(ctx, groupID, userIDs); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to add members", err)
	}
	return nil
}

func (s *GroupService) RemoveMember(ctx context.Context, groupID int64, callerID string, userID string) *errors.AppError {
	group, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get group", err)
	}
	if group == nil {
		return errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}
	// members may leave on their own; only the owner removes others
	if group.OwnerID != callerID && callerID != userID {
		return errors.NewAppError(errors.ErrForbidden, "Not allowed to remove this member", nil)
	}

	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to remove member", err)
	}
	return nil
}

func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]dto.GroupResponse, *errors.AppError) {
	groups, err := s.repo.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list groups", err)
	}

	result := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		members, err := s.repo.ListMembers(ctx, g.ID)
		if err != nil {
			members = nil
		}
		result = append(result, *dto.ToGroupResponse(&g, members))
	}
	return result, nil
}

func (s *GroupService) IsMember(ctx context.Context, groupID int64, userID string) (bool, error) {
	return s.repo.IsMember(ctx, groupID, userID)
}

func (s *GroupService) ListGroupIDsForUser(ctx context.Context, userID string) ([]int64, error) {
	return s.repo.ListGroupIDsForUser(ctx, userID)
}
