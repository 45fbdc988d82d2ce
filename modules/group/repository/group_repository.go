package repository

import (
	"context"
	"database/sql"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/group/entity"
)

// GroupRepositoryInterface defines the repository contract
type GroupRepositoryInterface interface {
	CreateGroup(ctx context.Context, group *entity.Group) error
	GetGroupByID(ctx context.Context, id int64) (*entity.Group, error)
	UpdateGroup(ctx context.Context, group *entity.Group) error
	DeleteGroup(ctx context.Context, id int64) error

	AddMembers(ctx context.Context, groupID int64, userIDs []string) error
	RemoveMember(ctx context.Context, groupID int64, userID string) error
	CountMembers(ctx context.Context, groupID int64) (int, error)
	IsMember(ctx context.Context, groupID int64, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID int64) ([]entity.UserGroup, error)
	ListGroupIDsForUser(ctx context.Context, userID string) ([]int64, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]entity.Group, error)
}

type GroupRepository struct {
	DB database.Database
}

func NewGroupRepository(db database.Database) GroupRepositoryInterface {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) CreateGroup(ctx context.Context, group *entity.Group) error {
	query := `
		INSERT INTO groups (owner_id, name, description, member_cap)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		group.OwnerID, group.Name, group.Description, group.MemberCap,
	).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		logger.Error("GroupRepository:CreateGroup", err)
		return err
	}

	return nil
}

func (r *GroupRepository) GetGroupByID(ctx context.Context, id int64) (*entity.Group, error) {
	query := `
		SELECT id, owner_id, name, description, member_cap, created_at, updated_at
		FROM groups WHERE id = $1
	`

	var group entity.Group
	err := r.DB.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("GroupRepository:GetGroupByID", err)
		return nil, err
	}

	return &group, nil
}

func (r *GroupRepository) UpdateGroup(ctx context.Context, group *entity.Group) error {
	query := `
		UPDATE groups
		SET name = $2, description = $3, member_cap = $4, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, group.ID, group.Name, group.Description, group.MemberCap)
	if err != nil {
		logger.Error("GroupRepository:UpdateGroup", err)
		return err
	}
	return nil
}

// DeleteGroup removes the group and its membership rows. Meetings scoped
// to the group are detached first, degrading them to individually-scoped.
func (r *GroupRepository) DeleteGroup(ctx context.Context, id int64) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("GroupRepository:DeleteGroup - BeginTx", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE meeting_suggestions SET group_id = NULL WHERE group_id = $1`, id); err != nil {
		logger.Error("GroupRepository:DeleteGroup - Meetings", err)
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_groups WHERE group_id = $1`, id); err != nil {
		logger.Error("GroupRepository:DeleteGroup - Members", err)
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		logger.Error("GroupRepository:DeleteGroup - Group", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("GroupRepository:DeleteGroup - Commit", err)
		return err
	}
	return nil
}

func (r *GroupRepository) AddMembers(ctx context.Context, groupID int64, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("GroupRepository:AddMembers - BeginTx", err)
		return err
	}
	defer tx.Rollback()

	// joining twice is a no-op
	query := `
		INSERT INTO user_groups (user_id, group_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, group_id) DO NOTHING
	`

	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, query, userID, groupID); err != nil {
			logger.Error("GroupRepository:AddMembers - Insert", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("GroupRepository:AddMembers - Commit", err)
		return err
	}

	return nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID int64, userID string) error {
	query := `DELETE FROM user_groups WHERE group_id = $1 AND user_id = $2`

	err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		logger.Error("GroupRepository:RemoveMember", err)
		return err
	}
	return nil
}

func (r *GroupRepository) CountMembers(ctx context.Context, groupID int64) (int, error) {
	query := `SELECT COUNT(*) FROM user_groups WHERE group_id = $1`

	var count int
	if err := r.DB.GetContext(ctx, &count, query, groupID); err != nil {
		logger.Error("GroupRepository:CountMembers", err)
		return 0, err
	}
	return count, nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID int64, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_groups WHERE group_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.DB.GetContext(ctx, &exists, query, groupID, userID); err != nil {
		logger.Error("GroupRepository:IsMember", err)
		return false, err
	}
	return exists, nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID int64) ([]entity.UserGroup, error) {
	query := `
		SELECT user_id, group_id, created_at
		FROM user_groups
		WHERE group_id = $1
		ORDER BY created_at
	`

	var members []entity.UserGroup
	if err := r.DB.SelectContext(ctx, &members, query, groupID); err != nil {
		logger.Error("GroupRepository:ListMembers", err)
		return nil, err
	}
	return members, nil
}

func (r *GroupRepository) ListGroupIDsForUser(ctx context.Context, userID string) ([]int64, error) {
	query := `SELECT group_id FROM user_groups WHERE user_id = $1`

	var ids []int64
	if err := r.DB.SelectContext(ctx, &ids, query, userID); err != nil {
		logger.Error("GroupRepository:ListGroupIDsForUser", err)
		return nil, err
	}
	return ids, nil
}

func (r *GroupRepository) ListGroupsForUser(ctx context.Context, userID string) ([]entity.Group, error) {
	query := `
		SELECT g.id, g.owner_id, g.name, g.description, g.member_cap, g.created_at, g.updated_at
		FROM groups g
		JOIN user_groups ug ON ug.group_id = g.id
		WHERE ug.user_id = $1
		ORDER BY g.created_at DESC
	`

	var groups []entity.Group
	if err := r.DB.SelectContext(ctx, &groups, query, userID); err != nil {
		logger.Error("GroupRepository:ListGroupsForUser", err)
		return nil, err
	}
	return groups, nil
}
