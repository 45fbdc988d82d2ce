package repository

import (
	"context"
	"database/sql"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/conflict/entity"
)

// ConflictRepositoryInterface defines the repository contract
type ConflictRepositoryInterface interface {
	UpsertConflict(ctx context.Context, event1ID, event2ID int64, conflictType entity.ConflictType) error
	GetConflictByID(ctx context.Context, id int64) (*entity.Conflict, error)
	GetConflictOwner(ctx context.Context, id int64) (string, error)
	Resolve(ctx context.Context, id int64) error
	ListUnresolvedByUserID(ctx context.Context, userID string) ([]entity.Conflict, error)
}

type ConflictRepository struct {
	DB database.Database
}

func NewConflictRepository(db database.Database) ConflictRepositoryInterface {
	return &ConflictRepository{DB: db}
}

// UpsertConflict records a detected pair. Re-detection refreshes detected_at
// but leaves is_resolved untouched, so a resolved conflict stays resolved.
func (r *ConflictRepository) UpsertConflict(ctx context.Context, event1ID, event2ID int64, conflictType entity.ConflictType) error {
	query := `
		INSERT INTO conflicts (event1_id, event2_id, conflict_type, is_resolved, detected_at)
		VALUES ($1, $2, $3, false, NOW())
		ON CONFLICT (event1_id, event2_id) DO UPDATE SET conflict_type = $3, detected_at = NOW()
	`

	if err := r.DB.ExecContext(ctx, query, event1ID, event2ID, conflictType); err != nil {
		logger.Error("ConflictRepository:UpsertConflict", err)
		return err
	}
	return nil
}

func (r *ConflictRepository) GetConflictByID(ctx context.Context, id int64) (*entity.Conflict, error) {
	query := `
		SELECT id, event1_id, event2_id, conflict_type, is_resolved, detected_at, created_at, updated_at
		FROM conflicts WHERE id = $1
	`

	var conflict entity.Conflict
	err := r.DB.GetContext(ctx, &conflict, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ConflictRepository:GetConflictByID", err)
		return nil, err
	}

	return &conflict, nil
}

// GetConflictOwner resolves the conflict's user through the first event's
// ownership chain. Both events belong to the same user by construction.
func (r *ConflictRepository) GetConflictOwner(ctx context.Context, id int64) (string, error) {
	query := `
		SELECT cc.user_id
		FROM conflicts cf
		JOIN events e ON e.id = cf.event1_id
		JOIN calendars c ON c.id = e.calendar_id
		JOIN calendar_connections cc ON cc.id = c.connection_id
		WHERE cf.id = $1
	`

	var userID string
	err := r.DB.GetContext(ctx, &userID, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		logger.Error("ConflictRepository:GetConflictOwner", err)
		return "", err
	}

	return userID, nil
}

func (r *ConflictRepository) Resolve(ctx context.Context, id int64) error {
	query := `UPDATE conflicts SET is_resolved = true, updated_at = NOW() WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("ConflictRepository:Resolve", err)
		return err
	}
	return nil
}

func (r *ConflictRepository) ListUnresolvedByUserID(ctx context.Context, userID string) ([]entity.Conflict, error) {
	query := `
		SELECT cf.id, cf.event1_id, cf.event2_id, cf.conflict_type, cf.is_resolved, cf.detected_at, cf.created_at, cf.updated_at
		FROM conflicts cf
		JOIN events e ON e.id = cf.event1_id
		JOIN calendars c ON c.id = e.calendar_id
		JOIN calendar_connections cc ON cc.id = c.connection_id
		WHERE cc.user_id = $1 AND cf.is_resolved = false
		ORDER BY cf.detected_at DESC
	`

	var conflicts []entity.Conflict
	if err := r.DB.SelectContext(ctx, &conflicts, query, userID); err != nil {
		logger.Error("ConflictRepository:ListUnresolvedByUserID", err)
		return nil, err
	}
	return conflicts, nil
}
