package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/meeting/entity"
)

type MeetingRepository struct {
	db database.Database
}

type MeetingRepositoryInterface interface {
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	CreateSuggestion(ctx context.Context, m *entity.MeetingSuggestion) error
	GetSuggestionByID(ctx context.Context, id int64) (*entity.MeetingSuggestion, error)
	GetSuggestionBySlug(ctx context.Context, slug string) (*entity.MeetingSuggestion, error)
	UpdateSuggestion(ctx context.Context, m *entity.MeetingSuggestion) error
	UpdateStatus(ctx context.Context, id int64, status entity.MeetingStatus) error
	SetImageURL(ctx context.Context, id int64, url string) error
	DeleteSuggestion(ctx context.Context, id int64) error

	UpsertParticipant(ctx context.Context, meetingID int64, userID string) error
	RemoveParticipant(ctx context.Context, meetingID int64, userID string) error
	ListParticipants(ctx context.Context, meetingID int64) ([]entity.MeetingParticipant, error)
	CountParticipants(ctx context.Context, meetingID int64) (int, error)
	IsParticipant(ctx context.Context, meetingID int64, userID string) (bool, error)

	InsertResponse(ctx context.Context, r *entity.MeetingResponse) error
	ListResponsesByMeetingID(ctx context.Context, meetingID int64) ([]entity.MeetingResponse, error)

	AddTags(ctx context.Context, meetingID int64, tags []string) error
	ListTags(ctx context.Context, meetingID int64) ([]string, error)

	ListByAuthor(ctx context.Context, authorID string) ([]entity.MeetingSuggestion, error)
	ListByParticipant(ctx context.Context, userID string) ([]entity.MeetingSuggestion, error)
	ListByGroupIDs(ctx context.Context, groupIDs []int64) ([]entity.MeetingSuggestion, error)
	ListOpen(ctx context.Context, maxParticipants, limit, offset int) ([]entity.MeetingSuggestion, error)
}

func NewMeetingRepository(db database.Database) MeetingRepositoryInterface {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	query := `SELECT COUNT(*) FROM meeting_suggestions WHERE author_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, authorID)
	if err != nil {
		logger.Error("MeetingRepo:CountByAuthor", err)
		return 0, err
	}
	return count, nil
}

func (r *MeetingRepository) CreateSuggestion(ctx context.Context, m *entity.MeetingSuggestion) error {
	query := `
		INSERT INTO meeting_suggestions
			(author_id, group_id, title, description, location, proposed_at,
			 duration_minutes, requires_all_accept, status, is_private, slug, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		m.AuthorID, m.GroupID, m.Title, m.Description, m.Location, m.ProposedAt,
		m.DurationMinutes, m.RequiresAllAccept, m.Status, m.IsPrivate, m.Slug, m.ImageURL,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		logger.Error("MeetingRepo:CreateSuggestion", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) GetSuggestionByID(ctx context.Context, id int64) (*entity.MeetingSuggestion, error) {
	query := `SELECT * FROM meeting_suggestions WHERE id = $1`

	var m entity.MeetingSuggestion
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepo:GetSuggestionByID", err)
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepository) GetSuggestionBySlug(ctx context.Context, slug string) (*entity.MeetingSuggestion, error) {
	query := `SELECT * FROM meeting_suggestions WHERE slug = $1`

	var m entity.MeetingSuggestion
	err := r.db.GetContext(ctx, &m, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepo:GetSuggestionBySlug", err)
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepository) UpdateSuggestion(ctx context.Context, m *entity.MeetingSuggestion) error {
	query := `
		UPDATE meeting_suggestions
		SET title = $1, description = $2, location = $3, proposed_at = $4,
		    duration_minutes = $5, is_private = $6, updated_at = NOW()
		WHERE id = $7`

	err := r.db.ExecContext(ctx, query,
		m.Title, m.Description, m.Location, m.ProposedAt,
		m.DurationMinutes, m.IsPrivate, m.ID,
	)
	if err != nil {
		logger.Error("MeetingRepo:UpdateSuggestion", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id int64, status entity.MeetingStatus) error {
	query := `UPDATE meeting_suggestions SET status = $1, updated_at = NOW() WHERE id = $2`

	err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		logger.Error("MeetingRepo:UpdateStatus", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) SetImageURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE meeting_suggestions SET image_url = $1, updated_at = NOW() WHERE id = $2`

	err := r.db.ExecContext(ctx, query, url, id)
	if err != nil {
		logger.Error("MeetingRepo:SetImageURL", err)
		return err
	}
	return nil
}

// DeleteSuggestion removes a meeting and its dependent rows in one transaction.
// Children go first so the suggestion row is the last thing to disappear.
func (r *MeetingRepository) DeleteSuggestion(ctx context.Context, id int64) error {
	tx, err := r.db.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("MeetingRepo:DeleteSuggestion:Begin", err)
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM meeting_responses WHERE meeting_id = $1`,
		`DELETE FROM meeting_participants WHERE meeting_id = $1`,
		`DELETE FROM meeting_tags WHERE meeting_id = $1`,
		`DELETE FROM meeting_suggestions WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			logger.Error("MeetingRepo:DeleteSuggestion", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("MeetingRepo:DeleteSuggestion:Commit", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) UpsertParticipant(ctx context.Context, meetingID int64, userID string) error {
	query := `
		INSERT INTO meeting_participants (meeting_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (meeting_id, user_id) DO NOTHING`

	err := r.db.ExecContext(ctx, query, meetingID, userID)
	if err != nil {
		logger.Error("MeetingRepo:UpsertParticipant", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) RemoveParticipant(ctx context.Context, meetingID int64, userID string) error {
	query := `DELETE FROM meeting_participants WHERE meeting_id = $1 AND user_id = $2`

	err := r.db.ExecContext(ctx, query, meetingID, userID)
	if err != nil {
		logger.Error("MeetingRepo:RemoveParticipant", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) ListParticipants(ctx context.Context, meetingID int64) ([]entity.MeetingParticipant, error) {
	query := `SELECT * FROM meeting_participants WHERE meeting_id = $1 ORDER BY joined_at, user_id`

	var participants []entity.MeetingParticipant
	err := r.db.SelectContext(ctx, &participants, query, meetingID)
	if err != nil {
		logger.Error("MeetingRepo:ListParticipants", err)
		return nil, err
	}
	return participants, nil
}

func (r *MeetingRepository) CountParticipants(ctx context.Context, meetingID int64) (int, error) {
	query := `SELECT COUNT(*) FROM meeting_participants WHERE meeting_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, meetingID)
	if err != nil {
		logger.Error("MeetingRepo:CountParticipants", err)
		return 0, err
	}
	return count, nil
}

func (r *MeetingRepository) IsParticipant(ctx context.Context, meetingID int64, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM meeting_participants WHERE meeting_id = $1 AND user_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, meetingID, userID)
	if err != nil {
		logger.Error("MeetingRepo:IsParticipant", err)
		return false, err
	}
	return exists, nil
}

func (r *MeetingRepository) InsertResponse(ctx context.Context, resp *entity.MeetingResponse) error {
	query := `
		INSERT INTO meeting_responses
			(meeting_id, user_id, response_type, note, counter_at, counter_location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		resp.MeetingID, resp.UserID, resp.ResponseType, resp.Note, resp.CounterAt, resp.CounterLocation,
	).Scan(&resp.ID, &resp.CreatedAt)
	if err != nil {
		logger.Error("MeetingRepo:InsertResponse", err)
		return err
	}
	return nil
}

// ListResponsesByMeetingID returns the full append-only response history,
// oldest first. ID breaks ties for rows sharing a created_at.
func (r *MeetingRepository) ListResponsesByMeetingID(ctx context.Context, meetingID int64) ([]entity.MeetingResponse, error) {
	query := `SELECT * FROM meeting_responses WHERE meeting_id = $1 ORDER BY created_at, id`

	var responses []entity.MeetingResponse
	err := r.db.SelectContext(ctx, &responses, query, meetingID)
	if err != nil {
		logger.Error("MeetingRepo:ListResponsesByMeetingID", err)
		return nil, err
	}
	return responses, nil
}

func (r *MeetingRepository) AddTags(ctx context.Context, meetingID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	tx, err := r.db.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("MeetingRepo:AddTags:Begin", err)
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO meeting_tags (meeting_id, tag)
		VALUES ($1, $2)
		ON CONFLICT (meeting_id, tag) DO NOTHING`

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, query, meetingID, tag); err != nil {
			logger.Error("MeetingRepo:AddTags", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("MeetingRepo:AddTags:Commit", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) ListTags(ctx context.Context, meetingID int64) ([]string, error) {
	query := `SELECT tag FROM meeting_tags WHERE meeting_id = $1 ORDER BY tag`

	var tags []string
	err := r.db.SelectContext(ctx, &tags, query, meetingID)
	if err != nil {
		logger.Error("MeetingRepo:ListTags", err)
		return nil, err
	}
	return tags, nil
}

func (r *MeetingRepository) ListByAuthor(ctx context.Context, authorID string) ([]entity.MeetingSuggestion, error) {
	query := `SELECT * FROM meeting_suggestions WHERE author_id = $1 ORDER BY proposed_at DESC`

	var meetings []entity.MeetingSuggestion
	err := r.db.SelectContext(ctx, &meetings, query, authorID)
	if err != nil {
		logger.Error("MeetingRepo:ListByAuthor", err)
		return nil, err
	}
	return meetings, nil
}

func (r *MeetingRepository) ListByParticipant(ctx context.Context, userID string) ([]entity.MeetingSuggestion, error) {
	query := `
		SELECT ms.*
		FROM meeting_suggestions ms
		JOIN meeting_participants mp ON mp.meeting_id = ms.id
		WHERE mp.user_id = $1
		ORDER BY ms.proposed_at DESC`

	var meetings []entity.MeetingSuggestion
	err := r.db.SelectContext(ctx, &meetings, query, userID)
	if err != nil {
		logger.Error("MeetingRepo:ListByParticipant", err)
		return nil, err
	}
	return meetings, nil
}

func (r *MeetingRepository) ListByGroupIDs(ctx context.Context, groupIDs []int64) ([]entity.MeetingSuggestion, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	query := `SELECT * FROM meeting_suggestions WHERE group_id = ANY($1) ORDER BY proposed_at DESC`

	var meetings []entity.MeetingSuggestion
	err := r.db.SelectContext(ctx, &meetings, query, pq.Array(groupIDs))
	if err != nil {
		logger.Error("MeetingRepo:ListByGroupIDs", err)
		return nil, err
	}
	return meetings, nil
}

// ListOpen returns public meetings still below the participant ceiling,
// newest proposal first.
func (r *MeetingRepository) ListOpen(ctx context.Context, maxParticipants, limit, offset int) ([]entity.MeetingSuggestion, error) {
	query := `
		SELECT ms.*
		FROM meeting_suggestions ms
		WHERE ms.is_private = FALSE
		  AND (SELECT COUNT(*) FROM meeting_participants mp WHERE mp.meeting_id = ms.id) < $1
		ORDER BY ms.proposed_at DESC
		LIMIT $2 OFFSET $3`

	var meetings []entity.MeetingSuggestion
	err := r.db.SelectContext(ctx, &meetings, query, maxParticipants, limit, offset)
	if err != nil {
		logger.Error("MeetingRepo:ListOpen", err)
		return nil, err
	}
	return meetings, nil
}
