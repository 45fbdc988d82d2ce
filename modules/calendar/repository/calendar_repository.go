package repository

import (
	"context"
	"database/sql"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/calendar/entity"
)

// CalendarRepositoryInterface defines the repository contract. Event reads
// are scoped through the ownership chain user -> connection -> calendar -> event.
type CalendarRepositoryInterface interface {
	EnsureLocalCalendar(ctx context.Context, userID string) (int64, error)

	CreateEvent(ctx context.Context, event *entity.Event) error
	GetEventByID(ctx context.Context, id int64) (*entity.Event, error)
	GetEventOwner(ctx context.Context, eventID int64) (string, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEventsByUserID(ctx context.Context, userID string) ([]entity.Event, error)
}

type CalendarRepository struct {
	DB database.Database
}

func NewCalendarRepository(db database.Database) CalendarRepositoryInterface {
	return &CalendarRepository{DB: db}
}

// EnsureLocalCalendar returns the user's default local calendar, creating the
// connection and calendar rows on first use.
func (r *CalendarRepository) EnsureLocalCalendar(ctx context.Context, userID string) (int64, error) {
	var calendarID int64

	query := `
		SELECT c.id
		FROM calendars c
		JOIN calendar_connections cc ON cc.id = c.connection_id
		WHERE cc.user_id = $1 AND cc.provider = 'local' AND cc.is_active = true
		ORDER BY c.id
		LIMIT 1
	`
	err := r.DB.GetContext(ctx, &calendarID, query, userID)
	if err == nil {
		return calendarID, nil
	}
	if err != sql.ErrNoRows {
		logger.Error("CalendarRepository:EnsureLocalCalendar - Lookup", err)
		return 0, err
	}

	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("CalendarRepository:EnsureLocalCalendar - BeginTx", err)
		return 0, err
	}
	defer tx.Rollback()

	var connectionID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO calendar_connections (user_id, provider, calendar_email, is_active)
		VALUES ($1, 'local', '', true)
		RETURNING id
	`, userID).Scan(&connectionID)
	if err != nil {
		logger.Error("CalendarRepository:EnsureLocalCalendar - Connection", err)
		return 0, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO calendars (connection_id, name)
		VALUES ($1, 'My Calendar')
		RETURNING id
	`, connectionID).Scan(&calendarID)
	if err != nil {
		logger.Error("CalendarRepository:EnsureLocalCalendar - Calendar", err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CalendarRepository:EnsureLocalCalendar - Commit", err)
		return 0, err
	}

	return calendarID, nil
}

func (r *CalendarRepository) CreateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (calendar_id, title, start_time, end_time, is_all_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		event.CalendarID, event.Title, event.StartTime, event.EndTime, event.IsAllDay,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		logger.Error("CalendarRepository:CreateEvent", err)
		return err
	}

	return nil
}

func (r *CalendarRepository) GetEventByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `
		SELECT id, calendar_id, title, start_time, end_time, is_all_day, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

// GetEventOwner walks the ownership chain back to the user id.
func (r *CalendarRepository) GetEventOwner(ctx context.Context, eventID int64) (string, error) {
	query := `
		SELECT cc.user_id
		FROM events e
		JOIN calendars c ON c.id = e.calendar_id
		JOIN calendar_connections cc ON cc.id = c.connection_id
		WHERE e.id = $1
	`

	var userID string
	err := r.DB.GetContext(ctx, &userID, query, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		logger.Error("CalendarRepository:GetEventOwner", err)
		return "", err
	}

	return userID, nil
}

func (r *CalendarRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, start_time = $3, end_time = $4, is_all_day = $5, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.StartTime, event.EndTime, event.IsAllDay)
	if err != nil {
		logger.Error("CalendarRepository:UpdateEvent", err)
		return err
	}
	return nil
}

// DeleteEvent removes the event together with any conflict rows that
// reference it, children before parent.
func (r *CalendarRepository) DeleteEvent(ctx context.Context, id int64) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("CalendarRepository:DeleteEvent - BeginTx", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conflicts WHERE event1_id = $1 OR event2_id = $1`, id); err != nil {
		logger.Error("CalendarRepository:DeleteEvent - Conflicts", err)
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		logger.Error("CalendarRepository:DeleteEvent - Event", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CalendarRepository:DeleteEvent - Commit", err)
		return err
	}
	return nil
}

func (r *CalendarRepository) ListEventsByUserID(ctx context.Context, userID string) ([]entity.Event, error) {
	query := `
		SELECT e.id, e.calendar_id, e.title, e.start_time, e.end_time, e.is_all_day, e.created_at, e.updated_at
		FROM events e
		JOIN calendars c ON c.id = e.calendar_id
		JOIN calendar_connections cc ON cc.id = c.connection_id
		WHERE cc.user_id = $1 AND cc.is_active = true
		ORDER BY e.start_time
	`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, userID); err != nil {
		logger.Error("CalendarRepository:ListEventsByUserID", err)
		return nil, err
	}
	return events, nil
}
