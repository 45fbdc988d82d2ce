package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetsync/core/database"
	"meetsync/modules/calendar/entity"
)

func newCalendarMock(t *testing.T) (CalendarRepositoryInterface, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := NewCalendarRepository(database.NewFromSQLx(sqlx.NewDb(db, "sqlmock")))
	return repo, mock, func() { db.Close() }
}

func TestCalendarRepositoryCreateEvent(t *testing.T) {
	repo, mock, cleanup := newCalendarMock(t)
	defer cleanup()

	now := time.Now()
	start := now.Add(time.Hour)
	end := start.Add(time.Hour)

	mock.ExpectQuery("INSERT INTO events").
		WithArgs(int64(2), "Standup", start, end, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	event := &entity.Event{CalendarID: 2, Title: "Standup", StartTime: start, EndTime: end}
	require.NoError(t, repo.CreateEvent(context.Background(), event))
	assert.Equal(t, int64(11), event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryDeleteEventRemovesConflictsFirst(t *testing.T) {
	repo, mock, cleanup := newCalendarMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM conflicts WHERE event1_id = $1 OR event2_id = $1")).
		WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = $1")).
		WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteEvent(context.Background(), 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryDeleteEventRollsBackOnFailure(t *testing.T) {
	repo, mock, cleanup := newCalendarMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM conflicts").
		WithArgs(int64(11)).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	require.Error(t, repo.DeleteEvent(context.Background(), 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryGetEventOwner(t *testing.T) {
	repo, mock, cleanup := newCalendarMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT cc\\.user_id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("alice"))

	owner, err := repo.GetEventOwner(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
