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
	"meetsync/modules/group/entity"
)

func newGroupMock(t *testing.T) (GroupRepositoryInterface, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := NewGroupRepository(database.NewFromSQLx(sqlx.NewDb(db, "sqlmock")))
	return repo, mock, func() { db.Close() }
}

func TestGroupRepositoryCreateGroup(t *testing.T) {
	repo, mock, cleanup := newGroupMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO groups").
		WithArgs("alice", "Book club", "Monthly reads", entity.DefaultMemberCap).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(4), now, now))

	group := &entity.Group{
		OwnerID:     "alice",
		Name:        "Book club",
		Description: "Monthly reads",
		MemberCap:   entity.DefaultMemberCap,
	}
	require.NoError(t, repo.CreateGroup(context.Background(), group))
	assert.Equal(t, int64(4), group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryAddMembersUpserts(t *testing.T) {
	repo, mock, cleanup := newGroupMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, group_id) DO NOTHING")).
		WithArgs("bob", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, group_id) DO NOTHING")).
		WithArgs("carol", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AddMembers(context.Background(), 4, []string{"bob", "carol"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryDeleteGroupChildrenFirst(t *testing.T) {
	repo, mock, cleanup := newGroupMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE meeting_suggestions SET group_id = NULL WHERE group_id = $1")).
		WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM user_groups WHERE group_id").
		WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM groups WHERE id").
		WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteGroup(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryIsMember(t *testing.T) {
	repo, mock, cleanup := newGroupMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(4), "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsMember(context.Background(), 4, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryListGroupIDsForUser(t *testing.T) {
	repo, mock, cleanup := newGroupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT group_id FROM user_groups WHERE user_id = $1")).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow(int64(4)).AddRow(int64(9)))

	ids, err := repo.ListGroupIDsForUser(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
