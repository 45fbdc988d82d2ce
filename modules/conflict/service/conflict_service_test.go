package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreErrors "meetsync/core/errors"
	calendarentity "meetsync/modules/calendar/entity"
	"meetsync/modules/conflict/entity"
)

type fakeConflictRepo struct {
	upserts   []entity.Conflict
	conflicts map[int64]*entity.Conflict
	owners    map[int64]string
	resolved  []int64
}

func newFakeConflictRepo() *fakeConflictRepo {
	return &fakeConflictRepo{
		conflicts: make(map[int64]*entity.Conflict),
		owners:    make(map[int64]string),
	}
}

func (f *fakeConflictRepo) UpsertConflict(_ context.Context, event1ID, event2ID int64, conflictType entity.ConflictType) error {
	f.upserts = append(f.upserts, entity.Conflict{
		Event1ID:     event1ID,
		Event2ID:     event2ID,
		ConflictType: conflictType,
	})
	return nil
}

func (f *fakeConflictRepo) GetConflictByID(_ context.Context, id int64) (*entity.Conflict, error) {
	return f.conflicts[id], nil
}

func (f *fakeConflictRepo) GetConflictOwner(_ context.Context, id int64) (string, error) {
	return f.owners[id], nil
}

func (f *fakeConflictRepo) Resolve(_ context.Context, id int64) error {
	f.resolved = append(f.resolved, id)
	return nil
}

func (f *fakeConflictRepo) ListUnresolvedByUserID(_ context.Context, _ string) ([]entity.Conflict, error) {
	var out []entity.Conflict
	for _, c := range f.conflicts {
		if !c.IsResolved {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeCalendarRepo struct {
	events []calendarentity.Event
	fail   bool
}

func (f *fakeCalendarRepo) EnsureLocalCalendar(context.Context, string) (int64, error) { return 1, nil }
func (f *fakeCalendarRepo) CreateEvent(context.Context, *calendarentity.Event) error  { return nil }
func (f *fakeCalendarRepo) GetEventByID(context.Context, int64) (*calendarentity.Event, error) {
	return nil, nil
}
func (f *fakeCalendarRepo) GetEventOwner(context.Context, int64) (string, error) { return "", nil }
func (f *fakeCalendarRepo) UpdateEvent(context.Context, *calendarentity.Event) error {
	return nil
}
func (f *fakeCalendarRepo) DeleteEvent(context.Context, int64) error { return nil }

func (f *fakeCalendarRepo) ListEventsByUserID(context.Context, string) ([]calendarentity.Event, error) {
	if f.fail {
		return nil, errors.New("calendar backend down")
	}
	return f.events, nil
}

func TestDetectPersistsEachPair(t *testing.T) {
	repo := newFakeConflictRepo()
	cal := &fakeCalendarRepo{events: []calendarentity.Event{
		event(1, "10:00", "11:00"),
		event(2, "10:30", "12:00"),
		event(3, "15:00", "16:00"),
	}}
	svc := NewConflictService(repo, cal)

	result, appErr := svc.Detect(context.Background(), "alice")
	require.Nil(t, appErr)

	assert.Equal(t, 1, result.PairsFound)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, int64(1), repo.upserts[0].Event1ID)
	assert.Equal(t, int64(2), repo.upserts[0].Event2ID)
}

func TestDetectSurfacesEventLoadFailure(t *testing.T) {
	svc := NewConflictService(newFakeConflictRepo(), &fakeCalendarRepo{fail: true})

	_, appErr := svc.Detect(context.Background(), "alice")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrDependencyFailure, appErr.Code)
}

func TestResolveOwnerOnly(t *testing.T) {
	repo := newFakeConflictRepo()
	repo.conflicts[5] = &entity.Conflict{Event1ID: 1, Event2ID: 2}
	repo.owners[5] = "alice"
	svc := NewConflictService(repo, &fakeCalendarRepo{})

	appErr := svc.Resolve(context.Background(), 5, "mallory")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrForbidden, appErr.Code)
	assert.Empty(t, repo.resolved)

	require.Nil(t, svc.Resolve(context.Background(), 5, "alice"))
	assert.Equal(t, []int64{5}, repo.resolved)
}

func TestResolveNotFound(t *testing.T) {
	svc := NewConflictService(newFakeConflictRepo(), &fakeCalendarRepo{})

	appErr := svc.Resolve(context.Background(), 99, "alice")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}
