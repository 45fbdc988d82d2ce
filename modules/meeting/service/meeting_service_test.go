package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreErrors "meetsync/core/errors"
	"meetsync/core/params"
	groupDto "meetsync/modules/group/dto"
	"meetsync/modules/meeting/dto"
	"meetsync/modules/meeting/entity"
	notifDto "meetsync/modules/notification/dto"
	notifEntity "meetsync/modules/notification/entity"
)

// ===================== fakes =====================

type fakeMeetingRepo struct {
	meetings     map[int64]*entity.MeetingSuggestion
	participants map[int64]map[string]entity.MeetingParticipant
	responses    []entity.MeetingResponse
	tags         map[int64][]string
	nextID       int64
	nextRespID   int64

	failResponses bool
	deleted       []int64
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{
		meetings:     make(map[int64]*entity.MeetingSuggestion),
		participants: make(map[int64]map[string]entity.MeetingParticipant),
		tags:         make(map[int64][]string),
	}
}

func (f *fakeMeetingRepo) CountByAuthor(_ context.Context, authorID string) (int, error) {
	count := 0
	for _, m := range f.meetings {
		if m.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeMeetingRepo) CreateSuggestion(_ context.Context, m *entity.MeetingSuggestion) error {
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	cp := *m
	f.meetings[m.ID] = &cp
	return nil
}

func (f *fakeMeetingRepo) GetSuggestionByID(_ context.Context, id int64) (*entity.MeetingSuggestion, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMeetingRepo) GetSuggestionBySlug(_ context.Context, slug string) (*entity.MeetingSuggestion, error) {
	for _, m := range f.meetings {
		if m.Slug == slug {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) UpdateSuggestion(_ context.Context, m *entity.MeetingSuggestion) error {
	cp := *m
	f.meetings[m.ID] = &cp
	return nil
}

func (f *fakeMeetingRepo) UpdateStatus(_ context.Context, id int64, status entity.MeetingStatus) error {
	if m, ok := f.meetings[id]; ok {
		m.Status = status
	}
	return nil
}

func (f *fakeMeetingRepo) SetImageURL(_ context.Context, id int64, url string) error {
	if m, ok := f.meetings[id]; ok {
		m.ImageURL = &url
	}
	return nil
}

func (f *fakeMeetingRepo) DeleteSuggestion(_ context.Context, id int64) error {
	delete(f.meetings, id)
	delete(f.participants, id)
	delete(f.tags, id)
	kept := f.responses[:0]
	for _, r := range f.responses {
		if r.MeetingID != id {
			kept = append(kept, r)
		}
	}
	f.responses = kept
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMeetingRepo) UpsertParticipant(_ context.Context, meetingID int64, userID string) error {
	if f.participants[meetingID] == nil {
		f.participants[meetingID] = make(map[string]entity.MeetingParticipant)
	}
	if _, ok := f.participants[meetingID][userID]; ok {
		return nil
	}
	f.participants[meetingID][userID] = entity.MeetingParticipant{
		MeetingID: meetingID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	return nil
}

func (f *fakeMeetingRepo) RemoveParticipant(_ context.Context, meetingID int64, userID string) error {
	delete(f.participants[meetingID], userID)
	return nil
}

func (f *fakeMeetingRepo) ListParticipants(_ context.Context, meetingID int64) ([]entity.MeetingParticipant, error) {
	var out []entity.MeetingParticipant
	for _, p := range f.participants[meetingID] {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeMeetingRepo) CountParticipants(_ context.Context, meetingID int64) (int, error) {
	return len(f.participants[meetingID]), nil
}

func (f *fakeMeetingRepo) IsParticipant(_ context.Context, meetingID int64, userID string) (bool, error) {
	_, ok := f.participants[meetingID][userID]
	return ok, nil
}

func (f *fakeMeetingRepo) InsertResponse(_ context.Context, r *entity.MeetingResponse) error {
	f.nextRespID++
	r.ID = f.nextRespID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	f.responses = append(f.responses, *r)
	return nil
}

func (f *fakeMeetingRepo) ListResponsesByMeetingID(_ context.Context, meetingID int64) ([]entity.MeetingResponse, error) {
	if f.failResponses {
		return nil, errors.New("responses unavailable")
	}
	var out []entity.MeetingResponse
	for _, r := range f.responses {
		if r.MeetingID == meetingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) AddTags(_ context.Context, meetingID int64, tags []string) error {
	f.tags[meetingID] = append(f.tags[meetingID], tags...)
	return nil
}

func (f *fakeMeetingRepo) ListTags(_ context.Context, meetingID int64) ([]string, error) {
	return f.tags[meetingID], nil
}

func (f *fakeMeetingRepo) ListByAuthor(_ context.Context, authorID string) ([]entity.MeetingSuggestion, error) {
	var out []entity.MeetingSuggestion
	for _, m := range f.meetings {
		if m.AuthorID == authorID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListByParticipant(_ context.Context, userID string) ([]entity.MeetingSuggestion, error) {
	var out []entity.MeetingSuggestion
	for id := range f.participants {
		if _, ok := f.participants[id][userID]; ok {
			out = append(out, *f.meetings[id])
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListByGroupIDs(_ context.Context, groupIDs []int64) ([]entity.MeetingSuggestion, error) {
	var out []entity.MeetingSuggestion
	for _, m := range f.meetings {
		if m.GroupID == nil {
			continue
		}
		for _, gid := range groupIDs {
			if *m.GroupID == gid {
				out = append(out, *m)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListOpen(_ context.Context, maxParticipants, limit, offset int) ([]entity.MeetingSuggestion, error) {
	var out []entity.MeetingSuggestion
	for _, m := range f.meetings {
		if !m.IsPrivate && len(f.participants[m.ID]) < maxParticipants {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeGroupService struct {
	memberships map[int64]map[string]bool
	groupIDs    map[string][]int64
	failGroups  bool
}

func newFakeGroupService() *fakeGroupService {
	return &fakeGroupService{
		memberships: make(map[int64]map[string]bool),
		groupIDs:    make(map[string][]int64),
	}
}

func (f *fakeGroupService) CreateGroup(context.Context, string, *groupDto.CreateGroupRequest) (*groupDto.GroupResponse, *coreErrors.AppError) {
	return nil, nil
}
func (f *fakeGroupService) GetGroupByID(context.Context, int64) (*groupDto.GroupResponse, *coreErrors.AppError) {
	return nil, nil
}
func (f *fakeGroupService) UpdateGroup(context.Context, int64, string, *groupDto.UpdateGroupRequest) (*groupDto.GroupResponse, *coreErrors.AppError) {
	return nil, nil
}
func (f *fakeGroupService) DeleteGroup(context.Context, int64, string) *coreErrors.AppError {
	return nil
}
func (f *fakeGroupService) AddMembers(context.Context, int64, string, []string) *coreErrors.AppError {
	return nil
}
func (f *fakeGroupService) RemoveMember(context.Context, int64, string, string) *coreErrors.AppError {
	return nil
}
func (f *fakeGroupService) ListGroupsForUser(context.Context, string) ([]groupDto.GroupResponse, *coreErrors.AppError) {
	return nil, nil
}

func (f *fakeGroupService) IsMember(_ context.Context, groupID int64, userID string) (bool, error) {
	return f.memberships[groupID][userID], nil
}

func (f *fakeGroupService) ListGroupIDsForUser(_ context.Context, userID string) ([]int64, error) {
	if f.failGroups {
		return nil, errors.New("groups unavailable")
	}
	return f.groupIDs[userID], nil
}

type fakeNotifService struct {
	created []notifDto.CreateNotificationRequest
}

func (f *fakeNotifService) Create(_ context.Context, req *notifDto.CreateNotificationRequest) error {
	f.created = append(f.created, *req)
	return nil
}
func (f *fakeNotifService) GetMyNotifications(context.Context, string, params.QueryParams) (*notifEntity.PaginatedNotificationEntity, error) {
	return nil, nil
}
func (f *fakeNotifService) MarkAsRead(context.Context, string, []int64) error  { return nil }
func (f *fakeNotifService) MarkAllAsRead(context.Context, string) error        { return nil }
func (f *fakeNotifService) CountUnread(context.Context, string) (int, error)   { return 0, nil }

type fakeMediaStore struct {
	failUpload bool
	uploaded   []string
	deleted    []string
}

func (f *fakeMediaStore) Upload(_ context.Context, data []byte, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("storage unreachable")
	}
	url := "https://media.test/object-" + contentType
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeQueue struct {
	detects  []string
	releases []string
}

func (f *fakeQueue) EnqueueConflictDetect(_ context.Context, userID string) error {
	f.detects = append(f.detects, userID)
	return nil
}
func (f *fakeQueue) EnqueueMediaRelease(_ context.Context, url string) error {
	f.releases = append(f.releases, url)
	return nil
}
func (f *fakeQueue) Close() error { return nil }

type fakeCache struct {
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	return f.store[key], nil
}
func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.store[key] = value
	return nil
}
func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.store, key)
	return nil
}
func (f *fakeCache) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if _, ok := f.store[key]; ok {
		return false, nil
	}
	f.store[key] = value
	return true, nil
}

type fixture struct {
	svc   MeetingServiceInterface
	repo  *fakeMeetingRepo
	group *fakeGroupService
	notif *fakeNotifService
	store *fakeMediaStore
	queue *fakeQueue
}

func newFixture() *fixture {
	repo := newFakeMeetingRepo()
	group := newFakeGroupService()
	notif := &fakeNotifService{}
	store := &fakeMediaStore{}
	q := &fakeQueue{}
	svc := NewMeetingService(repo, group, notif, store, q, newFakeCache())
	return &fixture{svc: svc, repo: repo, group: group, notif: notif, store: store, queue: q}
}

func validCreateRequest() *dto.CreateMeetingRequest {
	return &dto.CreateMeetingRequest{
		Title:      "Team lunch",
		ProposedAt: "2026-04-01T12:00:00Z",
	}
}

// ===================== tests =====================

func TestCreateSuggestionDefaults(t *testing.T) {
	f := newFixture()

	result, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)

	assert.Equal(t, "alice", result.AuthorID)
	assert.Equal(t, string(entity.MeetingStatusAccepted), result.Status)
	assert.Equal(t, entity.DefaultDurationMinutes, result.DurationMinutes)
	assert.NotEmpty(t, result.Slug)

	// author joins their own meeting automatically
	require.Len(t, result.Participants, 1)
	assert.Equal(t, "alice", result.Participants[0].UserID)
}

func TestCreateSuggestionTruncatesTitle(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.Title = "An extremely long meeting title"

	result, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	assert.Equal(t, "An extremely lon", result.Title)
	assert.Len(t, []rune(result.Title), entity.MaxTitleLength)
}

func TestCreateSuggestionTitleTruncationIsRuneSafe(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.Title = "Встреча команды разработки"

	result, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)
	assert.Len(t, []rune(result.Title), entity.MaxTitleLength)
}

func TestCreateSuggestionQuota(t *testing.T) {
	f := newFixture()

	for i := 0; i < entity.AuthorQuota; i++ {
		_, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
		require.Nil(t, appErr)
	}

	_, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrQuotaExceeded, appErr.Code)

	// a different author is unaffected
	_, appErr = f.svc.CreateSuggestion(context.Background(), "bob", validCreateRequest())
	assert.Nil(t, appErr)
}

func TestCreateSuggestionQuotaCountsCancelledMeetings(t *testing.T) {
	f := newFixture()

	for i := 0; i < entity.AuthorQuota; i++ {
		result, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
		require.Nil(t, appErr)
		require.Nil(t, f.svc.CancelSuggestion(context.Background(), result.ID, "alice"))
	}

	_, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrQuotaExceeded, appErr.Code)
}

func TestCreateSuggestionDeduplicatesInvitees(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.ParticipantIDs = []string{"bob", "bob", "alice", "carol", ""}

	result, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	// alice + bob + carol, no duplicates, no empty ids
	assert.Len(t, result.Participants, 3)
	// only the invitees get notified, not the author
	assert.Len(t, f.notif.created, 2)
}

func TestCreateSuggestionImageUploadFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.store.failUpload = true

	req := validCreateRequest()
	req.ParticipantIDs = []string{"bob"}
	req.ImageData = base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	req.ImageContentType = "image/png"

	_, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrDependencyFailure, appErr.Code)

	// the half-created meeting and its participants are gone
	assert.Empty(t, f.repo.meetings)
	assert.Len(t, f.repo.deleted, 1)

	count, _ := f.repo.CountByAuthor(context.Background(), "alice")
	assert.Zero(t, count)
}

func TestCreateSuggestionRejectsWithoutTitle(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.Title = ""

	_, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrInvalidInput, appErr.Code)
}

func TestCreateSuggestionGroupMembershipRequired(t *testing.T) {
	f := newFixture()
	groupID := int64(9)

	req := validCreateRequest()
	req.GroupID = &groupID

	_, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrForbidden, appErr.Code)

	f.group.memberships[groupID] = map[string]bool{"alice": true}
	_, appErr = f.svc.CreateSuggestion(context.Background(), "alice", req)
	assert.Nil(t, appErr)
}

func TestUpdateSuggestionAuthorOnly(t *testing.T) {
	f := newFixture()

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)

	_, appErr = f.svc.UpdateSuggestion(context.Background(), created.ID, "bob", &dto.UpdateMeetingRequest{Title: "Hijacked"})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrForbidden, appErr.Code)

	updated, appErr := f.svc.UpdateSuggestion(context.Background(), created.ID, "alice", &dto.UpdateMeetingRequest{Location: "Cafe"})
	require.Nil(t, appErr)
	assert.Equal(t, "Cafe", updated.Location)
	assert.Equal(t, created.Title, updated.Title)
}

func TestDeleteSuggestionCascadesAndReleasesImage(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.ParticipantIDs = []string{"bob"}
	req.Tags = []string{"lunch"}
	req.ImageData = base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	req.ImageContentType = "image/png"

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)
	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "bob", &dto.RespondRequest{ResponseType: "accepted"}))

	appErr = f.svc.DeleteSuggestion(context.Background(), created.ID, "alice")
	require.Nil(t, appErr)

	assert.Empty(t, f.repo.meetings)
	assert.Empty(t, f.repo.responses)
	assert.Empty(t, f.repo.tags)
	require.Len(t, f.queue.releases, 1)
	assert.Equal(t, created.ImageURL, f.queue.releases[0])
}

func TestDeleteSuggestionNotFound(t *testing.T) {
	f := newFixture()

	appErr := f.svc.DeleteSuggestion(context.Background(), 42, "alice")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newFixture()

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)

	require.Nil(t, f.svc.Join(context.Background(), created.ID, "bob"))
	require.Nil(t, f.svc.Join(context.Background(), created.ID, "bob"))

	participants, err := f.repo.ListParticipants(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestJoinPrivateMeetingForbidden(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.IsPrivate = true

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	joinErr := f.svc.Join(context.Background(), created.ID, "bob")
	require.NotNil(t, joinErr)
	assert.Equal(t, coreErrors.ErrForbidden, joinErr.Code)
}

func TestLeaveRemovesParticipant(t *testing.T) {
	f := newFixture()

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)
	require.Nil(t, f.svc.Join(context.Background(), created.ID, "bob"))

	require.Nil(t, f.svc.Leave(context.Background(), created.ID, "bob"))

	isParticipant, _ := f.repo.IsParticipant(context.Background(), created.ID, "bob")
	assert.False(t, isParticipant)
}

func TestRespondValidatesType(t *testing.T) {
	f := newFixture()

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)

	respErr := f.svc.Respond(context.Background(), created.ID, "bob", &dto.RespondRequest{ResponseType: "maybe"})
	require.NotNil(t, respErr)
	assert.Equal(t, coreErrors.ErrInvalidInput, respErr.Code)
}

func TestRespondNotifiesAuthor(t *testing.T) {
	f := newFixture()

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)

	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "bob", &dto.RespondRequest{ResponseType: "rejected"}))

	require.Len(t, f.notif.created, 1)
	assert.Equal(t, "alice", f.notif.created[0].UserID)
	assert.Equal(t, notifEntity.TypeMeetingResponse, f.notif.created[0].Type)

	// the author responding to their own meeting stays silent
	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "alice", &dto.RespondRequest{ResponseType: "accepted"}))
	assert.Len(t, f.notif.created, 1)
}

func TestAggregateLatestResponsePerUserWins(t *testing.T) {
	f := newFixture()

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)

	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "bob", &dto.RespondRequest{ResponseType: "rejected"}))
	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "bob", &dto.RespondRequest{ResponseType: "accepted"}))
	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "carol", &dto.RespondRequest{
		ResponseType: "counter",
		CounterAt:    "2026-04-02T15:00:00Z",
	}))

	agg, aggErr := f.svc.Aggregate(context.Background(), created.ID)
	require.Nil(t, aggErr)

	assert.Equal(t, 1, agg.CountAccepted)
	assert.Equal(t, 0, agg.CountRejected)
	assert.Equal(t, 1, agg.CountCounter)
}

func TestAggregateAllAcceptedAgainstCurrentRoster(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.RequiresAllAccept = true
	req.ParticipantIDs = []string{"bob"}

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "alice", &dto.RespondRequest{ResponseType: "accepted"}))
	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "bob", &dto.RespondRequest{ResponseType: "accepted"}))

	agg, aggErr := f.svc.Aggregate(context.Background(), created.ID)
	require.Nil(t, aggErr)
	assert.True(t, agg.AllAccepted)

	// a late joiner without a response flips the flag back
	require.Nil(t, f.svc.Join(context.Background(), created.ID, "dave"))

	agg, aggErr = f.svc.Aggregate(context.Background(), created.ID)
	require.Nil(t, aggErr)
	assert.False(t, agg.AllAccepted)
}

func TestConfirmIfAllAccepted(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.RequiresAllAccept = true

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)
	f.repo.meetings[created.ID].Status = entity.MeetingStatusPending

	// not yet: the author has not accepted
	agg, confErr := f.svc.ConfirmIfAllAccepted(context.Background(), created.ID, "alice")
	require.Nil(t, confErr)
	assert.False(t, agg.AllAccepted)

	stored, _ := f.repo.GetSuggestionByID(context.Background(), created.ID)
	assert.Equal(t, entity.MeetingStatusPending, stored.Status)

	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "alice", &dto.RespondRequest{ResponseType: "accepted"}))

	agg, confErr = f.svc.ConfirmIfAllAccepted(context.Background(), created.ID, "alice")
	require.Nil(t, confErr)
	assert.True(t, agg.AllAccepted)

	stored, _ = f.repo.GetSuggestionByID(context.Background(), created.ID)
	assert.Equal(t, entity.MeetingStatusAccepted, stored.Status)
}

func TestConfirmDoesNotResurrectCancelledMeeting(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.RequiresAllAccept = true

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)
	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "alice", &dto.RespondRequest{ResponseType: "accepted"}))
	require.Nil(t, f.svc.CancelSuggestion(context.Background(), created.ID, "alice"))

	agg, confErr := f.svc.ConfirmIfAllAccepted(context.Background(), created.ID, "alice")
	require.Nil(t, confErr)
	assert.True(t, agg.AllAccepted)

	stored, _ := f.repo.GetSuggestionByID(context.Background(), created.ID)
	assert.Equal(t, entity.MeetingStatusCancelled, stored.Status)
}

func TestListForUserMergesAndDeduplicates(t *testing.T) {
	f := newFixture()
	groupID := int64(5)
	f.group.memberships[groupID] = map[string]bool{"alice": true, "bob": true}
	f.group.groupIDs["alice"] = []int64{groupID}

	// authored by alice AND scoped to her group: must appear once
	req := validCreateRequest()
	req.GroupID = &groupID
	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	// authored by bob in the same group: visible to alice through the group
	bobReq := validCreateRequest()
	bobReq.GroupID = &groupID
	_, appErr = f.svc.CreateSuggestion(context.Background(), "bob", bobReq)
	require.Nil(t, appErr)

	// unrelated meeting
	_, appErr = f.svc.CreateSuggestion(context.Background(), "carol", validCreateRequest())
	require.Nil(t, appErr)

	meetings, listErr := f.svc.ListForUser(context.Background(), "alice")
	require.Nil(t, listErr)

	require.Len(t, meetings, 2)
	seen := map[int64]int{}
	for _, m := range meetings {
		seen[m.ID]++
	}
	assert.Equal(t, 1, seen[created.ID])

	// newest first
	assert.True(t, !meetings[0].CreatedAt.Before(meetings[1].CreatedAt))
}

func TestListForUserIncludesInvitedParticipant(t *testing.T) {
	f := newFixture()

	// group-less meeting created by alice with bob and carol invited
	req := validCreateRequest()
	req.ParticipantIDs = []string{"bob", "carol"}
	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	meetings, listErr := f.svc.ListForUser(context.Background(), "bob")
	require.Nil(t, listErr)
	require.Len(t, meetings, 1)
	assert.Equal(t, created.ID, meetings[0].ID)

	// strangers still see nothing
	meetings, listErr = f.svc.ListForUser(context.Background(), "dave")
	require.Nil(t, listErr)
	assert.Empty(t, meetings)
}

func TestListForUserFailsOpenOnResponses(t *testing.T) {
	f := newFixture()

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)
	require.Nil(t, f.svc.Respond(context.Background(), created.ID, "bob", &dto.RespondRequest{ResponseType: "accepted"}))

	f.repo.failResponses = true

	meetings, listErr := f.svc.ListForUser(context.Background(), "alice")
	require.Nil(t, listErr)

	require.Len(t, meetings, 1)
	assert.Empty(t, meetings[0].Responses)
}

func TestListOpenSkipsPrivateMeetings(t *testing.T) {
	f := newFixture()

	_, appErr := f.svc.CreateSuggestion(context.Background(), "alice", validCreateRequest())
	require.Nil(t, appErr)

	privReq := validCreateRequest()
	privReq.IsPrivate = true
	_, appErr = f.svc.CreateSuggestion(context.Background(), "bob", privReq)
	require.Nil(t, appErr)

	meetings, listErr := f.svc.ListOpen(context.Background(), params.QueryParams{PageNumber: 1, PageSize: 20})
	require.Nil(t, listErr)
	assert.Len(t, meetings, 1)
}

func TestGetBySlugHidesPrivateMeetings(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.IsPrivate = true

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	_, getErr := f.svc.GetBySlug(context.Background(), created.Slug)
	require.NotNil(t, getErr)
	assert.Equal(t, coreErrors.ErrNotFound, getErr.Code)
}

func TestGetSuggestionPrivateVisibility(t *testing.T) {
	f := newFixture()

	req := validCreateRequest()
	req.IsPrivate = true
	req.ParticipantIDs = []string{"bob"}

	created, appErr := f.svc.CreateSuggestion(context.Background(), "alice", req)
	require.Nil(t, appErr)

	_, getErr := f.svc.GetSuggestion(context.Background(), created.ID, "bob")
	assert.Nil(t, getErr)

	_, getErr = f.svc.GetSuggestion(context.Background(), created.ID, "mallory")
	require.NotNil(t, getErr)
	assert.Equal(t, coreErrors.ErrNotFound, getErr.Code)
}
