package service

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"meetsync/core/cache"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/core/queue"
	"meetsync/core/storage"
	groupService "meetsync/modules/group/service"
	"meetsync/modules/meeting/dto"
	"meetsync/modules/meeting/entity"
	"meetsync/modules/meeting/repository"
	notifDto "meetsync/modules/notification/dto"
	notifEntity "meetsync/modules/notification/entity"
	notifService "meetsync/modules/notification/service"
)

const (
	quotaLockPrefix = "meeting:quota:"
	quotaLockTTL    = 5 * time.Second
	slugAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
)

type MeetingService struct {
	repo     repository.MeetingRepositoryInterface
	groupSvc groupService.GroupServiceInterface
	notifSvc notifService.NotificationServiceInterface
	store    storage.MediaStore
	queue    queue.Queue
	cache    cache.Cache
}

type MeetingServiceInterface interface {
	CreateSuggestion(ctx context.Context, authorID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	GetSuggestion(ctx context.Context, id int64, callerID string) (*dto.MeetingResponse, *errors.AppError)
	GetBySlug(ctx context.Context, slug string) (*dto.MeetingResponse, *errors.AppError)
	UpdateSuggestion(ctx context.Context, id int64, callerID string, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	DeleteSuggestion(ctx context.Context, id int64, callerID string) *errors.AppError
	CancelSuggestion(ctx context.Context, id int64, callerID string) *errors.AppError

	Join(ctx context.Context, meetingID int64, userID string) *errors.AppError
	Leave(ctx context.Context, meetingID int64, userID string) *errors.AppError
	Respond(ctx context.Context, meetingID int64, userID string, req *dto.RespondRequest) *errors.AppError

	ListForUser(ctx context.Context, userID string) ([]dto.MeetingResponse, *errors.AppError)
	ListOpen(ctx context.Context, p params.QueryParams) ([]dto.MeetingResponse, *errors.AppError)
	Aggregate(ctx context.Context, meetingID int64) (*dto.AggregateResponse, *errors.AppError)
	ConfirmIfAllAccepted(ctx context.Context, meetingID int64, callerID string) (*dto.AggregateResponse, *errors.AppError)
}

func NewMeetingService(
	repo repository.MeetingRepositoryInterface,
	groupSvc groupService.GroupServiceInterface,
	notifSvc notifService.NotificationServiceInterface,
	store storage.MediaStore,
	q queue.Queue,
	c cache.Cache,
) MeetingServiceInterface {
	return &MeetingService{
		repo:     repo,
		groupSvc: groupSvc,
		notifSvc: notifSvc,
		store:    store,
		queue:    q,
		cache:    c,
	}
}

// CreateSuggestion proposes a new meeting. The per-author quota is checked
// under a short redis lock so two concurrent creates cannot both pass the
// count. The quota counts every suggestion by the author regardless of
// status.
func (s *MeetingService) CreateSuggestion(ctx context.Context, authorID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}

	proposedAt, err := time.Parse(time.RFC3339, req.ProposedAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "proposed_at must be RFC3339", err)
	}

	if req.GroupID != nil {
		isMember, err := s.groupSvc.IsMember(ctx, *req.GroupID, authorID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check group membership", err)
		}
		if !isMember {
			return nil, errors.NewAppError(errors.ErrForbidden, "You are not a member of this group", nil)
		}
	}

	lockKey := quotaLockPrefix + authorID
	acquired, err := s.cache.SetNX(ctx, lockKey, "1", quotaLockTTL)
	if err != nil {
		// Cache down: let the create through, the quota check still runs.
		logger.Warn("MeetingService:CreateSuggestion:lock", "error", err)
	} else if !acquired {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Another meeting creation is in progress, please retry", nil)
	} else {
		defer s.cache.Delete(ctx, lockKey)
	}

	count, err := s.repo.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check suggestion quota", err)
	}
	if count >= entity.AuthorQuota {
		return nil, errors.NewAppError(errors.ErrQuotaExceeded, "Active suggestion limit reached", nil)
	}

	title := truncateTitle(req.Title)

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = entity.DefaultDurationMinutes
	}

	meeting := &entity.MeetingSuggestion{
		AuthorID:          authorID,
		GroupID:           req.GroupID,
		Title:             title,
		Description:       req.Description,
		Location:          req.Location,
		ProposedAt:        proposedAt,
		DurationMinutes:   duration,
		RequiresAllAccept: req.RequiresAllAccept,
		Status:            entity.MeetingStatusAccepted,
		IsPrivate:         req.IsPrivate,
		Slug:              makeSlug(title),
	}

	if err := s.repo.CreateSuggestion(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create meeting", err)
	}

	// The author always sits on the roster.
	if err := s.repo.UpsertParticipant(ctx, meeting.ID, authorID); err != nil {
		s.rollbackCreate(ctx, meeting.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to add author as participant", err)
	}

	invitees := distinctInvitees(req.ParticipantIDs, authorID)
	for _, userID := range invitees {
		if err := s.repo.UpsertParticipant(ctx, meeting.ID, userID); err != nil {
			s.rollbackCreate(ctx, meeting.ID)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to add participant", err)
		}
	}

	if err := s.repo.AddTags(ctx, meeting.ID, req.Tags); err != nil {
		s.rollbackCreate(ctx, meeting.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to add tags", err)
	}

	if req.ImageData != "" {
		imageURL, upErr := s.uploadImage(ctx, req.ImageData, req.ImageContentType)
		if upErr != nil {
			s.rollbackCreate(ctx, meeting.ID)
			return nil, errors.NewAppError(errors.ErrDependencyFailure, "Image upload failed", upErr)
		}
		if err := s.repo.SetImageURL(ctx, meeting.ID, imageURL); err != nil {
			s.queue.EnqueueMediaRelease(ctx, imageURL)
			s.rollbackCreate(ctx, meeting.ID)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to attach image", err)
		}
		meeting.ImageURL = &imageURL
	}

	s.notifyInvitees(ctx, meeting, invitees)

	return s.buildResponse(ctx, meeting)
}

func (s *MeetingService) GetSuggestion(ctx context.Context, id int64, callerID string) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.getMeeting(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if meeting.IsPrivate && meeting.AuthorID != callerID {
		isParticipant, err := s.repo.IsParticipant(ctx, id, callerID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check participation", err)
		}
		if !isParticipant {
			return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
		}
	}

	return s.buildResponse(ctx, meeting)
}

// GetBySlug resolves a meeting through its public discovery slug. Private
// meetings are not addressable this way.
func (s *MeetingService) GetBySlug(ctx context.Context, slugVal string) (*dto.MeetingResponse, *errors.AppError) {
	meeting, err := s.repo.GetSuggestionBySlug(ctx, slugVal)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil || meeting.IsPrivate {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}

	return s.buildResponse(ctx, meeting)
}

func (s *MeetingService) UpdateSuggestion(ctx context.Context, id int64, callerID string, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.getOwnedMeeting(ctx, id, callerID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != "" {
		meeting.Title = truncateTitle(req.Title)
	}
	if req.Description != "" {
		meeting.Description = req.Description
	}
	if req.Location != "" {
		meeting.Location = req.Location
	}
	if req.ProposedAt != "" {
		proposedAt, err := time.Parse(time.RFC3339, req.ProposedAt)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "proposed_at must be RFC3339", err)
		}
		meeting.ProposedAt = proposedAt
	}
	if req.DurationMinutes > 0 {
		meeting.DurationMinutes = req.DurationMinutes
	}
	if req.IsPrivate != nil {
		meeting.IsPrivate = *req.IsPrivate
	}

	if err := s.repo.UpdateSuggestion(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting", err)
	}

	return s.buildResponse(ctx, meeting)
}

// DeleteSuggestion removes the meeting and everything hanging off it. The
// stored image is released through the queue so a broken media backend
// cannot block the delete.
func (s *MeetingService) DeleteSuggestion(ctx context.Context, id int64, callerID string) *errors.AppError {
	meeting, appErr := s.getOwnedMeeting(ctx, id, callerID)
	if appErr != nil {
		return appErr
	}

	if err := s.repo.DeleteSuggestion(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete meeting", err)
	}

	if meeting.ImageURL != nil {
		if err := s.queue.EnqueueMediaRelease(ctx, *meeting.ImageURL); err != nil {
			logger.Warn("MeetingService:DeleteSuggestion:mediaRelease", "error", err)
		}
	}

	return nil
}

func (s *MeetingService) CancelSuggestion(ctx context.Context, id int64, callerID string) *errors.AppError {
	if _, appErr := s.getOwnedMeeting(ctx, id, callerID); appErr != nil {
		return appErr
	}

	if err := s.repo.UpdateStatus(ctx, id, entity.MeetingStatusCancelled); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to cancel meeting", err)
	}
	return nil
}

// Join adds the user to the roster. Re-joining is a no-op.
func (s *MeetingService) Join(ctx context.Context, meetingID int64, userID string) *errors.AppError {
	meeting, appErr := s.getMeeting(ctx, meetingID)
	if appErr != nil {
		return appErr
	}

	if meeting.IsPrivate && meeting.AuthorID != userID {
		allowed := false
		if meeting.GroupID != nil {
			isMember, err := s.groupSvc.IsMember(ctx, *meeting.GroupID, userID)
			if err != nil {
				return errors.NewAppError(errors.ErrInternalServer, "Failed to check group membership", err)
			}
			allowed = isMember
		}
		if !allowed {
			return errors.NewAppError(errors.ErrForbidden, "This meeting is private", nil)
		}
	}

	if err := s.repo.UpsertParticipant(ctx, meetingID, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to join meeting", err)
	}
	return nil
}

func (s *MeetingService) Leave(ctx context.Context, meetingID int64, userID string) *errors.AppError {
	if _, appErr := s.getMeeting(ctx, meetingID); appErr != nil {
		return appErr
	}

	if err := s.repo.RemoveParticipant(ctx, meetingID, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to leave meeting", err)
	}
	return nil
}

// Respond appends a response row. Responses are never updated in place;
// aggregation picks the latest per user.
func (s *MeetingService) Respond(ctx context.Context, meetingID int64, userID string, req *dto.RespondRequest) *errors.AppError {
	responseType := entity.ResponseType(req.ResponseType)
	if !responseType.Valid() {
		return errors.NewAppError(errors.ErrInvalidInput, "response_type must be accepted, rejected or counter", nil)
	}

	meeting, appErr := s.getMeeting(ctx, meetingID)
	if appErr != nil {
		return appErr
	}

	response := &entity.MeetingResponse{
		MeetingID:    meetingID,
		UserID:       userID,
		ResponseType: responseType,
		Note:         req.Note,
	}

	if req.CounterAt != "" {
		counterAt, err := time.Parse(time.RFC3339, req.CounterAt)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "counter_at must be RFC3339", err)
		}
		response.CounterAt = &counterAt
	}
	if req.CounterLocation != "" {
		response.CounterLocation = &req.CounterLocation
	}

	if err := s.repo.InsertResponse(ctx, response); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to record response", err)
	}

	s.notifyAuthor(ctx, meeting, userID, string(responseType))

	return nil
}

// ===================== helpers =====================

func (s *MeetingService) getMeeting(ctx context.Context, id int64) (*entity.MeetingSuggestion, *errors.AppError) {
	meeting, err := s.repo.GetSuggestionByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	return meeting, nil
}

func (s *MeetingService) getOwnedMeeting(ctx context.Context, id int64, callerID string) (*entity.MeetingSuggestion, *errors.AppError) {
	meeting, appErr := s.getMeeting(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	if meeting.AuthorID != callerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the author can do this", nil)
	}
	return meeting, nil
}

// rollbackCreate undoes a partially created meeting. Best effort, the
// cascade delete already covers participants and tags.
func (s *MeetingService) rollbackCreate(ctx context.Context, meetingID int64) {
	if err := s.repo.DeleteSuggestion(ctx, meetingID); err != nil {
		logger.Error("MeetingService:rollbackCreate", err)
	}
}

func (s *MeetingService) uploadImage(ctx context.Context, data, contentType string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	return s.store.Upload(ctx, raw, contentType)
}

func (s *MeetingService) buildResponse(ctx context.Context, meeting *entity.MeetingSuggestion) (*dto.MeetingResponse, *errors.AppError) {
	participants, err := s.repo.ListParticipants(ctx, meeting.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load participants", err)
	}

	// Responses degrade to empty instead of failing the whole read.
	responses, err := s.repo.ListResponsesByMeetingID(ctx, meeting.ID)
	if err != nil {
		logger.Warn("MeetingService:buildResponse:responses", "meeting_id", meeting.ID, "error", err)
		responses = nil
	}

	tags, err := s.repo.ListTags(ctx, meeting.ID)
	if err != nil {
		logger.Warn("MeetingService:buildResponse:tags", "meeting_id", meeting.ID, "error", err)
		tags = nil
	}

	return dto.ToMeetingResponse(meeting, participants, responses, tags), nil
}

func (s *MeetingService) notifyInvitees(ctx context.Context, meeting *entity.MeetingSuggestion, invitees []string) {
	for _, userID := range invitees {
		err := s.notifSvc.Create(ctx, &notifDto.CreateNotificationRequest{
			UserID:  userID,
			Title:   "Meeting invitation",
			Message: "You have been invited to " + meeting.Title,
			Type:    notifEntity.TypeMeetingInvite,
			Data:    map[string]interface{}{"meeting_id": meeting.ID},
		})
		if err != nil {
			logger.Warn("MeetingService:notifyInvitees", "user_id", userID, "error", err)
		}
	}
}

func (s *MeetingService) notifyAuthor(ctx context.Context, meeting *entity.MeetingSuggestion, responderID, responseType string) {
	if responderID == meeting.AuthorID {
		return
	}
	err := s.notifSvc.Create(ctx, &notifDto.CreateNotificationRequest{
		UserID:  meeting.AuthorID,
		Title:   "New response",
		Message: "A participant responded " + responseType + " to " + meeting.Title,
		Type:    notifEntity.TypeMeetingResponse,
		Data:    map[string]interface{}{"meeting_id": meeting.ID, "responder_id": responderID},
	})
	if err != nil {
		logger.Warn("MeetingService:notifyAuthor", "meeting_id", meeting.ID, "error", err)
	}
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= entity.MaxTitleLength {
		return title
	}
	return string(runes[:entity.MaxTitleLength])
}

func makeSlug(title string) string {
	suffix, err := gonanoid.Generate(slugAlphabet, 8)
	if err != nil {
		suffix = "00000000"
	}
	return slug.Make(title) + "-" + suffix
}

func distinctInvitees(participantIDs []string, authorID string) []string {
	seen := make(map[string]struct{}, len(participantIDs))
	var out []string
	for _, id := range participantIDs {
		if id == "" || id == authorID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
