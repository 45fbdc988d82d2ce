package service

import (
	"context"
	"time"

	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/queue"
	"meetsync/modules/calendar/dto"
	"meetsync/modules/calendar/entity"
	"meetsync/modules/calendar/repository"
)

// CalendarServiceInterface defines the service contract
type CalendarServiceInterface interface {
	CreateEvent(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID int64, userID string, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID int64, userID string) *errors.AppError
	ListMyEvents(ctx context.Context, userID string) ([]dto.EventResponse, *errors.AppError)
}

type CalendarService struct {
	repo repository.CalendarRepositoryInterface
	q    queue.Queue
}

func NewCalendarService(repo repository.CalendarRepositoryInterface, q queue.Queue) CalendarServiceInterface {
	return &CalendarService{repo: repo, q: q}
}

// CreateEvent stores a manually entered event on the user's local calendar
// and schedules a conflict rescan.
func (s *CalendarService) CreateEvent(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start time format", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid end time format", err)
	}
	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time", nil)
	}
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}

	calendarID, err := s.repo.EnsureLocalCalendar(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to resolve calendar", err)
	}

	event := &entity.Event{
		CalendarID: calendarID,
		Title:      req.Title,
		StartTime:  start,
		EndTime:    end,
		IsAllDay:   req.IsAllDay,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	s.scheduleConflictScan(ctx, userID)

	return dto.ToEventResponse(event), nil
}

func (s *CalendarService) UpdateEvent(ctx context.Context, eventID int64, userID string, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getOwnedEvent(ctx, eventID, userID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.StartTime != "" {
		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start time format", err)
		}
		event.StartTime = start
	}
	if req.EndTime != "" {
		end, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid end time format", err)
		}
		event.EndTime = end
	}
	if req.IsAllDay != nil {
		event.IsAllDay = *req.IsAllDay
	}
	if !event.EndTime.After(event.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time", nil)
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	s.scheduleConflictScan(ctx, userID)

	return dto.ToEventResponse(event), nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, eventID int64, userID string) *errors.AppError {
	if _, appErr := s.getOwnedEvent(ctx, eventID, userID); appErr != nil {
		return appErr
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}

	s.scheduleConflictScan(ctx, userID)
	return nil
}

func (s *CalendarService) ListMyEvents(ctx context.Context, userID string) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListEventsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	result := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		result = append(result, *dto.ToEventResponse(&e))
	}
	return result, nil
}

func (s *CalendarService) getOwnedEvent(ctx context.Context, eventID int64, userID string) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	owner, err := s.repo.GetEventOwner(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to resolve event owner", err)
	}
	if owner != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	return event, nil
}

// scheduleConflictScan is best-effort; a failed enqueue only delays detection
// until the next event write.
func (s *CalendarService) scheduleConflictScan(ctx context.Context, userID string) {
	if s.q == nil {
		return
	}
	if err := s.q.EnqueueConflictDetect(ctx, userID); err != nil {
		logger.Warn("CalendarService:ScheduleConflictScan", "error", err, "user_id", userID)
	}
}
