package service

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/queue"
	calendarrepo "meetsync/modules/calendar/repository"
	"meetsync/modules/conflict/dto"
	"meetsync/modules/conflict/repository"
)

// ConflictServiceInterface defines the service contract
type ConflictServiceInterface interface {
	Detect(ctx context.Context, userID string) (*dto.DetectResponse, *errors.AppError)
	Resolve(ctx context.Context, conflictID int64, userID string) *errors.AppError
	ListUnresolved(ctx context.Context, userID string) ([]dto.ConflictResponse, *errors.AppError)
	HandleDetectTask(ctx context.Context, task *asynq.Task) error
}

type ConflictService struct {
	repo         repository.ConflictRepositoryInterface
	calendarRepo calendarrepo.CalendarRepositoryInterface
	detector     *Detector
}

func NewConflictService(repo repository.ConflictRepositoryInterface, calendarRepo calendarrepo.CalendarRepositoryInterface) ConflictServiceInterface {
	return &ConflictService{
		repo:         repo,
		calendarRepo: calendarRepo,
		detector:     NewDetector(),
	}
}

// Detect scans the user's events and upserts a conflict row per overlapping
// pair. Rows resolved earlier stay resolved.
func (s *ConflictService) Detect(ctx context.Context, userID string) (*dto.DetectResponse, *errors.AppError) {
	events, err := s.calendarRepo.ListEventsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrDependencyFailure, "Failed to load events", err)
	}

	pairs := s.detector.DetectOverlaps(events)

	for _, p := range pairs {
		if err := s.repo.UpsertConflict(ctx, p.Event1ID, p.Event2ID, p.ConflictType); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to record conflict", err)
		}
	}

	logger.Info("ConflictService:Detect:Done", "user_id", userID, "events", len(events), "pairs", len(pairs))

	return &dto.DetectResponse{PairsFound: len(pairs)}, nil
}

// Resolve marks a conflict as handled. One-directional: there is no unresolve.
func (s *ConflictService) Resolve(ctx context.Context, conflictID int64, userID string) *errors.AppError {
	conflict, err := s.repo.GetConflictByID(ctx, conflictID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get conflict", err)
	}
	if conflict == nil {
		return errors.NewAppError(errors.ErrNotFound, "Conflict not found", nil)
	}

	owner, err := s.repo.GetConflictOwner(ctx, conflictID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to resolve conflict owner", err)
	}
	if owner != userID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if err := s.repo.Resolve(ctx, conflictID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to resolve conflict", err)
	}
	return nil
}

func (s *ConflictService) ListUnresolved(ctx context.Context, userID string) ([]dto.ConflictResponse, *errors.AppError) {
	conflicts, err := s.repo.ListUnresolvedByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list conflicts", err)
	}

	result := make([]dto.ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		result = append(result, *dto.ToConflictResponse(&c))
	}
	return result, nil
}

// HandleDetectTask is the background worker entry for conflict:detect tasks.
func (s *ConflictService) HandleDetectTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.ConflictDetectPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("ConflictService:HandleDetectTask:Payload", err)
		return err
	}

	if _, appErr := s.Detect(ctx, payload.UserID); appErr != nil {
		logger.Error("ConflictService:HandleDetectTask:Detect", "error", appErr, "user_id", payload.UserID)
		return appErr
	}
	return nil
}
