package service

import (
	"context"
	"sort"

	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/modules/meeting/dto"
	"meetsync/modules/meeting/entity"
)

// ListForUser returns the meetings visible to a user: everything they
// authored, everything they participate in and everything scoped to a
// group they belong to. The sets are merged, deduplicated by id and sorted
// newest first. Response history is attached best effort; if the fetch
// fails the meeting is returned with empty responses rather than dropped.
func (s *MeetingService) ListForUser(ctx context.Context, userID string) ([]dto.MeetingResponse, *errors.AppError) {
	authored, err := s.repo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list meetings", err)
	}

	invited, err := s.repo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list joined meetings", err)
	}

	groupIDs, err := s.groupSvc.ListGroupIDsForUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to resolve group memberships", err)
	}

	grouped, err := s.repo.ListByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list group meetings", err)
	}

	all := make([]entity.MeetingSuggestion, 0, len(authored)+len(invited)+len(grouped))
	all = append(all, authored...)
	all = append(all, invited...)
	all = append(all, grouped...)

	seen := make(map[int64]struct{}, len(all))
	merged := make([]entity.MeetingSuggestion, 0, len(all))
	for _, m := range all {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	results := make([]dto.MeetingResponse, 0, len(merged))
	for i := range merged {
		m := &merged[i]

		responses, err := s.repo.ListResponsesByMeetingID(ctx, m.ID)
		if err != nil {
			logger.Warn("MeetingService:ListForUser:responses", "meeting_id", m.ID, "error", err)
			responses = nil
		}

		results = append(results, *dto.ToMeetingResponse(m, nil, responses, nil))
	}

	return results, nil
}

// ListOpen returns public meetings still open for discovery. The
// participant ceiling is evaluated at read time, so a meeting drops out of
// the listing as soon as its roster reaches the cap.
func (s *MeetingService) ListOpen(ctx context.Context, p params.QueryParams) ([]dto.MeetingResponse, *errors.AppError) {
	offset := (p.PageNumber - 1) * p.PageSize

	meetings, err := s.repo.ListOpen(ctx, entity.OpenDiscoveryCap, p.PageSize, offset)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list open meetings", err)
	}

	results := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		results = append(results, *dto.ToMeetingResponse(&meetings[i], nil, nil, nil))
	}
	return results, nil
}

// Aggregate derives the current response tally. Only each user's latest
// response counts; the history itself is never rewritten. AllAccepted is
// judged against the roster as it stands now, so someone joining after the
// last round of responses flips it back to false.
func (s *MeetingService) Aggregate(ctx context.Context, meetingID int64) (*dto.AggregateResponse, *errors.AppError) {
	meeting, appErr := s.getMeeting(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}

	responses, err := s.repo.ListResponsesByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load responses", err)
	}

	participants, err := s.repo.ListParticipants(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load participants", err)
	}

	result := aggregateResponses(meeting, responses, participants)
	return dto.ToAggregateResponse(result), nil
}

// ConfirmIfAllAccepted flips the meeting to accepted when every current
// participant's latest response is an accept. It never fires on its own;
// the author calls it explicitly. A cancelled meeting keeps its status,
// confirmation does not resurrect it.
func (s *MeetingService) ConfirmIfAllAccepted(ctx context.Context, meetingID int64, callerID string) (*dto.AggregateResponse, *errors.AppError) {
	meeting, appErr := s.getOwnedMeeting(ctx, meetingID, callerID)
	if appErr != nil {
		return nil, appErr
	}

	responses, err := s.repo.ListResponsesByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load responses", err)
	}

	participants, err := s.repo.ListParticipants(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load participants", err)
	}

	result := aggregateResponses(meeting, responses, participants)

	if meeting.RequiresAllAccept && result.AllAccepted && meeting.Status != entity.MeetingStatusCancelled {
		if err := s.repo.UpdateStatus(ctx, meetingID, entity.MeetingStatusAccepted); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to confirm meeting", err)
		}
	}

	return dto.ToAggregateResponse(result), nil
}

// aggregateResponses reduces the append-only response history to one
// response per user. Responses arrive ordered by created_at then id, so
// the last row seen for a user is their latest.
func aggregateResponses(meeting *entity.MeetingSuggestion, responses []entity.MeetingResponse, participants []entity.MeetingParticipant) *entity.AggregateResult {
	latest := make(map[string]entity.ResponseType)
	for _, r := range responses {
		latest[r.UserID] = r.ResponseType
	}

	result := &entity.AggregateResult{MeetingID: meeting.ID}
	for _, t := range latest {
		switch t {
		case entity.ResponseTypeAccepted:
			result.CountAccepted++
		case entity.ResponseTypeRejected:
			result.CountRejected++
		case entity.ResponseTypeCounter:
			result.CountCounter++
		}
	}

	allAccepted := len(participants) > 0
	for _, p := range participants {
		if latest[p.UserID] != entity.ResponseTypeAccepted {
			allAccepted = false
			break
		}
	}
	result.AllAccepted = allAccepted

	return result
}
