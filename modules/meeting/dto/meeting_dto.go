package dto

import (
	"time"

	"meetsync/modules/meeting/entity"
)

// ===================== Request DTOs =====================

// CreateMeetingRequest for proposing a new meeting
type CreateMeetingRequest struct {
	Title             string   `json:"title" validate:"required"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	ProposedAt        string   `json:"proposed_at" validate:"required"` // RFC3339
	DurationMinutes   int      `json:"duration_minutes"`
	RequiresAllAccept bool     `json:"requires_all_accept"`
	IsPrivate         bool     `json:"is_private"`
	GroupID           *int64   `json:"group_id"`
	ParticipantIDs    []string `json:"participant_ids"`
	Tags              []string `json:"tags"`
	// ImageData is a base64 payload stored through the media store.
	ImageData        string `json:"image_data"`
	ImageContentType string `json:"image_content_type"`
}

// UpdateMeetingRequest for editing a meeting. Only this field set is mutable.
type UpdateMeetingRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	ProposedAt      string `json:"proposed_at"` // RFC3339
	DurationMinutes int    `json:"duration_minutes"`
	IsPrivate       *bool  `json:"is_private"`
}

// RespondRequest for submitting an accept/reject/counter response
type RespondRequest struct {
	ResponseType    string `json:"response_type" validate:"required"`
	Note            string `json:"note"`
	CounterAt       string `json:"counter_at"` // RFC3339, counter responses only
	CounterLocation string `json:"counter_location"`
}

// ===================== Response DTOs =====================

// MeetingResponse for meeting details
type MeetingResponse struct {
	ID                int64                 `json:"id"`
	AuthorID          string                `json:"author_id"`
	GroupID           *int64                `json:"group_id,omitempty"`
	Title             string                `json:"title"`
	Description       string                `json:"description,omitempty"`
	Location          string                `json:"location,omitempty"`
	ProposedAt        time.Time             `json:"proposed_at"`
	DurationMinutes   int                   `json:"duration_minutes"`
	RequiresAllAccept bool                  `json:"requires_all_accept"`
	Status            string                `json:"status"`
	IsPrivate         bool                  `json:"is_private"`
	Slug              string                `json:"slug"`
	ImageURL          string                `json:"image_url,omitempty"`
	Participants      []ParticipantResponse `json:"participants,omitempty"`
	Responses         []UserResponseDTO     `json:"responses,omitempty"`
	Tags              []string              `json:"tags,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ParticipantResponse for roster entries
type ParticipantResponse struct {
	MeetingID int64     `json:"meeting_id"`
	UserID    string    `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// UserResponseDTO for a single response row
type UserResponseDTO struct {
	UserID          string     `json:"user_id"`
	ResponseType    string     `json:"response_type"`
	Note            string     `json:"note,omitempty"`
	CounterAt       *time.Time `json:"counter_at,omitempty"`
	CounterLocation string     `json:"counter_location,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// AggregateResponse for the derived response tally
type AggregateResponse struct {
	MeetingID     int64 `json:"meeting_id"`
	CountAccepted int   `json:"count_accepted"`
	CountRejected int   `json:"count_rejected"`
	CountCounter  int   `json:"count_counter"`
	AllAccepted   bool  `json:"all_accepted"`
}

// ===================== Mapper Functions =====================

// ToMeetingResponse maps entity to DTO
func ToMeetingResponse(m *entity.MeetingSuggestion, participants []entity.MeetingParticipant, responses []entity.MeetingResponse, tags []string) *MeetingResponse {
	resp := &MeetingResponse{
		ID:                m.ID,
		AuthorID:          m.AuthorID,
		GroupID:           m.GroupID,
		Title:             m.Title,
		Description:       m.Description,
		Location:          m.Location,
		ProposedAt:        m.ProposedAt,
		DurationMinutes:   m.DurationMinutes,
		RequiresAllAccept: m.RequiresAllAccept,
		Status:            string(m.Status),
		IsPrivate:         m.IsPrivate,
		Slug:              m.Slug,
		Tags:              tags,
		CreatedAt:         m.CreatedAt,
	}

	if m.ImageURL != nil {
		resp.ImageURL = *m.ImageURL
	}

	for _, p := range participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			MeetingID: p.MeetingID,
			UserID:    p.UserID,
			JoinedAt:  p.JoinedAt,
		})
	}

	for _, r := range responses {
		dto := UserResponseDTO{
			UserID:       r.UserID,
			ResponseType: string(r.ResponseType),
			Note:         r.Note,
			CounterAt:    r.CounterAt,
			CreatedAt:    r.CreatedAt,
		}
		if r.CounterLocation != nil {
			dto.CounterLocation = *r.CounterLocation
		}
		resp.Responses = append(resp.Responses, dto)
	}

	return resp
}

// ToAggregateResponse maps the derived tally to DTO
func ToAggregateResponse(a *entity.AggregateResult) *AggregateResponse {
	return &AggregateResponse{
		MeetingID:     a.MeetingID,
		CountAccepted: a.CountAccepted,
		CountRejected: a.CountRejected,
		CountCounter:  a.CountCounter,
		AllAccepted:   a.AllAccepted,
	}
}
