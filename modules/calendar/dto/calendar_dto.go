package dto

import (
	"time"

	"meetsync/modules/calendar/entity"
)

// ===================== Request DTOs =====================

type CreateEventRequest struct {
	Title     string `json:"title" validate:"required"`
	StartTime string `json:"start_time" validate:"required"` // RFC3339
	EndTime   string `json:"end_time" validate:"required"`   // RFC3339
	IsAllDay  bool   `json:"is_all_day"`
}

type UpdateEventRequest struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"` // RFC3339
	EndTime   string `json:"end_time"`   // RFC3339
	IsAllDay  *bool  `json:"is_all_day"`
}

// ===================== Response DTOs =====================

type EventResponse struct {
	ID         int64     `json:"id"`
	CalendarID int64     `json:"calendar_id"`
	Title      string    `json:"title"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	IsAllDay   bool      `json:"is_all_day"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToEventResponse maps entity to DTO
func ToEventResponse(e *entity.Event) *EventResponse {
	return &EventResponse{
		ID:         e.ID,
		CalendarID: e.CalendarID,
		Title:      e.Title,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		IsAllDay:   e.IsAllDay,
		CreatedAt:  e.CreatedAt,
	}
}
