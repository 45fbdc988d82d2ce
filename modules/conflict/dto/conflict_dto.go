package dto

import (
	"time"

	"meetsync/modules/conflict/entity"
)

// ConflictResponse for a detected conflict
type ConflictResponse struct {
	ID           int64     `json:"id"`
	Event1ID     int64     `json:"event1_id"`
	Event2ID     int64     `json:"event2_id"`
	ConflictType string    `json:"conflict_type"`
	IsResolved   bool      `json:"is_resolved"`
	DetectedAt   time.Time `json:"detected_at"`
}

// DetectResponse summarizes a scan
type DetectResponse struct {
	PairsFound int `json:"pairs_found"`
}

// ToConflictResponse maps entity to DTO
func ToConflictResponse(c *entity.Conflict) *ConflictResponse {
	return &ConflictResponse{
		ID:           c.ID,
		Event1ID:     c.Event1ID,
		Event2ID:     c.Event2ID,
		ConflictType: string(c.ConflictType),
		IsResolved:   c.IsResolved,
		DetectedAt:   c.DetectedAt,
	}
}
