package entity

import (
	"time"

	"meetsync/core/entity"
)

// ConflictType classifies a detected pair
type ConflictType string

const (
	ConflictTypeOverlap   ConflictType = "overlap"
	ConflictTypeDuplicate ConflictType = "duplicate"
)

// Conflict is a detected temporal overlap between two of a user's events.
// Event1ID < Event2ID always holds, so a pair maps to exactly one row.
// IsResolved is flipped by explicit user action only; re-running detection
// never clears it.
type Conflict struct {
	Event1ID     int64        `db:"event1_id" json:"event1_id"`
	Event2ID     int64        `db:"event2_id" json:"event2_id"`
	ConflictType ConflictType `db:"conflict_type" json:"conflict_type"`
	IsResolved   bool         `db:"is_resolved" json:"is_resolved"`
	DetectedAt   time.Time    `db:"detected_at" json:"detected_at"`

	entity.BaseEntity
}
