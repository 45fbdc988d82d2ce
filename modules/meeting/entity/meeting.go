package entity

import (
	"time"

	"meetsync/core/entity"
)

// MeetingStatus represents the status of a meeting suggestion
type MeetingStatus string

const (
	MeetingStatusPending   MeetingStatus = "pending"
	MeetingStatusAccepted  MeetingStatus = "accepted"
	MeetingStatusRejected  MeetingStatus = "rejected"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// Product constraints on meeting suggestions.
const (
	// MaxTitleLength bounds the title; longer input is truncated at the
	// service boundary before persistence.
	MaxTitleLength = 16
	// AuthorQuota is the maximum number of suggestions a single author may
	// have outstanding, counted over all statuses.
	AuthorQuota = 4
	// DefaultDurationMinutes applies when no duration is given.
	DefaultDurationMinutes = 60
	// OpenDiscoveryCap hides a meeting from public discovery once its
	// participant count reaches it.
	OpenDiscoveryCap = 100
)

// MeetingSuggestion is a proposed gathering at a single instant, owned by
// its author. A nil GroupID means the invitation scope is the explicit
// participant roster.
type MeetingSuggestion struct {
	AuthorID          string        `db:"author_id" json:"author_id"`
	GroupID           *int64        `db:"group_id" json:"group_id,omitempty"`
	Title             string        `db:"title" json:"title"`
	Description       string        `db:"description" json:"description,omitempty"`
	Location          string        `db:"location" json:"location,omitempty"`
	ProposedAt        time.Time     `db:"proposed_at" json:"proposed_at"`
	DurationMinutes   int           `db:"duration_minutes" json:"duration_minutes"`
	RequiresAllAccept bool          `db:"requires_all_accept" json:"requires_all_accept"`
	Status            MeetingStatus `db:"status" json:"status"`
	IsPrivate         bool          `db:"is_private" json:"is_private"`
	Slug              string        `db:"slug" json:"slug"`
	ImageURL          *string       `db:"image_url" json:"image_url,omitempty"`

	entity.BaseEntity
}
