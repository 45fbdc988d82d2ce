package entity

import "time"

// ResponseType represents a participant's stance on a meeting
type ResponseType string

const (
	ResponseTypeAccepted ResponseType = "accepted"
	ResponseTypeRejected ResponseType = "rejected"
	ResponseTypeCounter  ResponseType = "counter"
)

// Valid reports whether the response type is one of the known values.
func (t ResponseType) Valid() bool {
	switch t {
	case ResponseTypeAccepted, ResponseTypeRejected, ResponseTypeCounter:
		return true
	}
	return false
}

// MeetingResponse is an append-only record: users may respond repeatedly and
// the latest row per user is authoritative for aggregation.
type MeetingResponse struct {
	ID              int64        `db:"id" json:"id"`
	MeetingID       int64        `db:"meeting_id" json:"meeting_id"`
	UserID          string       `db:"user_id" json:"user_id"`
	ResponseType    ResponseType `db:"response_type" json:"response_type"`
	Note            string       `db:"note" json:"note,omitempty"`
	CounterAt       *time.Time   `db:"counter_at" json:"counter_at,omitempty"`
	CounterLocation *string      `db:"counter_location" json:"counter_location,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

// MeetingTag is a label attached to a meeting, removed with it on delete.
type MeetingTag struct {
	MeetingID int64  `db:"meeting_id" json:"meeting_id"`
	Tag       string `db:"tag" json:"tag"`
}

// AggregateResult tallies the latest response per distinct user. Users who
// never responded are not counted.
type AggregateResult struct {
	MeetingID     int64 `json:"meeting_id"`
	CountAccepted int   `json:"count_accepted"`
	CountRejected int   `json:"count_rejected"`
	CountCounter  int   `json:"count_counter"`
	// AllAccepted is true when every current participant's latest response
	// is an acceptance. Only meaningful alongside RequiresAllAccept; status
	// transitions remain the caller's decision.
	AllAccepted bool `json:"all_accepted"`
}
