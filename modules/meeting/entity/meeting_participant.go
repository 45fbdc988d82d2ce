package entity

import "time"

// MeetingParticipant is the invite-roster join row. Uniqueness on
// (meeting_id, user_id) makes joining twice a no-op.
type MeetingParticipant struct {
	MeetingID int64     `db:"meeting_id" json:"meeting_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}
