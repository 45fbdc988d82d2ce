package entity

import (
	"time"

	"meetsync/core/entity"
)

// CalendarConnection ties a user to a calendar source. Locally managed
// calendars use the "local" provider; externally synced ones record their
// origin here.
type CalendarConnection struct {
	UserID        string `db:"user_id" json:"user_id"`
	Provider      string `db:"provider" json:"provider"` // "local" | "sync"
	CalendarEmail string `db:"calendar_email" json:"calendar_email"`
	IsActive      bool   `db:"is_active" json:"is_active"`

	entity.BaseEntity
}

// Calendar groups events under a connection.
type Calendar struct {
	ConnectionID int64  `db:"connection_id" json:"connection_id"`
	Name         string `db:"name" json:"name"`

	entity.BaseEntity
}

// Event is a calendar occurrence. Start and end are instants; the model
// stores no timezone.
type Event struct {
	CalendarID int64     `db:"calendar_id" json:"calendar_id"`
	Title      string    `db:"title" json:"title"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	IsAllDay   bool      `db:"is_all_day" json:"is_all_day"`

	entity.BaseEntity
}
