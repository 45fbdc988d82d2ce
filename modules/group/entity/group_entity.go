package entity

import (
	"time"

	"meetsync/core/entity"
)

// DefaultMemberCap is the soft membership capacity applied when a group is
// created without an explicit cap.
const DefaultMemberCap = 50

type Group struct {
	OwnerID     string `db:"owner_id" json:"owner_id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	MemberCap   int    `db:"member_cap" json:"member_cap"`

	entity.BaseEntity
}

// UserGroup is the membership join row.
type UserGroup struct {
	UserID    string    `db:"user_id" json:"user_id"`
	GroupID   int64     `db:"group_id" json:"group_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PaginatedGroupResponse = entity.Pagination[Group]
