package dto

import (
	"time"

	"meetsync/modules/group/entity"
)

// ===================== Request DTOs =====================

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	MemberCap   int    `json:"member_cap"`
}

type UpdateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCap   int    `json:"member_cap"`
}

type AddMembersRequest struct {
	UserIDs []string `json:"user_ids" validate:"required"`
}

// ===================== Response DTOs =====================

type GroupResponse struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MemberCap   int       `json:"member_cap"`
	MemberCount int       `json:"member_count"`
	Members     []string  `json:"members,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToGroupResponse maps entity to DTO
func ToGroupResponse(g *entity.Group, members []entity.UserGroup) *GroupResponse {
	resp := &GroupResponse{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		Name:        g.Name,
		Description: g.Description,
		MemberCap:   g.MemberCap,
		MemberCount: len(members),
		CreatedAt:   g.CreatedAt,
	}

	for _, m := range members {
		resp.Members = append(resp.Members, m.UserID)
	}

	return resp
}
