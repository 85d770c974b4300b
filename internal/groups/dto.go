package groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	"github.com/bulkbite/bulkbite-backend/pkg/pagination"
)

// CreateGroupRequest is the payload for opening a new buying group.
type CreateGroupRequest struct {
	Name           string     `json:"name" validate:"required"`
	Description    *string    `json:"description,omitempty"`
	City           string     `json:"city" validate:"required"`
	Area           string     `json:"area" validate:"required"`
	DeliveryRadius int        `json:"delivery_radius_km" validate:"gte=1"`
	MinMembers     int        `json:"min_members" validate:"gte=1"`
	MaxMembers     int        `json:"max_members" validate:"gte=1"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// UpdateStatusRequest carries an explicit lifecycle transition.
type UpdateStatusRequest struct {
	Status enums.GroupStatus `json:"status" validate:"required"`
}

// ListFilter narrows group listings.
type ListFilter struct {
	City       string
	Area       string
	Status     *enums.GroupStatus
	OnlyActive bool
	Pagination pagination.Params
}

// MemberDTO is one group member with user metadata.
type MemberDTO struct {
	UserID   uuid.UUID        `json:"user_id"`
	Name     string           `json:"name"`
	Role     enums.MemberRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// GroupDTO is the transport shape of a group.
type GroupDTO struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    *string           `json:"description,omitempty"`
	City           string            `json:"city"`
	Area           string            `json:"area"`
	DeliveryRadius int               `json:"delivery_radius_km"`
	MinMembers     int               `json:"min_members"`
	MaxMembers     int               `json:"max_members"`
	Status         enums.GroupStatus `json:"status"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
	CreatedBy      uuid.UUID         `json:"created_by"`
	MemberCount    int               `json:"member_count"`
	Members        []MemberDTO       `json:"members,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// GroupPage is one cursor page of groups.
type GroupPage struct {
	Groups     []GroupDTO `json:"groups"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps the persisted group into a DTO.
func FromModel(m *models.Group) *GroupDTO {
	if m == nil {
		return nil
	}
	dto := &GroupDTO{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		City:           m.City,
		Area:           m.Area,
		DeliveryRadius: m.DeliveryRadius,
		MinMembers:     m.MinMembers,
		MaxMembers:     m.MaxMembers,
		Status:         m.Status,
		ExpiresAt:      m.ExpiresAt,
		CreatedBy:      m.CreatedBy,
		MemberCount:    len(m.Members),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	return dto
}
