package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// GroupMember joins a user to a group with a role. The creator's row is
// created alongside the group with the admin role.
type GroupMember struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID   uuid.UUID        `gorm:"column:group_id;type:uuid;not null;uniqueIndex:idx_group_members_group_user"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_group_members_group_user"`
	Role      enums.MemberRole `gorm:"column:role;type:member_role;not null;default:'member'"`
	JoinedAt  time.Time        `gorm:"column:joined_at;autoCreateTime"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
