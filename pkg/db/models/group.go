package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// Group represents a buying cohort of vendors sharing one consolidated
// supplier order.
type Group struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string            `gorm:"column:name;not null"`
	Description    *string           `gorm:"column:description"`
	City           string            `gorm:"column:city;not null"`
	Area           string            `gorm:"column:area;not null"`
	DeliveryRadius int               `gorm:"column:delivery_radius_km;not null;default:5"`
	MinMembers     int               `gorm:"column:min_members;not null;default:2"`
	MaxMembers     int               `gorm:"column:max_members;not null;default:20"`
	Status         enums.GroupStatus `gorm:"column:status;type:group_status;not null;default:'ACTIVE'"`
	ExpiresAt      *time.Time        `gorm:"column:expires_at"`
	CreatedBy      uuid.UUID         `gorm:"column:created_by;type:uuid;not null"`
	Members        []GroupMember     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	ProductOrders  []ProductOrder    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// IsExpired reports whether the advisory expiry timestamp has passed.
func (g Group) IsExpired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}
