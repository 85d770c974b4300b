package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users.
// Immutable once created apart from the read marker.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Type      enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	Title     string                 `gorm:"column:title;type:text;not null"`
	Message   string                 `gorm:"column:message;type:text;not null"`
	Metadata  json.RawMessage        `gorm:"column:metadata;type:jsonb"`
	ReadAt    *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt time.Time              `gorm:"column:created_at;type:timestamptz;default:now()"`
}
