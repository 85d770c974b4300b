package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// MemberWithUser joins a membership row with the member's display name.
type MemberWithUser struct {
	UserID   uuid.UUID        `json:"user_id"`
	Name     string           `json:"name"`
	Role     enums.MemberRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}
