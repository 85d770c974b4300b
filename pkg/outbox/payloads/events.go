package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// OrderPlacedEvent is emitted when a group's product orders are consolidated
// into a supplier order.
type OrderPlacedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	GroupID     uuid.UUID       `json:"group_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	OrderNumber string          `json:"order_number"`
	GroupName   string          `json:"group_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PlacedBy    uuid.UUID       `json:"placed_by"`
	MemberIDs   []uuid.UUID     `json:"member_ids"`
}

// OrderStatusChangedEvent is emitted when the fulfilling supplier moves the
// consolidated order through its lifecycle.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	GroupID     uuid.UUID         `json:"group_id"`
	OrderNumber string            `json:"order_number"`
	FromStatus  enums.OrderStatus `json:"from_status"`
	ToStatus    enums.OrderStatus `json:"to_status"`
	MemberIDs   []uuid.UUID       `json:"member_ids"`
}

// GroupStatusChangedEvent is emitted on any explicit group lifecycle change.
type GroupStatusChangedEvent struct {
	GroupID    uuid.UUID         `json:"group_id"`
	GroupName  string            `json:"group_name"`
	FromStatus enums.GroupStatus `json:"from_status"`
	ToStatus   enums.GroupStatus `json:"to_status"`
	ChangedBy  uuid.UUID         `json:"changed_by"`
	MemberIDs  []uuid.UUID       `json:"member_ids"`
}

// MemberJoinedEvent is emitted when a vendor joins a group.
type MemberJoinedEvent struct {
	GroupID   uuid.UUID   `json:"group_id"`
	GroupName string      `json:"group_name"`
	UserID    uuid.UUID   `json:"user_id"`
	UserName  string      `json:"user_name"`
	JoinedAt  time.Time   `json:"joined_at"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// MemberLeftEvent is emitted when a vendor leaves a group.
type MemberLeftEvent struct {
	GroupID   uuid.UUID   `json:"group_id"`
	GroupName string      `json:"group_name"`
	UserID    uuid.UUID   `json:"user_id"`
	UserName  string      `json:"user_name"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}
