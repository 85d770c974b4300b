package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// Order is the single consolidated, supplier-facing purchase created from a
// group's product orders. Monetary fields are immutable after creation; only
// status, payment status and delivery fields move.
type Order struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID           uuid.UUID           `gorm:"column:group_id;type:uuid;not null;uniqueIndex"`
	SupplierID        uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	OrderNumber       string              `gorm:"column:order_number;not null;uniqueIndex"`
	Subtotal          decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryCharge    decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(12,2);not null"`
	Tax               decimal.Decimal     `gorm:"column:tax;type:numeric(12,2);not null"`
	Discount          decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	TotalAmount       decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status            enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'PENDING'"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'UNPAID'"`
	DeliveryAddress   string              `gorm:"column:delivery_address;not null"`
	DeliveryNotes     *string             `gorm:"column:delivery_notes"`
	EstimatedDelivery *time.Time          `gorm:"column:estimated_delivery"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
