package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// ConsolidateRequest is the payload for turning a group's product orders
// into one supplier-facing order.
type ConsolidateRequest struct {
	SupplierID      uuid.UUID `json:"supplier_id" validate:"required"`
	DeliveryAddress string    `json:"delivery_address" validate:"required"`
	DeliveryNotes   *string   `json:"delivery_notes,omitempty"`
}

// UpdateStatusRequest moves the consolidated order through its lifecycle.
type UpdateStatusRequest struct {
	Status            enums.OrderStatus `json:"status" validate:"required"`
	EstimatedDelivery *time.Time        `json:"estimated_delivery,omitempty"`
}

// OrderDTO is the transport shape of a consolidated order.
type OrderDTO struct {
	ID                uuid.UUID           `json:"id"`
	GroupID           uuid.UUID           `json:"group_id"`
	SupplierID        uuid.UUID           `json:"supplier_id"`
	OrderNumber       string              `json:"order_number"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	DeliveryCharge    decimal.Decimal     `json:"delivery_charge"`
	Tax               decimal.Decimal     `json:"tax"`
	Discount          decimal.Decimal     `json:"discount"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	Status            enums.OrderStatus   `json:"status"`
	PaymentStatus     enums.PaymentStatus `json:"payment_status"`
	DeliveryAddress   string              `json:"delivery_address"`
	DeliveryNotes     *string             `json:"delivery_notes,omitempty"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// VendorShare is one contributing vendor's slice of the order cost.
type VendorShare struct {
	VendorID      uuid.UUID       `json:"vendor_id"`
	ProductTotal  decimal.Decimal `json:"product_total"`
	DeliveryShare decimal.Decimal `json:"delivery_share"`
	TaxShare      decimal.Decimal `json:"tax_share"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
}

// CostSplit is the per-vendor breakdown of a consolidated order.
type CostSplit struct {
	OrderID        uuid.UUID       `json:"order_id"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Tax            decimal.Decimal `json:"tax"`
	MemberCount    int             `json:"member_count"`
	DeliveryShare  decimal.Decimal `json:"delivery_share"`
	TaxShare       decimal.Decimal `json:"tax_share"`
	Shares         []VendorShare   `json:"shares"`
}

// FromModel maps the persisted order into a DTO.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	return &OrderDTO{
		ID:                m.ID,
		GroupID:           m.GroupID,
		SupplierID:        m.SupplierID,
		OrderNumber:       m.OrderNumber,
		Subtotal:          m.Subtotal,
		DeliveryCharge:    m.DeliveryCharge,
		Tax:               m.Tax,
		Discount:          m.Discount,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		DeliveryAddress:   m.DeliveryAddress,
		DeliveryNotes:     m.DeliveryNotes,
		EstimatedDelivery: m.EstimatedDelivery,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
