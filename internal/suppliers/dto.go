package suppliers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
)

// ProfileDTO exposes supplier storefront data in API responses.
type ProfileDTO struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	CompanyName string          `json:"company_name"`
	Description *string         `json:"description,omitempty"`
	Rating      decimal.Decimal `json:"rating"`
	TotalOrders int             `json:"total_orders"`
	IsVerified  bool            `json:"is_verified"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProfileDTO holds creation-time data for a supplier profile.
type CreateProfileDTO struct {
	UserID      uuid.UUID
	CompanyName string
	Description *string
}

// UpdateProfileDTO carries the mutable profile fields; nil means unchanged.
type UpdateProfileDTO struct {
	CompanyName *string
	Description *string
}

// TierInput is one quantity-discount rung submitted with a listing. Tiers
// are stored in submission order.
type TierInput struct {
	MinQuantity  int             `json:"min_quantity" validate:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"required"`
}

// UpsertListingDTO holds the full desired state of one supplier listing.
type UpsertListingDTO struct {
	ProductID         uuid.UUID       `json:"product_id" validate:"required"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit" validate:"required"`
	MinOrderQuantity  int             `json:"min_order_quantity" validate:"gte=1"`
	MaxOrderQuantity  *int            `json:"max_order_quantity,omitempty"`
	IsAvailable       *bool           `json:"is_available,omitempty"`
	DeliveryTimeHours int             `json:"delivery_time_hours" validate:"gte=0"`
	DiscountTiers     []TierInput     `json:"discount_tiers,omitempty"`
}

// ListingDTO is the transport shape for a supplier listing with its tiers.
type ListingDTO struct {
	ID                uuid.UUID       `json:"id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	MinOrderQuantity  int             `json:"min_order_quantity"`
	MaxOrderQuantity  *int            `json:"max_order_quantity,omitempty"`
	IsAvailable       bool            `json:"is_available"`
	DeliveryTimeHours int             `json:"delivery_time_hours"`
	DiscountTiers     []TierDTO       `json:"discount_tiers"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TierDTO is the transport shape of one stored discount tier.
type TierDTO struct {
	MinQuantity  int             `json:"min_quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

func ProfileFromModel(m *models.SupplierProfile) *ProfileDTO {
	if m == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          m.ID,
		UserID:      m.UserID,
		CompanyName: m.CompanyName,
		Description: m.Description,
		Rating:      m.Rating,
		TotalOrders: m.TotalOrders,
		IsVerified:  m.IsVerified,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ListingFromModel(m *models.SupplierListing) *ListingDTO {
	if m == nil {
		return nil
	}
	tiers := make([]TierDTO, 0, len(m.DiscountTiers))
	for _, tier := range m.DiscountTiers {
		tiers = append(tiers, TierDTO{
			MinQuantity:  tier.MinQuantity,
			PricePerUnit: tier.PricePerUnit,
		})
	}
	return &ListingDTO{
		ID:                m.ID,
		SupplierID:        m.SupplierID,
		ProductID:         m.ProductID,
		PricePerUnit:      m.PricePerUnit,
		MinOrderQuantity:  m.MinOrderQuantity,
		MaxOrderQuantity:  m.MaxOrderQuantity,
		IsAvailable:       m.IsAvailable,
		DeliveryTimeHours: m.DeliveryTimeHours,
		DiscountTiers:     tiers,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
