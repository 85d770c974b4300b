package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
)

// CreateProductDTO carries the fields needed to add a catalog entry.
type CreateProductDTO struct {
	Name        string            `json:"name" validate:"required,min=2,max=120"`
	Description *string           `json:"description,omitempty"`
	Category    string            `json:"category" validate:"required,min=2,max=60"`
	Unit        enums.ProductUnit `json:"unit" validate:"required"`
	BasePrice   decimal.Decimal   `json:"basePrice" validate:"required"`
	ImageURL    *string           `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// UpdateProductDTO holds optional catalog updates. Nil fields are untouched.
type UpdateProductDTO struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=2,max=60"`
	BasePrice   *decimal.Decimal `json:"basePrice,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	Category        string
	Search          string
	IncludeInactive bool
}

// ProductDTO is the catalog read shape returned by list and get.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Category    string            `json:"category"`
	Unit        enums.ProductUnit `json:"unit"`
	BasePrice   decimal.Decimal   `json:"basePrice"`
	ImageURL    *string           `json:"imageUrl,omitempty"`
	IsActive    bool              `json:"isActive"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ListingSummary condenses a supplier listing for the product detail view.
type ListingSummary struct {
	ListingID         uuid.UUID       `json:"listingId"`
	SupplierID        uuid.UUID       `json:"supplierId"`
	CompanyName       string          `json:"companyName"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	MinOrderQuantity  int             `json:"minOrderQuantity"`
	MaxOrderQuantity  *int            `json:"maxOrderQuantity,omitempty"`
	DeliveryTimeHours int             `json:"deliveryTimeHours"`
	TierCount         int             `json:"tierCount"`
}

// DetailDTO is a product together with its available supplier listings.
type DetailDTO struct {
	Product  ProductDTO       `json:"product"`
	Listings []ListingSummary `json:"listings"`
}

// ListResult wraps one catalog page and the cursor for the next.
type ListResult struct {
	Items  []ProductDTO `json:"items"`
	Cursor string       `json:"cursor"`
}

// FromModel converts a product row into its read shape.
func FromModel(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Unit:        product.Unit,
		BasePrice:   product.BasePrice,
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
