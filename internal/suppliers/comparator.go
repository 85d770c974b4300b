package suppliers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// ComparisonEntry is one ranked supplier offer for a product at a quantity.
type ComparisonEntry struct {
	ListingID         uuid.UUID       `json:"listing_id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	CompanyName       string          `json:"company_name"`
	BasePrice         decimal.Decimal `json:"base_price"`
	FinalPrice        decimal.Decimal `json:"final_price"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	MinOrderQuantity  int             `json:"min_order_quantity"`
	MaxOrderQuantity  *int            `json:"max_order_quantity,omitempty"`
	DeliveryTimeHours int             `json:"delivery_time_hours"`
}

// ComparisonResult ranks listings cheapest base price first; the head of the
// list is presented as the best deal.
type ComparisonResult struct {
	ProductID uuid.UUID         `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Listings  []ComparisonEntry `json:"listings"`
}

type comparatorRepository interface {
	ListAvailableForProduct(ctx context.Context, productID uuid.UUID, quantity int) ([]models.SupplierListing, error)
}

type profileLookup interface {
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.SupplierProfile, error)
}

// Comparator ranks supplier listings by effective price at a quantity.
type Comparator struct {
	listings comparatorRepository
	profiles profileLookup
}

// NewComparator builds a comparator over the provided repositories.
func NewComparator(listings comparatorRepository, profiles profileLookup) *Comparator {
	return &Comparator{listings: listings, profiles: profiles}
}

// Compare fetches qualifying listings and resolves each one's effective
// price via its discount tiers. Quantities below 1 default to 1.
func (c *Comparator) Compare(ctx context.Context, productID uuid.UUID, quantity int) (*ComparisonResult, error) {
	if quantity < 1 {
		quantity = 1
	}

	listings, err := c.listings.ListAvailableForProduct(ctx, productID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier listings")
	}

	entries := make([]ComparisonEntry, 0, len(listings))
	for i := range listings {
		listing := &listings[i]
		entry := ComparisonEntry{
			ListingID:         listing.ID,
			SupplierID:        listing.SupplierID,
			BasePrice:         listing.PricePerUnit,
			FinalPrice:        ResolveTierPrice(listing.PricePerUnit, listing.DiscountTiers, quantity),
			MinOrderQuantity:  listing.MinOrderQuantity,
			MaxOrderQuantity:  listing.MaxOrderQuantity,
			DeliveryTimeHours: listing.DeliveryTimeHours,
		}
		entry.DiscountPercent = discountPercent(entry.BasePrice, entry.FinalPrice)
		entry.TotalCost = entry.FinalPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

		if c.profiles != nil {
			if profile, err := c.profiles.FindProfileByUserID(ctx, listing.SupplierID); err == nil {
				entry.CompanyName = profile.CompanyName
			}
		}

		entries = append(entries, entry)
	}

	return &ComparisonResult{
		ProductID: productID,
		Quantity:  quantity,
		Listings:  entries,
	}, nil
}

// ResolveTierPrice walks tiers in stored order and overwrites the price with
// every tier whose minimum quantity admits the requested quantity. The last
// matching tier in storage order wins, whether or not tiers are sorted.
func ResolveTierPrice(basePrice decimal.Decimal, tiers []models.ListingDiscountTier, quantity int) decimal.Decimal {
	final := basePrice
	for _, tier := range tiers {
		if tier.MinQuantity <= quantity {
			final = tier.PricePerUnit
		}
	}
	return final
}

func discountPercent(base, final decimal.Decimal) decimal.Decimal {
	if base.IsZero() || base.Equal(final) {
		return decimal.Zero
	}
	return base.Sub(final).Div(base).Mul(oneHundred).Round(2)
}
