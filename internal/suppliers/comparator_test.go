package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
)

type stubListingRepo struct {
	listings []models.SupplierListing
	err      error
}

func (s *stubListingRepo) ListAvailableForProduct(_ context.Context, _ uuid.UUID, _ int) ([]models.SupplierListing, error) {
	return s.listings, s.err
}

type stubProfileRepo struct {
	profiles map[uuid.UUID]*models.SupplierProfile
}

func (s *stubProfileRepo) FindProfileByUserID(_ context.Context, userID uuid.UUID) (*models.SupplierProfile, error) {
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return nil, assert.AnError
}

func tier(pos, minQty int, price string) models.ListingDiscountTier {
	return models.ListingDiscountTier{
		Position:     pos,
		MinQuantity:  minQty,
		PricePerUnit: decimal.RequireFromString(price),
	}
}

func TestResolveTierPriceLastMatchInStorageOrderWins(t *testing.T) {
	base := decimal.RequireFromString("10")
	tiers := []models.ListingDiscountTier{
		tier(0, 10, "9"),
		tier(1, 50, "7"),
	}

	final := ResolveTierPrice(base, tiers, 60)
	assert.True(t, final.Equal(decimal.RequireFromString("7")), "got %s", final)
}

func TestResolveTierPriceUnsortedTiers(t *testing.T) {
	base := decimal.RequireFromString("10")
	// Stored with the bigger discount first; the later, smaller discount
	// still wins because resolution walks storage order.
	tiers := []models.ListingDiscountTier{
		tier(0, 50, "7"),
		tier(1, 10, "9"),
	}

	final := ResolveTierPrice(base, tiers, 60)
	assert.True(t, final.Equal(decimal.RequireFromString("9")), "got %s", final)
}

func TestResolveTierPriceNoMatchKeepsBase(t *testing.T) {
	base := decimal.RequireFromString("10")
	tiers := []models.ListingDiscountTier{tier(0, 100, "5")}

	final := ResolveTierPrice(base, tiers, 60)
	assert.True(t, final.Equal(base))
}

func TestCompareRanksAndComputesDiscount(t *testing.T) {
	supplierA := uuid.New()
	supplierB := uuid.New()
	productID := uuid.New()

	repo := &stubListingRepo{listings: []models.SupplierListing{
		{
			ID:               uuid.New(),
			SupplierID:       supplierA,
			ProductID:        productID,
			PricePerUnit:     decimal.RequireFromString("10"),
			MinOrderQuantity: 1,
			IsAvailable:      true,
			DiscountTiers: []models.ListingDiscountTier{
				tier(0, 10, "9"),
				tier(1, 50, "7"),
			},
		},
		{
			ID:               uuid.New(),
			SupplierID:       supplierB,
			ProductID:        productID,
			PricePerUnit:     decimal.RequireFromString("12"),
			MinOrderQuantity: 1,
			IsAvailable:      true,
		},
	}}
	profiles := &stubProfileRepo{profiles: map[uuid.UUID]*models.SupplierProfile{
		supplierA: {UserID: supplierA, CompanyName: "Fresh Farms"},
		supplierB: {UserID: supplierB, CompanyName: "Metro Wholesale"},
	}}

	result, err := NewComparator(repo, profiles).Compare(context.Background(), productID, 60)
	require.NoError(t, err)
	require.Len(t, result.Listings, 2)

	best := result.Listings[0]
	assert.Equal(t, supplierA, best.SupplierID)
	assert.Equal(t, "Fresh Farms", best.CompanyName)
	assert.True(t, best.FinalPrice.Equal(decimal.RequireFromString("7")))
	assert.True(t, best.DiscountPercent.Equal(decimal.RequireFromString("30")), "got %s", best.DiscountPercent)
	assert.True(t, best.TotalCost.Equal(decimal.RequireFromString("420")))

	second := result.Listings[1]
	assert.True(t, second.FinalPrice.Equal(second.BasePrice))
	assert.True(t, second.DiscountPercent.IsZero())
}

func TestCompareDefaultsQuantityToOne(t *testing.T) {
	repo := &stubListingRepo{listings: []models.SupplierListing{{
		ID:               uuid.New(),
		SupplierID:       uuid.New(),
		PricePerUnit:     decimal.RequireFromString("4.50"),
		MinOrderQuantity: 1,
		IsAvailable:      true,
	}}}

	result, err := NewComparator(repo, nil).Compare(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Quantity)
	require.Len(t, result.Listings, 1)
	assert.True(t, result.Listings[0].TotalCost.Equal(decimal.RequireFromString("4.50")))
}
