package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testOrder(subtotal, delivery, tax string) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		GroupID:        uuid.New(),
		Subtotal:       dec(subtotal),
		DeliveryCharge: dec(delivery),
		Tax:            dec(tax),
	}
}

func po(vendorID uuid.UUID, total string) models.ProductOrder {
	return models.ProductOrder{
		ID:         uuid.New(),
		VendorID:   vendorID,
		TotalPrice: dec(total),
	}
}

func TestComputeSplitZeroMembersFailsWithDivisionError(t *testing.T) {
	_, err := ComputeSplit(testOrder("150", "50", "7.50"), 0, nil)
	require.Error(t, err)

	var apiErr *pkgerrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, pkgerrors.CodeDivision, apiErr.Code())
}

func TestComputeSplitBillsOnlyContributors(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()

	// Four members, two of whom contributed product orders.
	split, err := ComputeSplit(testOrder("150", "50", "8"), 4, []models.ProductOrder{
		po(vendorA, "60"),
		po(vendorA, "40"),
		po(vendorB, "50"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, split.MemberCount)
	assert.True(t, split.DeliveryShare.Equal(dec("12.50")))
	assert.True(t, split.TaxShare.Equal(dec("2")))
	require.Len(t, split.Shares, 2)

	byVendor := map[uuid.UUID]VendorShare{}
	for _, share := range split.Shares {
		byVendor[share.VendorID] = share
	}
	assert.True(t, byVendor[vendorA].ProductTotal.Equal(dec("100")))
	assert.True(t, byVendor[vendorA].FinalAmount.Equal(dec("114.50")))
	assert.True(t, byVendor[vendorB].FinalAmount.Equal(dec("64.50")))
}

func TestComputeSplitGapEqualsAbsentMembersShare(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	memberCount := 4
	contributors := 2

	split, err := ComputeSplit(testOrder("150", "50", "8"), memberCount, []models.ProductOrder{
		po(vendorA, "100"),
		po(vendorB, "50"),
	})
	require.NoError(t, err)

	billed := decimal.Zero
	for _, share := range split.Shares {
		billed = billed.Add(share.FinalAmount)
	}

	fullTotal := split.Subtotal.Add(split.DeliveryCharge).Add(split.Tax)
	perHead := split.DeliveryShare.Add(split.TaxShare)
	expectedGap := perHead.Mul(decimal.NewFromInt(int64(memberCount - contributors)))

	assert.True(t, fullTotal.Sub(billed).Equal(expectedGap),
		"billed %s, full %s, expected gap %s", billed, fullTotal, expectedGap)
}

func TestComputeSplitAllMembersContributingCoversFullTotal(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()

	split, err := ComputeSplit(testOrder("150", "50", "8"), 2, []models.ProductOrder{
		po(vendorA, "100"),
		po(vendorB, "50"),
	})
	require.NoError(t, err)

	billed := decimal.Zero
	for _, share := range split.Shares {
		billed = billed.Add(share.FinalAmount)
	}
	assert.True(t, billed.Equal(dec("208")))
}
