package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/dbtest"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
)

func TestNewServiceRequiresDB(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestDashboardsRequireIDs(t *testing.T) {
	svc, err := NewService(&gorm.DB{})
	require.NoError(t, err)

	_, err = svc.VendorDashboard(context.Background(), uuid.Nil)
	var apiErr *pkgerrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, pkgerrors.CodeValidation, apiErr.Code())

	_, err = svc.SupplierDashboard(context.Background(), uuid.Nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, pkgerrors.CodeValidation, apiErr.Code())
}

type seededDB struct {
	client *dbpkg.Client
}

func newSeededDB(t *testing.T) seededDB {
	t.Helper()
	return seededDB{client: dbtest.New(t)}
}

func (s seededDB) user(t *testing.T, role enums.UserRole) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, s.client.DB().Create(&models.User{
		ID:    id,
		Email: id.String() + "@test.local",
		Name:  "user",
		Role:  role,
	}).Error)
	return id
}

func (s seededDB) group(t *testing.T, createdBy uuid.UUID, status enums.GroupStatus, memberIDs ...uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, s.client.DB().Create(&models.Group{
		ID:         id,
		Name:       "group",
		City:       "Delhi",
		Area:       "Karol Bagh",
		MinMembers: 2,
		MaxMembers: 20,
		Status:     status,
		CreatedBy:  createdBy,
	}).Error)
	for _, memberID := range memberIDs {
		require.NoError(t, s.client.DB().Create(&models.GroupMember{
			ID:      uuid.New(),
			GroupID: id,
			UserID:  memberID,
			Role:    enums.MemberRoleMember,
		}).Error)
	}
	return id
}

func TestVendorDashboardAggregates(t *testing.T) {
	db := newSeededDB(t)
	vendor := db.user(t, enums.UserRoleVendor)
	other := db.user(t, enums.UserRoleVendor)
	supplier := db.user(t, enums.UserRoleSupplier)

	// One active group created by the vendor, one placed group created by
	// someone else; the vendor belongs to both.
	db.group(t, vendor, enums.GroupStatusActive, vendor, other)
	placedID := db.group(t, other, enums.GroupStatusOrderPlaced, vendor, other)

	require.NoError(t, db.client.DB().Create(&models.ProductOrder{
		ID:         uuid.New(),
		GroupID:    placedID,
		ProductID:  uuid.New(),
		VendorID:   vendor,
		Quantity:   1,
		UnitPrice:  decimal.RequireFromString("100"),
		TotalPrice: decimal.RequireFromString("100"),
	}).Error)
	require.NoError(t, db.client.DB().Create(&models.ProductOrder{
		ID:         uuid.New(),
		GroupID:    placedID,
		ProductID:  uuid.New(),
		VendorID:   other,
		Quantity:   1,
		UnitPrice:  decimal.RequireFromString("40"),
		TotalPrice: decimal.RequireFromString("40"),
	}).Error)

	require.NoError(t, db.client.DB().Create(&models.Order{
		ID:              uuid.New(),
		GroupID:         placedID,
		SupplierID:      supplier,
		OrderNumber:     "ORD-1-test",
		Subtotal:        decimal.RequireFromString("140"),
		DeliveryCharge:  decimal.RequireFromString("50"),
		Tax:             decimal.RequireFromString("7"),
		Discount:        decimal.Zero,
		TotalAmount:     decimal.RequireFromString("197"),
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusUnpaid,
		DeliveryAddress: "12 Khari Baoli Rd, Delhi",
	}).Error)

	svc, err := NewService(db.client.DB())
	require.NoError(t, err)

	dashboard, err := svc.VendorDashboard(context.Background(), vendor)
	require.NoError(t, err)

	assert.Equal(t, int64(2), dashboard.GroupsJoined)
	assert.Equal(t, int64(1), dashboard.ActiveGroups)
	assert.Equal(t, int64(1), dashboard.GroupsCreated)
	assert.Equal(t, int64(1), dashboard.GroupsOrdered)
	assert.True(t, dashboard.TotalSpend.Equal(decimal.RequireFromString("100")),
		"spend counts only the vendor's own lines, got %s", dashboard.TotalSpend)
	// Two members split the 50 delivery charge: the vendor avoided 25.
	assert.True(t, dashboard.SavingsEstimate.Equal(decimal.RequireFromString("25")),
		"savings %s", dashboard.SavingsEstimate)
}

func TestSupplierDashboardAggregates(t *testing.T) {
	db := newSeededDB(t)
	supplier := db.user(t, enums.UserRoleSupplier)

	require.NoError(t, db.client.DB().Create(&models.SupplierListing{
		ID:           uuid.New(),
		SupplierID:   supplier,
		ProductID:    uuid.New(),
		PricePerUnit: decimal.RequireFromString("20"),
		IsAvailable:  true,
	}).Error)
	require.NoError(t, db.client.DB().Create(&models.SupplierListing{
		ID:           uuid.New(),
		SupplierID:   supplier,
		ProductID:    uuid.New(),
		PricePerUnit: decimal.RequireFromString("22"),
		IsAvailable:  false,
	}).Error)

	seedOrder := func(status enums.OrderStatus, total string) {
		require.NoError(t, db.client.DB().Create(&models.Order{
			ID:              uuid.New(),
			GroupID:         uuid.New(),
			SupplierID:      supplier,
			OrderNumber:     "ORD-" + uuid.NewString()[:8],
			Subtotal:        decimal.RequireFromString(total),
			DeliveryCharge:  decimal.Zero,
			Tax:             decimal.Zero,
			Discount:        decimal.Zero,
			TotalAmount:     decimal.RequireFromString(total),
			Status:          status,
			PaymentStatus:   enums.PaymentStatusUnpaid,
			DeliveryAddress: "somewhere",
		}).Error)
	}
	seedOrder(enums.OrderStatusDelivered, "200")
	seedOrder(enums.OrderStatusPending, "100")
	seedOrder(enums.OrderStatusCancelled, "50")

	svc, err := NewService(db.client.DB())
	require.NoError(t, err)

	dashboard, err := svc.SupplierDashboard(context.Background(), supplier)
	require.NoError(t, err)

	assert.Equal(t, int64(2), dashboard.ListingCount)
	assert.Equal(t, int64(1), dashboard.AvailableListings)
	assert.Equal(t, int64(3), dashboard.OrderCount)
	assert.Equal(t, int64(1), dashboard.PendingOrders)
	assert.True(t, dashboard.DeliveredRevenue.Equal(decimal.RequireFromString("200")),
		"delivered revenue %s", dashboard.DeliveredRevenue)
	assert.True(t, dashboard.OpenRevenue.Equal(decimal.RequireFromString("300")),
		"open revenue %s", dashboard.OpenRevenue)
}
