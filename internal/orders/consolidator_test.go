package orders

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulkbite/bulkbite-backend/pkg/config"
	dbpkg "github.com/bulkbite/bulkbite-backend/pkg/db"
	"github.com/bulkbite/bulkbite-backend/pkg/db/dbtest"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	pkgerrors "github.com/bulkbite/bulkbite-backend/pkg/errors"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
)

func TestNewOrderNumberFormat(t *testing.T) {
	groupID := uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	at := time.UnixMilli(1756700000000)

	number := NewOrderNumber(groupID, at)
	assert.Equal(t, "ORD-1756700000000-cb6d", number)
}

func TestNewOrderNumberVariesByGroup(t *testing.T) {
	at := time.Now()
	first := NewOrderNumber(uuid.New(), at)
	second := NewOrderNumber(uuid.New(), at)

	require.True(t, strings.HasPrefix(first, "ORD-"))
	require.True(t, strings.HasPrefix(second, "ORD-"))
	// Same timestamp, different groups: suffixes almost surely differ, but
	// the parts we can assert deterministically are prefix and shape.
	parts := strings.Split(first, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 4)
}

type consolidatorFixture struct {
	consolidator *Consolidator
	client       *dbpkg.Client
	groupID      uuid.UUID
	creatorID    uuid.UUID
	supplierID   uuid.UUID
}

func newConsolidatorFixture(t *testing.T) consolidatorFixture {
	t.Helper()
	client := dbtest.New(t)

	creatorID := uuid.New()
	require.NoError(t, client.DB().Create(&models.User{
		ID:    creatorID,
		Email: creatorID.String() + "@test.local",
		Name:  "creator",
		Role:  enums.UserRoleVendor,
	}).Error)

	supplierID := uuid.New()
	require.NoError(t, client.DB().Create(&models.User{
		ID:    supplierID,
		Email: supplierID.String() + "@test.local",
		Name:  "supplier",
		Role:  enums.UserRoleSupplier,
	}).Error)
	require.NoError(t, client.DB().Create(&models.SupplierProfile{
		ID:          uuid.New(),
		UserID:      supplierID,
		CompanyName: "Mandi Direct",
	}).Error)

	groupID := uuid.New()
	require.NoError(t, client.DB().Create(&models.Group{
		ID:         groupID,
		Name:       "Chandni Chowk Bulk",
		City:       "Delhi",
		Area:       "Chandni Chowk",
		MinMembers: 2,
		MaxMembers: 20,
		Status:     enums.GroupStatusActive,
		CreatedBy:  creatorID,
	}).Error)
	require.NoError(t, client.DB().Create(&models.GroupMember{
		ID:      uuid.New(),
		GroupID: groupID,
		UserID:  creatorID,
		Role:    enums.MemberRoleAdmin,
	}).Error)

	policy, err := config.NewPolicyConfig("50", "5")
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	return consolidatorFixture{
		consolidator: NewConsolidator(client, policy, logg),
		client:       client,
		groupID:      groupID,
		creatorID:    creatorID,
		supplierID:   supplierID,
	}
}

func (f consolidatorFixture) seedProductOrder(t *testing.T, total string) {
	t.Helper()
	amount := decimal.RequireFromString(total)
	require.NoError(t, f.client.DB().Create(&models.ProductOrder{
		ID:         uuid.New(),
		GroupID:    f.groupID,
		ProductID:  uuid.New(),
		VendorID:   f.creatorID,
		Quantity:   1,
		UnitPrice:  amount,
		TotalPrice: amount,
	}).Error)
}

func TestConsolidateComputesTotalsAndMovesGroup(t *testing.T) {
	f := newConsolidatorFixture(t)
	f.seedProductOrder(t, "100")
	f.seedProductOrder(t, "50")

	dto, err := f.consolidator.Consolidate(context.Background(), f.groupID, f.creatorID, ConsolidateRequest{
		SupplierID:      f.supplierID,
		DeliveryAddress: "12 Khari Baoli Rd, Delhi",
	})
	require.NoError(t, err)

	assert.True(t, dto.Subtotal.Equal(decimal.RequireFromString("150")), "subtotal %s", dto.Subtotal)
	assert.True(t, dto.DeliveryCharge.Equal(decimal.RequireFromString("50")), "delivery %s", dto.DeliveryCharge)
	assert.True(t, dto.Tax.Equal(decimal.RequireFromString("7.50")), "tax %s", dto.Tax)
	assert.True(t, dto.TotalAmount.Equal(decimal.RequireFromString("207.50")), "total %s", dto.TotalAmount)
	assert.Equal(t, enums.OrderStatusPending, dto.Status)

	var group models.Group
	require.NoError(t, f.client.DB().First(&group, "id = ?", f.groupID).Error)
	assert.Equal(t, enums.GroupStatusOrderPlaced, group.Status)

	var profile models.SupplierProfile
	require.NoError(t, f.client.DB().First(&profile, "user_id = ?", f.supplierID).Error)
	assert.Equal(t, 1, profile.TotalOrders)

	var eventCount int64
	require.NoError(t, f.client.DB().Model(&models.OutboxEvent{}).
		Where("event_type = ?", enums.EventOrderPlaced).Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)
}

func TestConsolidateTwiceConflicts(t *testing.T) {
	f := newConsolidatorFixture(t)
	f.seedProductOrder(t, "80")

	req := ConsolidateRequest{
		SupplierID:      f.supplierID,
		DeliveryAddress: "12 Khari Baoli Rd, Delhi",
	}
	_, err := f.consolidator.Consolidate(context.Background(), f.groupID, f.creatorID, req)
	require.NoError(t, err)

	_, err = f.consolidator.Consolidate(context.Background(), f.groupID, f.creatorID, req)
	var apiErr *pkgerrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, apiErr.Code())

	var orderCount int64
	require.NoError(t, f.client.DB().Model(&models.Order{}).
		Where("group_id = ?", f.groupID).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)
}

func TestConsolidateEmptyGroupFails(t *testing.T) {
	f := newConsolidatorFixture(t)

	_, err := f.consolidator.Consolidate(context.Background(), f.groupID, f.creatorID, ConsolidateRequest{
		SupplierID:      f.supplierID,
		DeliveryAddress: "12 Khari Baoli Rd, Delhi",
	})

	var apiErr *pkgerrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, pkgerrors.CodeEmptyOrder, apiErr.Code())

	// The failed transaction rolls the status move back.
	var group models.Group
	require.NoError(t, f.client.DB().First(&group, "id = ?", f.groupID).Error)
	assert.Equal(t, enums.GroupStatusActive, group.Status)
}

func TestConsolidateRequiresManagingRole(t *testing.T) {
	f := newConsolidatorFixture(t)
	f.seedProductOrder(t, "40")

	stranger := uuid.New()
	require.NoError(t, f.client.DB().Create(&models.User{
		ID:    stranger,
		Email: stranger.String() + "@test.local",
		Name:  "stranger",
		Role:  enums.UserRoleVendor,
	}).Error)

	_, err := f.consolidator.Consolidate(context.Background(), f.groupID, stranger, ConsolidateRequest{
		SupplierID:      f.supplierID,
		DeliveryAddress: "12 Khari Baoli Rd, Delhi",
	})

	var apiErr *pkgerrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, pkgerrors.CodeForbidden, apiErr.Code())
}
