package notifications

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/payloads"
)

func TestBuildNotificationsOrderPlacedFansOutToAllMembers(t *testing.T) {
	members := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	payload := payloads.OrderPlacedEvent{
		OrderID:     uuid.New(),
		GroupID:     uuid.New(),
		OrderNumber: "ORD-1756700000000-cb6d",
		GroupName:   "Karol Bagh Oils",
		TotalAmount: decimal.RequireFromString("487.50"),
		MemberIDs:   members,
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	rows, err := (&Consumer{}).buildNotifications(string(enums.EventOrderPlaced), data)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, row := range rows {
		assert.Equal(t, members[i], row.UserID)
		assert.Equal(t, enums.NotificationTypeOrderPlaced, row.Type)
		assert.Contains(t, row.Message, "ORD-1756700000000-cb6d")
		assert.Contains(t, row.Message, "487.50")
	}
}

func TestBuildNotificationsMemberJoinedSkipsTheJoiner(t *testing.T) {
	joiner := uuid.New()
	other := uuid.New()
	payload := payloads.MemberJoinedEvent{
		GroupID:   uuid.New(),
		GroupName: "Dosa Batter Collective",
		UserID:    joiner,
		UserName:  "Meena",
		MemberIDs: []uuid.UUID{joiner, other},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	rows, err := (&Consumer{}).buildNotifications(string(enums.EventMemberJoined), data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, other, rows[0].UserID)
	assert.Equal(t, enums.NotificationTypeMemberJoined, rows[0].Type)
	assert.Contains(t, rows[0].Message, "Meena")
}

func TestBuildNotificationsUnknownEventIsDropped(t *testing.T) {
	rows, err := (&Consumer{}).buildNotifications("inventory_adjusted", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestBuildNotificationsCarriesMetadata(t *testing.T) {
	groupID := uuid.New()
	payload := payloads.GroupStatusChangedEvent{
		GroupID:    groupID,
		GroupName:  "Chaat Supplies North",
		FromStatus: enums.GroupStatusActive,
		ToStatus:   enums.GroupStatusLocked,
		MemberIDs:  []uuid.UUID{uuid.New()},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	rows, err := (&Consumer{}).buildNotifications(string(enums.EventGroupStatusChanged), data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(rows[0].Metadata, &meta))
	assert.Equal(t, groupID.String(), meta["group_id"])
}
