package registry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulkbite/bulkbite-backend/pkg/config"
	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/payloads"
)

func testRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{
		DomainTopic:        "bb-domain-events",
		DomainSubscription: "bb-domain-events-sub",
	})
	require.NoError(t, err)
	return reg
}

func envelopeRow(t *testing.T, eventType enums.OutboxEventType, aggType enums.OutboxAggregateType, data interface{}) models.OutboxEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       raw,
	}
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: aggType,
		AggregateID:   uuid.New(),
		Payload:       payload,
	}
}

func TestNewEventRegistryRequiresDomainTopic(t *testing.T) {
	_, err := NewEventRegistry(config.PubSubConfig{})
	require.Error(t, err)
}

func TestResolveOrderPlaced(t *testing.T) {
	reg := testRegistry(t)
	orderID := uuid.New()
	row := envelopeRow(t, enums.EventOrderPlaced, enums.AggregateOrder, payloads.OrderPlacedEvent{
		OrderID:     orderID,
		OrderNumber: "ORD-1700000000000-abcd",
	})

	resolved, err := reg.Resolve(row)
	require.NoError(t, err)
	assert.Equal(t, "bb-domain-events", resolved.Descriptor.Topic)

	placed, ok := resolved.Payload.(*payloads.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, orderID, placed.OrderID)
	assert.Equal(t, "ORD-1700000000000-abcd", placed.OrderNumber)
}

func TestResolveRejectsUnknownEventType(t *testing.T) {
	reg := testRegistry(t)
	row := envelopeRow(t, enums.OutboxEventType("unknown"), enums.AggregateOrder, map[string]string{})

	_, err := reg.Resolve(row)
	require.Error(t, err)
	var nonRetryable NonRetryableError
	assert.ErrorAs(t, err, &nonRetryable)
}

func TestResolveRejectsAggregateMismatch(t *testing.T) {
	reg := testRegistry(t)
	row := envelopeRow(t, enums.EventOrderPlaced, enums.AggregateGroup, payloads.OrderPlacedEvent{})

	_, err := reg.Resolve(row)
	require.Error(t, err)
}

func TestResolveRejectsEmptyPayload(t *testing.T) {
	reg := testRegistry(t)
	row := envelopeRow(t, enums.EventMemberJoined, enums.AggregateMembership, nil)

	_, err := reg.Resolve(row)
	require.Error(t, err)
	var nonRetryable NonRetryableError
	assert.ErrorAs(t, err, &nonRetryable)
}
