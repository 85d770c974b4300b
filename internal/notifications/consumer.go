package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/bulkbite/bulkbite-backend/pkg/db/models"
	"github.com/bulkbite/bulkbite-backend/pkg/enums"
	"github.com/bulkbite/bulkbite-backend/pkg/logger"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/idempotency"
	"github.com/bulkbite/bulkbite-backend/pkg/outbox/payloads"
)

const domainNotificationConsumer = "notification-worker"

type repository interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
}

// Consumer watches domain events and fans each one out into one
// notification row per affected group member. Delivery is best-effort;
// failures here never touch the operation that emitted the event.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a domain notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, domainNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	rows, err := c.buildNotifications(eventType, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, domainNotificationConsumer, eventID)
		return processResult{nack: true}
	}
	if len(rows) == 0 {
		c.logg.Info(logCtx, "event produced no notifications")
		return processResult{ack: true}
	}

	if err := c.repo.CreateBatch(ctx, rows); err != nil {
		c.logg.Error(logCtx, "notification fan-out failed", err)
		_ = c.idempotency.Delete(ctx, domainNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{"count": len(rows)}), "notifications created")
	return processResult{ack: true}
}

func (c *Consumer) buildNotifications(eventType string, data json.RawMessage) ([]models.Notification, error) {
	switch eventType {
	case string(enums.EventOrderPlaced):
		var payload payloads.OrderPlacedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		title := "Order placed"
		message := fmt.Sprintf("Order %s was placed for group %q (total %s).",
			payload.OrderNumber, payload.GroupName, payload.TotalAmount.StringFixed(2))
		return fanOut(payload.MemberIDs, enums.NotificationTypeOrderPlaced, title, message, map[string]any{
			"order_id": payload.OrderID,
			"group_id": payload.GroupID,
		}), nil

	case string(enums.EventOrderStatusChanged):
		var payload payloads.OrderStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		title := "Order update"
		message := fmt.Sprintf("Order %s moved from %s to %s.",
			payload.OrderNumber, payload.FromStatus, payload.ToStatus)
		return fanOut(payload.MemberIDs, enums.NotificationTypeOrderUpdate, title, message, map[string]any{
			"order_id": payload.OrderID,
			"group_id": payload.GroupID,
		}), nil

	case string(enums.EventGroupStatusChanged):
		var payload payloads.GroupStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		title := "Group update"
		message := fmt.Sprintf("Group %q moved from %s to %s.",
			payload.GroupName, payload.FromStatus, payload.ToStatus)
		return fanOut(payload.MemberIDs, enums.NotificationTypeGroupUpdate, title, message, map[string]any{
			"group_id": payload.GroupID,
		}), nil

	case string(enums.EventMemberJoined):
		var payload payloads.MemberJoinedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		title := "New member"
		message := fmt.Sprintf("%s joined group %q.", payload.UserName, payload.GroupName)
		recipients := excludeMember(payload.MemberIDs, payload.UserID)
		return fanOut(recipients, enums.NotificationTypeMemberJoined, title, message, map[string]any{
			"group_id": payload.GroupID,
			"user_id":  payload.UserID,
		}), nil

	case string(enums.EventMemberLeft):
		var payload payloads.MemberLeftEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		title := "Member left"
		message := fmt.Sprintf("%s left group %q.", payload.UserName, payload.GroupName)
		return fanOut(payload.MemberIDs, enums.NotificationTypeMemberLeft, title, message, map[string]any{
			"group_id": payload.GroupID,
			"user_id":  payload.UserID,
		}), nil

	default:
		return nil, nil
	}
}

func fanOut(memberIDs []uuid.UUID, notifType enums.NotificationType, title, message string, metadata map[string]any) []models.Notification {
	var meta json.RawMessage
	if metadata != nil {
		if encoded, err := json.Marshal(metadata); err == nil {
			meta = encoded
		}
	}

	rows := make([]models.Notification, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		rows = append(rows, models.Notification{
			UserID:   memberID,
			Type:     notifType,
			Title:    title,
			Message:  message,
			Metadata: meta,
		})
	}
	return rows
}

func excludeMember(memberIDs []uuid.UUID, exclude uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
