package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAccountCreated    = "account.created"
	EventTypeAccountDeleted    = "account.deleted"
	EventTypeAccountBulkAction = "account.bulk_action"
)

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type AccountCreatedEvent struct {
	BaseEvent
	ActorID   int64  `json:"actor_id"`
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

func NewAccountCreatedEvent(actorID, accountID int64, username, role string) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeAccountCreated, map[string]interface{}{
			"actor_id":   actorID,
			"account_id": accountID,
			"username":   username,
			"role":       role,
		}),
		ActorID:   actorID,
		AccountID: accountID,
		Username:  username,
		Role:      role,
	}
}

type AccountDeletedEvent struct {
	BaseEvent
	ActorID   int64  `json:"actor_id"`
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
}

func NewAccountDeletedEvent(actorID, accountID int64, username string) *AccountDeletedEvent {
	return &AccountDeletedEvent{
		BaseEvent: newBaseEvent(EventTypeAccountDeleted, map[string]interface{}{
			"actor_id":   actorID,
			"account_id": accountID,
			"username":   username,
		}),
		ActorID:   actorID,
		AccountID: accountID,
		Username:  username,
	}
}

type BulkActionEvent struct {
	BaseEvent
	ActorID    int64   `json:"actor_id"`
	Action     string  `json:"action"`
	AccountIDs []int64 `json:"account_ids"`
	Affected   int64   `json:"affected"`
}

func NewBulkActionEvent(actorID int64, action string, accountIDs []int64, affected int64) *BulkActionEvent {
	return &BulkActionEvent{
		BaseEvent: newBaseEvent(EventTypeAccountBulkAction, map[string]interface{}{
			"actor_id":    actorID,
			"action":      action,
			"account_ids": accountIDs,
			"affected":    affected,
		}),
		ActorID:    actorID,
		Action:     action,
		AccountIDs: accountIDs,
		Affected:   affected,
	}
}

// AuditLogger returns a handler that records account events in the log.
func AuditLogger(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		logger.Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
}
