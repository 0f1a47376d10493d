package models

import (
	"encoding/json"
	"time"
)

// OutboxStatus represents the status of an outbox message
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusCompleted  OutboxStatus = "completed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

const (
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"
)

// OutboxMessage represents a message to be published from the outbox table
type OutboxMessage struct {
	ID                 int64        `db:"id" json:"id"`
	AggregateType      string       `db:"aggregate_type" json:"aggregate_type"`
	AggregateID        string       `db:"aggregate_id" json:"aggregate_id"`
	EventType          string       `db:"event_type" json:"event_type"`
	Payload            []byte       `db:"payload" json:"payload"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	ProcessedAt        *time.Time   `db:"processed_at" json:"processed_at,omitempty"`
	ProcessingAttempts int          `db:"processing_attempts" json:"processing_attempts"`
	LastError          *string      `db:"last_error" json:"last_error,omitempty"`
	Status             OutboxStatus `db:"status" json:"status"`
}

// OutboxMessageEvent is the envelope stored in OutboxMessage.Payload
type OutboxMessageEvent struct {
	EventType   string      `json:"event_type"`
	EventID     string      `json:"event_id"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data"`
}

func newOrderEvent(eventType, orderID string, data interface{}) (*OutboxMessage, error) {
	now := GetCurrentTime()

	event := OutboxMessageEvent{
		EventType:   eventType,
		EventID:     GenerateID("evt"),
		AggregateID: orderID,
		OccurredAt:  now,
		Data:        data,
	}

	payload, err := json.Marshal(event)

	if err != nil {
		return nil, err
	}

	return &OutboxMessage{
		EventType:     eventType,
		Payload:       payload,
		AggregateType: "order",
		AggregateID:   orderID,
		CreatedAt:     now,
		Status:        OutboxStatusPending,
	}, nil
}

// NewOrderStatusChangedEvent creates the event for an order status transition
func NewOrderStatusChangedEvent(order *Order, oldStatus, note string) (*OutboxMessage, error) {
	return newOrderEvent(EventOrderStatusChanged, order.ID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": order.Status.String(),
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"note":       note,
	})
}

// NewOrderDeletedEvent creates the event for an admin hard delete
func NewOrderDeletedEvent(orderID string) (*OutboxMessage, error) {
	return newOrderEvent(EventOrderDeleted, orderID, map[string]interface{}{
		"order_id": orderID,
	})
}
