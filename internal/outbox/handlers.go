package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// LoggingHandler logs order events. It is used when no broker is configured.
type LoggingHandler struct {
	logger logger.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger logger.Logger) *LoggingHandler {
	return &LoggingHandler{
		logger: logger,
	}
}

// HandleMessage decodes the event envelope and logs it
func (h *LoggingHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	event, err := decodeEvent(message)

	if err != nil {
		return err
	}

	h.logger.Info("Order event",
		"messageID", message.ID,
		"eventType", event.EventType,
		"orderID", event.AggregateID,
		"eventID", event.EventID,
		"occurredAt", event.OccurredAt,
		"data", event.Data)

	return nil
}

func decodeEvent(message *models.OutboxMessage) (*models.OutboxMessageEvent, error) {
	var event models.OutboxMessageEvent

	if err := json.Unmarshal(message.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outbox message: %w", err)
	}

	return &event, nil
}
