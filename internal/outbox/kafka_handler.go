package outbox

import (
	"context"
	"fmt"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
	"github.com/wefi-dex/munchclub-admin/pkg/retry"
)

// Publisher sends a keyed record to a topic
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
}

// KafkaHandler publishes order events keyed by order id, so every event of
// one order lands on the same partition
type KafkaHandler struct {
	publisher Publisher
	topic     string
	retry     *retry.RetryConfig
	logger    logger.Logger
}

// NewKafkaHandler creates a new KafkaHandler. Each publish is retried with
// exponential backoff before the processor counts it as a failed attempt.
func NewKafkaHandler(publisher Publisher, topic string, logger logger.Logger) *KafkaHandler {
	return &KafkaHandler{
		publisher: publisher,
		topic:     topic,
		retry: &retry.RetryConfig{
			MaxAttempts:     3,
			BackoffStrategy: retry.NewDefaultExponentialBackoff(),
			Logger:          logger,
		},
		logger: logger,
	}
}

// HandleMessage publishes the stored payload unchanged
func (h *KafkaHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	headers := map[string]string{
		"event_type":     message.EventType,
		"aggregate_type": message.AggregateType,
	}

	err := retry.Retry(ctx, func(ctx context.Context) error {
		return h.publisher.Publish(ctx, h.topic, message.AggregateID, message.Payload, headers)
	}, h.retry)

	if err != nil {
		return fmt.Errorf("failed to publish message to Kafka: %w", err)
	}

	h.logger.Debug("Published order event",
		"topic", h.topic,
		"messageID", message.ID,
		"orderID", message.AggregateID,
		"eventType", message.EventType)

	return nil
}
