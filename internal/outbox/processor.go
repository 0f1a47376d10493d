package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// MessageHandler handles one outbox message
type MessageHandler interface {
	HandleMessage(ctx context.Context, message *models.OutboxMessage) error
}

// Store is the outbox table as the processor sees it
type Store interface {
	GetPendingMessages(ctx context.Context, limit int) ([]*models.OutboxMessage, error)
	MarkAsProcessing(ctx context.Context, id int64) error
	MarkAsCompleted(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64, errorMessage string) error
}

// ProcessorConfig holds the configuration for the Processor
type ProcessorConfig struct {
	PollingInterval time.Duration
	BatchSize       int
	MaxRetries      int
}

// Processor relays order events written by status transitions. Messages stay
// pending until a handler succeeds or MaxRetries attempts have failed.
type Processor struct {
	store    Store
	handlers map[string]MessageHandler
	config   ProcessorConfig
	logger   logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewProcessor creates a new Processor
func NewProcessor(store Store, config ProcessorConfig, logger logger.Logger) *Processor {
	if config.PollingInterval <= 0 {
		config.PollingInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}

	return &Processor{
		store:    store,
		handlers: make(map[string]MessageHandler),
		config:   config,
		logger:   logger,
	}
}

// RegisterHandler registers a handler for an event type. Call before Start.
func (p *Processor) RegisterHandler(eventType string, handler MessageHandler) {
	p.handlers[eventType] = handler
}

// Start begins polling in a background goroutine
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.running = true
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()

	p.logger.Info("Outbox processor started",
		"pollingInterval", p.config.PollingInterval,
		"batchSize", p.config.BatchSize)
}

// Stop stops polling and waits for the in-flight batch
func (p *Processor) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	p.wg.Wait()
	p.running = false

	p.logger.Info("Outbox processor stopped")
}

func (p *Processor) run(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error("Failed to process outbox batch", "error", err)
			}
		}
	}
}

// ProcessBatch handles one batch of pending messages and returns how many
// completed
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.PollingInterval)
	defer cancel()

	messages, err := p.store.GetPendingMessages(ctx, p.config.BatchSize)

	if err != nil {
		return 0, fmt.Errorf("failed to get pending messages: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	p.logger.Debug("Processing batch of outbox messages", "count", len(messages))

	completed := 0

	for _, msg := range messages {
		if err := p.processMessage(ctx, msg); err != nil {
			p.logger.Error("Failed to process message",
				"error", err,
				"messageID", msg.ID,
				"aggregateID", msg.AggregateID,
				"eventType", msg.EventType)
			continue
		}
		completed++
	}

	return completed, nil
}

func (p *Processor) processMessage(ctx context.Context, msg *models.OutboxMessage) error {
	if err := p.store.MarkAsProcessing(ctx, msg.ID); err != nil {
		return fmt.Errorf("failed to mark message as processing: %w", err)
	}

	attempts := msg.ProcessingAttempts + 1

	handler, exists := p.handlers[msg.EventType]

	if !exists {
		errorMsg := fmt.Sprintf("no handler registered for event type: %s", msg.EventType)

		if err := p.store.MarkAsFailed(ctx, msg.ID, errorMsg); err != nil {
			p.logger.Error("Failed to mark message as failed", "error", err, "messageID", msg.ID)
		}

		return fmt.Errorf("%s", errorMsg)
	}

	if err := handler.HandleMessage(ctx, msg); err != nil {
		if attempts >= p.config.MaxRetries {
			errorMsg := fmt.Sprintf("max retries reached: %s", err.Error())

			if markErr := p.store.MarkAsFailed(ctx, msg.ID, errorMsg); markErr != nil {
				p.logger.Error("Failed to mark message as failed", "error", markErr, "messageID", msg.ID)
			}

			return fmt.Errorf("message failed after %d attempts: %w", attempts, err)
		}

		p.logger.Warn("Message processing failed, will retry",
			"error", err,
			"messageID", msg.ID,
			"attempt", attempts)
		return err
	}

	if err := p.store.MarkAsCompleted(ctx, msg.ID); err != nil {
		return fmt.Errorf("failed to mark message as completed: %w", err)
	}

	p.logger.Info("Processed outbox message",
		"messageID", msg.ID,
		"aggregateID", msg.AggregateID,
		"eventType", msg.EventType)

	return nil
}
