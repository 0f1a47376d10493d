package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wefi-dex/munchclub-admin/internal/database"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// OutboxRepository handles database operations for outbox messages
type OutboxRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *database.Database, logger logger.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		logger: logger,
	}
}

// insertOutboxMessage writes message inside the caller's transaction and sets its ID
func insertOutboxMessage(ctx context.Context, tx *sqlx.Tx, message *models.OutboxMessage) error {
	query := `
		INSERT INTO outbox_messages (aggregate_type, aggregate_id, event_type, payload, created_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := tx.QueryRowxContext(
		ctx,
		query,
		message.AggregateType,
		message.AggregateID,
		message.EventType,
		string(message.Payload),
		message.CreatedAt,
		message.Status,
	).Scan(&message.ID)

	if err != nil {
		return fmt.Errorf("failed to create outbox message in transaction: %w", err)
	}

	return nil
}

// GetPendingMessages retrieves the oldest pending outbox messages
func (r *OutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload,
			created_at, processed_at, processing_attempts, last_error, status
		FROM outbox_messages
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	var messages []*models.OutboxMessage
	err := r.db.DB.SelectContext(ctx, &messages, query, models.OutboxStatusPending, limit)

	if err != nil {
		r.logger.Error("Failed to get pending outbox messages", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return messages, nil
}

// MarkAsProcessing increments the attempt counter; the row stays pending so
// that a failed publish is picked up again on the next poll
func (r *OutboxRepository) MarkAsProcessing(ctx context.Context, id int64) error {
	query := `UPDATE outbox_messages SET processing_attempts = processing_attempts + 1 WHERE id = $1`

	if _, err := r.db.DB.ExecContext(ctx, query, id); err != nil {
		r.logger.Error("Failed to mark outbox message as processing", "error", err, "messageID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// MarkAsCompleted updates the status of an outbox message to completed
func (r *OutboxRepository) MarkAsCompleted(ctx context.Context, id int64) error {
	query := `UPDATE outbox_messages SET status = $1, processed_at = $2 WHERE id = $3`

	_, err := r.db.DB.ExecContext(ctx, query, models.OutboxStatusCompleted, models.GetCurrentTime(), id)

	if err != nil {
		r.logger.Error("Failed to mark outbox message as completed", "error", err, "messageID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// MarkAsFailed updates the status of an outbox message to failed
func (r *OutboxRepository) MarkAsFailed(ctx context.Context, id int64, errorMessage string) error {
	query := `UPDATE outbox_messages SET status = $1, last_error = $2 WHERE id = $3`

	_, err := r.db.DB.ExecContext(ctx, query, models.OutboxStatusFailed, errorMessage, id)

	if err != nil {
		r.logger.Error("Failed to mark outbox message as failed", "error", err, "messageID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}
