package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wefi-dex/munchclub-admin/internal/database"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrDatabase = errors.New("database error")
)

const orderColumns = `id, user_id, status, printer_order_ids, printer_status, tracking_number,
	estimated_delivery, printer_error, created_at, updated_at`

// OrderRepository handles database operations for orders and the rows that
// hang off them
type OrderRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *database.Database, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &order, nil
}

// List retrieves order summaries, newest first, optionally filtered by status
func (r *OrderRepository) List(ctx context.Context, q models.ListQuery) ([]*models.OrderSummary, int64, error) {
	where := ""
	args := []interface{}{}

	if q.Status != "" {
		where = "WHERE o.status = $1"
		args = append(args, q.Status)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM orders o ` + where

	if err := r.db.DB.GetContext(ctx, &total, countQuery, args...); err != nil {
		r.logger.Error("Failed to count orders", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.user_id, u.name AS user_name, u.email AS user_email, o.status,
			(SELECT COUNT(*) FROM basket_items bi WHERE bi.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		%s
		ORDER BY o.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	var orders []*models.OrderSummary
	err := r.db.DB.SelectContext(ctx, &orders, query, append(args, q.Limit, q.Offset())...)

	if err != nil {
		r.logger.Error("Failed to list orders", "error", err, "limit", q.Limit, "offset", q.Offset())
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return orders, total, nil
}

// UpdateStatus sets the order status, appends the history entry and records
// the outbox event in one transaction
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	order *models.Order,
	entry *models.StatusHistoryEntry,
	event *models.OutboxMessage,
) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
			order.Status,
			models.GetCurrentTime(),
			order.ID,
		)

		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()

		if err != nil {
			return err
		}

		if rowsAffected == 0 {
			return ErrNotFound
		}

		err = tx.QueryRowxContext(ctx,
			`INSERT INTO status_history (order_id, status, message, created_at)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			entry.OrderID,
			entry.Status,
			entry.Message,
			entry.CreatedAt,
		).Scan(&entry.ID)

		if err != nil {
			return err
		}

		if event == nil {
			return nil
		}

		return insertOutboxMessage(ctx, tx, event)
	})

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		r.logger.Error("Failed to update order status", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// UpdatePrinterCache overwrites the cached printer fields and bumps updated_at
func (r *OrderRepository) UpdatePrinterCache(ctx context.Context, id string, cache models.PrinterCache) error {
	query := `
		UPDATE orders
		SET printer_status = $1, tracking_number = $2, estimated_delivery = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		cache.Status,
		cache.TrackingNumber,
		cache.EstimatedDelivery,
		models.GetCurrentTime(),
		id,
	)

	if err != nil {
		r.logger.Error("Failed to update printer cache", "error", err, "orderID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete hard-deletes an order; child rows go with it via ON DELETE CASCADE
func (r *OrderRepository) Delete(ctx context.Context, id string, event *models.OutboxMessage) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)

		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()

		if err != nil {
			return err
		}

		if rowsAffected == 0 {
			return ErrNotFound
		}

		if event == nil {
			return nil
		}

		return insertOutboxMessage(ctx, tx, event)
	})

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		r.logger.Error("Failed to delete order", "error", err, "orderID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}
