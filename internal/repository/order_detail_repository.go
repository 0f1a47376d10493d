package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wefi-dex/munchclub-admin/internal/models"
)

// ListBasketItems returns the order's basket lines joined with book, recipe
// count and price tier. Missing books and tiers come back as NULL columns.
func (r *OrderRepository) ListBasketItems(ctx context.Context, orderID string) ([]*models.BasketItemDetail, error) {
	query := `
		SELECT bi.id, bi.order_id, bi.quantity, bi.item_type,
			b.id AS book_id, b.title AS book_title,
			COALESCE(rc.recipe_count, 0) AS recipe_count,
			tp.price AS unit_price
		FROM basket_items bi
		LEFT JOIN books b ON b.id = bi.book_id
		LEFT JOIN (
			SELECT book_id, COUNT(*) AS recipe_count FROM recipes GROUP BY book_id
		) rc ON rc.book_id = b.id
		LEFT JOIN type_prices tp ON tp.id = bi.type_price_id
		WHERE bi.order_id = $1
		ORDER BY bi.id
	`

	var items []*models.BasketItemDetail
	err := r.db.DB.SelectContext(ctx, &items, query, orderID)

	if err != nil {
		r.logger.Error("Failed to get basket items", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return items, nil
}

// ListStatusHistory returns the order's history, most recent first
func (r *OrderRepository) ListStatusHistory(ctx context.Context, orderID string) ([]*models.StatusHistoryEntry, error) {
	query := `
		SELECT id, order_id, status, message, created_at
		FROM status_history
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var entries []*models.StatusHistoryEntry
	err := r.db.DB.SelectContext(ctx, &entries, query, orderID)

	if err != nil {
		r.logger.Error("Failed to get status history", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return entries, nil
}

// GetPayment returns the order's payment or ErrNotFound
func (r *OrderRepository) GetPayment(ctx context.Context, orderID string) (*models.Payment, error) {
	query := `
		SELECT id, order_id, amount, processor_id, status, created_at
		FROM payments
		WHERE order_id = $1
	`

	var payment models.Payment
	err := r.db.DB.GetContext(ctx, &payment, query, orderID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get payment", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &payment, nil
}

// GetFirstShippingAddress returns the first address linked to the order, in
// link insertion order, or ErrNotFound
func (r *OrderRepository) GetFirstShippingAddress(ctx context.Context, orderID string) (*models.ShippingAddress, error) {
	query := `
		SELECT sa.id, sa.user_id, sa.full_name, sa.address_line1, sa.address_line2,
			sa.city, sa.state, sa.postal_code, sa.country, sa.phone
		FROM order_shipping os
		JOIN shipping_addresses sa ON sa.id = os.shipping_address_id
		WHERE os.order_id = $1
		ORDER BY os.id
		LIMIT 1
	`

	var addr models.ShippingAddress
	err := r.db.DB.GetContext(ctx, &addr, query, orderID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get shipping address", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &addr, nil
}
