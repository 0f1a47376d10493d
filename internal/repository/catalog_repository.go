package repository

import (
	"context"
	"fmt"

	"github.com/wefi-dex/munchclub-admin/internal/database"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// CatalogRepository serves the read-only admin lists for books, recipes and
// payments plus the dashboard counters
type CatalogRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *database.Database, logger logger.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: logger,
	}
}

// ListBooks searches books by title
func (r *CatalogRepository) ListBooks(ctx context.Context, q models.ListQuery) ([]*models.Book, int64, error) {
	where, args := searchClause(q.Search, "b.title")

	var total int64

	if err := r.db.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM books b `+where, args...); err != nil {
		r.logger.Error("Failed to count books", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.user_id, b.title, b.created_at,
			(SELECT COUNT(*) FROM recipes r WHERE r.book_id = b.id) AS recipe_count
		FROM books b
		%s
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	var books []*models.Book

	if err := r.db.DB.SelectContext(ctx, &books, query, append(args, q.Limit, q.Offset())...); err != nil {
		r.logger.Error("Failed to list books", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return books, total, nil
}

// ListRecipes searches recipes by title
func (r *CatalogRepository) ListRecipes(ctx context.Context, q models.ListQuery) ([]*models.Recipe, int64, error) {
	where, args := searchClause(q.Search, "title")

	var total int64

	if err := r.db.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM recipes `+where, args...); err != nil {
		r.logger.Error("Failed to count recipes", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query := fmt.Sprintf(`
		SELECT id, book_id, title, created_at
		FROM recipes
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	var recipes []*models.Recipe

	if err := r.db.DB.SelectContext(ctx, &recipes, query, append(args, q.Limit, q.Offset())...); err != nil {
		r.logger.Error("Failed to list recipes", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return recipes, total, nil
}

// ListPayments lists payments, optionally filtered by status
func (r *CatalogRepository) ListPayments(ctx context.Context, q models.ListQuery) ([]*models.Payment, int64, error) {
	where := ""
	args := []interface{}{}

	if q.Status != "" {
		where = "WHERE status = $1"
		args = append(args, q.Status)
	}

	var total int64

	if err := r.db.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM payments `+where, args...); err != nil {
		r.logger.Error("Failed to count payments", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, amount, processor_id, status, created_at
		FROM payments
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	var payments []*models.Payment

	if err := r.db.DB.SelectContext(ctx, &payments, query, append(args, q.Limit, q.Offset())...); err != nil {
		r.logger.Error("Failed to list payments", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return payments, total, nil
}

// Stats returns the relational dashboard counters. Coupon counts are filled
// in by the caller from the document store.
func (r *CatalogRepository) Stats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM orders) AS orders,
			(SELECT COUNT(*) FROM books) AS books,
			(SELECT COUNT(*) FROM recipes) AS recipes,
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = $1) AS revenue
	`

	var stats models.Stats

	if err := r.db.DB.GetContext(ctx, &stats, query, models.PaymentStatusSuccessful); err != nil {
		r.logger.Error("Failed to load stats", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &stats, nil
}
