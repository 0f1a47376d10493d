package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wefi-dex/munchclub-admin/internal/database"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Database, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, email, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.db.DB.GetContext(ctx, &user, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get user by ID", "error", err, "userID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &user, nil
}

// List searches users by name or email, newest first
func (r *UserRepository) List(ctx context.Context, q models.ListQuery) ([]*models.User, int64, error) {
	where, args := searchClause(q.Search, "name", "email")

	var total int64

	if err := r.db.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM users `+where, args...); err != nil {
		r.logger.Error("Failed to count users", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, created_at
		FROM users
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	var users []*models.User

	if err := r.db.DB.SelectContext(ctx, &users, query, append(args, q.Limit, q.Offset())...); err != nil {
		r.logger.Error("Failed to list users", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return users, total, nil
}

// CleanupSteps returns the ordered deletions that remove a user and the rows
// that depend on them. The last step deletes the user row itself.
func (r *UserRepository) CleanupSteps(userID string) []models.CleanupStep {
	userOrders := `SELECT id FROM orders WHERE user_id = $1`
	userBooks := `SELECT id FROM books WHERE user_id = $1`

	statements := []struct {
		name  string
		query string
	}{
		{"status_history", `DELETE FROM status_history WHERE order_id IN (` + userOrders + `)`},
		{"basket_items", `DELETE FROM basket_items WHERE order_id IN (` + userOrders + `)`},
		{"payments", `DELETE FROM payments WHERE order_id IN (` + userOrders + `)`},
		{"order_shipping", `DELETE FROM order_shipping WHERE order_id IN (` + userOrders + `)`},
		{"orders", `DELETE FROM orders WHERE user_id = $1`},
		{"shipping_addresses", `DELETE FROM shipping_addresses WHERE user_id = $1`},
		{"recipes", `DELETE FROM recipes WHERE book_id IN (` + userBooks + `)`},
		{"books", `DELETE FROM books WHERE user_id = $1`},
	}

	steps := make([]models.CleanupStep, 0, len(statements)+1)

	for _, st := range statements {
		st := st
		steps = append(steps, models.CleanupStep{
			Name: st.name,
			Run: func(ctx context.Context) error {
				if _, err := r.db.DB.ExecContext(ctx, st.query, userID); err != nil {
					return fmt.Errorf("%w: %v", ErrDatabase, err)
				}
				return nil
			},
		})
	}

	steps = append(steps, models.CleanupStep{
		Name: "users",
		Run: func(ctx context.Context) error {
			result, err := r.db.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)

			if err != nil {
				return fmt.Errorf("%w: %v", ErrDatabase, err)
			}

			if n, err := result.RowsAffected(); err == nil && n == 0 {
				return ErrNotFound
			}
			return nil
		},
	})

	return steps
}

// searchClause builds "WHERE (a ILIKE $1 OR b ILIKE $1)" for a non-empty term.
func searchClause(term string, columns ...string) (string, []interface{}) {
	if term == "" || len(columns) == 0 {
		return "", nil
	}

	clause := "WHERE ("
	for i, col := range columns {
		if i > 0 {
			clause += " OR "
		}
		clause += col + " ILIKE $1"
	}
	clause += ")"

	return clause, []interface{}{"%" + escapeLike(term) + "%"}
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
