package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wefi-dex/munchclub-admin/internal/database"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

func newMockDB(t *testing.T) (*database.Database, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return database.Wrap(sqlx.NewDb(db, "postgres"), logger.NewNop()), mock
}

func TestListBasketItemsJoinsBookRecipesAndPrice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, logger.NewNop())

	rows := sqlmock.NewRows([]string{
		"id", "order_id", "quantity", "item_type", "book_id", "book_title", "recipe_count", "unit_price",
	}).
		AddRow("bi-1", "ord-1", int64(2), "hardcover", "b1", "Soups", int64(12), []byte("24.99")).
		AddRow("bi-2", "ord-1", int64(1), nil, nil, nil, int64(0), nil)

	mock.ExpectQuery(`FROM basket_items bi LEFT JOIN books b ON b\.id = bi\.book_id ` +
		`LEFT JOIN \( SELECT book_id, COUNT\(\*\) AS recipe_count FROM recipes GROUP BY book_id \) rc ON rc\.book_id = b\.id ` +
		`LEFT JOIN type_prices tp ON tp\.id = bi\.type_price_id ` +
		`WHERE bi\.order_id = \$1 ORDER BY bi\.id`).
		WithArgs("ord-1").
		WillReturnRows(rows)

	items, err := repo.ListBasketItems(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, "hardcover", *first.ItemType)
	assert.Equal(t, "Soups", *first.BookTitle)
	assert.Equal(t, 12, first.RecipeCount)
	require.True(t, first.UnitPrice.Valid)
	assert.True(t, decimal.RequireFromString("24.99").Equal(first.UnitPrice.Decimal))

	second := items[1]
	assert.Nil(t, second.BookID)
	assert.Nil(t, second.ItemType)
	assert.False(t, second.UnitPrice.Valid)

	detail := models.NewOrderDetailItem(second)
	assert.Equal(t, models.UnknownBookName, detail.ProductName)
}

func TestListBasketItemsDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, logger.NewNop())

	mock.ExpectQuery(`FROM basket_items bi`).WithArgs("ord-1").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListBasketItems(context.Background(), "ord-1")
	assert.ErrorIs(t, err, ErrDatabase)
}

func TestGetFirstShippingAddress(t *testing.T) {
	query := `FROM order_shipping os JOIN shipping_addresses sa ON sa\.id = os\.shipping_address_id ` +
		`WHERE os\.order_id = \$1 ORDER BY os\.id LIMIT 1`
	columns := []string{
		"id", "user_id", "full_name", "address_line1", "address_line2",
		"city", "state", "postal_code", "country", "phone",
	}

	t.Run("first linked address", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db, logger.NewNop())

		mock.ExpectQuery(query).
			WithArgs("ord-1").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("sa-1", "usr-1", "Ada Lovelace", "1 Main St", nil, "London", nil, "N1", "UK", nil))

		addr, err := repo.GetFirstShippingAddress(context.Background(), "ord-1")
		require.NoError(t, err)
		assert.Equal(t, "sa-1", addr.ID)
		assert.Equal(t, "Ada Lovelace", *addr.FullName)
		assert.Nil(t, addr.AddressLine2)
	})

	t.Run("no link", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db, logger.NewNop())

		mock.ExpectQuery(query).WithArgs("ord-1").WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetFirstShippingAddress(context.Background(), "ord-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db, logger.NewNop())

		mock.ExpectQuery(query).WithArgs("ord-1").WillReturnError(errors.New("timeout"))

		_, err := repo.GetFirstShippingAddress(context.Background(), "ord-1")
		assert.ErrorIs(t, err, ErrDatabase)
	})
}

func statusUpdateFixture(t *testing.T) (*models.Order, *models.StatusHistoryEntry, *models.OutboxMessage) {
	t.Helper()

	order := &models.Order{ID: "ord-1", Status: models.ParseOrderStatus("SHIPPED")}

	entry, err := models.NewStatusHistoryEntry(order.ID, "SHIPPED", "")
	require.NoError(t, err)

	event := &models.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     models.EventOrderStatusChanged,
		Payload:       []byte(`{"status":"SHIPPED"}`),
		CreatedAt:     models.GetCurrentTime(),
		Status:        models.OutboxStatusPending,
	}

	return order, entry, event
}

func TestUpdateStatusWritesHistoryAndEventInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db, logger.NewNop())
	order, entry, event := statusUpdateFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("SHIPPED", sqlmock.AnyArg(), "ord-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO status_history \(order_id, status, message, created_at\)`).
		WithArgs("ord-1", "SHIPPED", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO outbox_messages`).
		WithArgs("order", "ord-1", models.EventOrderStatusChanged, `{"status":"SHIPPED"}`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateStatus(context.Background(), order, entry, event))
	assert.Equal(t, int64(7), entry.ID)
	assert.Equal(t, int64(9), event.ID)
}

func TestUpdateStatusRollsBack(t *testing.T) {
	t.Run("missing order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db, logger.NewNop())
		order, entry, event := statusUpdateFixture(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders SET status`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.UpdateStatus(context.Background(), order, entry, event)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("history insert fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrderRepository(db, logger.NewNop())
		order, entry, event := statusUpdateFixture(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders SET status`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO status_history`).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.UpdateStatus(context.Background(), order, entry, event)
		assert.ErrorIs(t, err, ErrDatabase)
	})
}

func TestUserCleanupStepsRunInOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.NewNop())

	expected := []struct {
		name  string
		query string
	}{
		{"status_history", `DELETE FROM status_history WHERE order_id IN \(SELECT id FROM orders WHERE user_id = \$1\)`},
		{"basket_items", `DELETE FROM basket_items WHERE order_id IN \(SELECT id FROM orders WHERE user_id = \$1\)`},
		{"payments", `DELETE FROM payments WHERE order_id IN \(SELECT id FROM orders WHERE user_id = \$1\)`},
		{"order_shipping", `DELETE FROM order_shipping WHERE order_id IN \(SELECT id FROM orders WHERE user_id = \$1\)`},
		{"orders", `DELETE FROM orders WHERE user_id = \$1`},
		{"shipping_addresses", `DELETE FROM shipping_addresses WHERE user_id = \$1`},
		{"recipes", `DELETE FROM recipes WHERE book_id IN \(SELECT id FROM books WHERE user_id = \$1\)`},
		{"books", `DELETE FROM books WHERE user_id = \$1`},
		{"users", `DELETE FROM users WHERE id = \$1`},
	}

	for _, e := range expected {
		mock.ExpectExec(e.query).WithArgs("usr-1").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	steps := repo.CleanupSteps("usr-1")
	require.Len(t, steps, len(expected))

	for i, step := range steps {
		assert.Equal(t, expected[i].name, step.Name)
		assert.NoError(t, step.Run(context.Background()), step.Name)
	}
}

func TestUserCleanupMissingUserRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.NewNop())

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs("usr-1").WillReturnResult(sqlmock.NewResult(0, 0))

	steps := repo.CleanupSteps("usr-1")
	last := steps[len(steps)-1]

	assert.Equal(t, "users", last.Name)
	assert.ErrorIs(t, last.Run(context.Background()), ErrNotFound)
}
