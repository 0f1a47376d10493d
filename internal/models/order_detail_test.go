package models

import (
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryNote(t *testing.T) {
	testCases := []struct {
		name    string
		message string
		want    string
	}{
		{"note", `{"note":"Packed"}`, "Packed"},
		{"extra fields", `{"note":"Packed","by":"ops"}`, "Packed"},
		{"missing note", `{"by":"ops"}`, ""},
		{"non-string note", `{"note":42}`, ""},
		{"not an object", `"Packed"`, ""},
		{"empty", ``, ""},
		{"garbage", `{note`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := &StatusHistoryEntry{Message: types.JSONText(tc.message)}
			assert.Equal(t, tc.want, e.Note())
		})
	}
}

func TestNewStatusHistoryEntryDefaultsNote(t *testing.T) {
	e, err := NewStatusHistoryEntry("ord-1", "SHIPPED", "")
	require.NoError(t, err)
	assert.Equal(t, "Status updated to SHIPPED", e.Note())
	assert.Equal(t, "ord-1", e.OrderID)

	e, err = NewStatusHistoryEntry("ord-1", "SHIPPED", "Left the warehouse")
	require.NoError(t, err)
	assert.Equal(t, "Left the warehouse", e.Note())
}

func TestNewOrderDetailItem(t *testing.T) {
	t.Run("joined", func(t *testing.T) {
		item := NewOrderDetailItem(&BasketItemDetail{
			Quantity:    2,
			ItemType:    StringPtr("hardcover"),
			BookID:      StringPtr("b1"),
			BookTitle:   StringPtr("Soups"),
			RecipeCount: 12,
			UnitPrice:   decimal.NewNullDecimal(decimal.RequireFromString("24.99")),
		})

		assert.Equal(t, "b1", item.ProductID)
		assert.Equal(t, "Soups", item.ProductName)
		assert.Equal(t, 2, item.Quantity)
		assert.True(t, decimal.RequireFromString("24.99").Equal(item.Price))
		assert.Equal(t, 12, item.RecipeCount)
		assert.Equal(t, "hardcover", item.Type)
	})

	t.Run("missing joins", func(t *testing.T) {
		item := NewOrderDetailItem(&BasketItemDetail{Quantity: 1})

		assert.Equal(t, "", item.ProductID)
		assert.Equal(t, UnknownBookName, item.ProductName)
		assert.True(t, item.Price.IsZero())
		assert.Equal(t, UnknownItemType, item.Type)
	})
}

func TestNewOrderDetailAddress(t *testing.T) {
	assert.Equal(t, OrderDetailAddress{}, NewOrderDetailAddress(nil))

	addr := NewOrderDetailAddress(&ShippingAddress{
		FullName: StringPtr("Ada Lovelace"),
		City:     StringPtr("London"),
	})

	assert.Equal(t, "Ada Lovelace", addr.FullName)
	assert.Equal(t, "London", addr.City)
	assert.Equal(t, "", addr.AddressLine1)
	assert.Equal(t, "", addr.Phone)
}
