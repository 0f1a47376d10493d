package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// User is a platform customer
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Book is a printed recipe book
type Book struct {
	ID          string    `db:"id" json:"id"`
	UserID      *string   `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	RecipeCount int       `db:"recipe_count" json:"recipeCount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Recipe struct {
	ID        string    `db:"id" json:"id"`
	BookID    *string   `db:"book_id" json:"bookId"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TypePrice is a price tier for a basket item type
type TypePrice struct {
	ID    string          `db:"id" json:"id"`
	Type  string          `db:"type" json:"type"`
	Price decimal.Decimal `db:"price" json:"price"`
}

// PaymentStatus represents the processor-side state of a payment
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment is the optional one-to-one payment of an order
type Payment struct {
	ID          string          `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"orderId"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	ProcessorID string          `db:"processor_id" json:"processorId"`
	Status      PaymentStatus   `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// ShippingAddress is a user's delivery address
type ShippingAddress struct {
	ID           string  `db:"id"`
	UserID       *string `db:"user_id"`
	FullName     *string `db:"full_name"`
	AddressLine1 *string `db:"address_line1"`
	AddressLine2 *string `db:"address_line2"`
	City         *string `db:"city"`
	State        *string `db:"state"`
	PostalCode   *string `db:"postal_code"`
	Country      *string `db:"country"`
	Phone        *string `db:"phone"`
}

// BasketItemDetail is a basket line joined with its book and price tier.
// Book and price columns are nil when the referenced rows are gone.
type BasketItemDetail struct {
	ID          string              `db:"id"`
	OrderID     string              `db:"order_id"`
	Quantity    int                 `db:"quantity"`
	ItemType    *string             `db:"item_type"`
	BookID      *string             `db:"book_id"`
	BookTitle   *string             `db:"book_title"`
	RecipeCount int                 `db:"recipe_count"`
	UnitPrice   decimal.NullDecimal `db:"unit_price"`
}

// Stats is the dashboard summary
type Stats struct {
	Users           int             `db:"users" json:"users"`
	Orders          int             `db:"orders" json:"orders"`
	Books           int             `db:"books" json:"books"`
	Recipes         int             `db:"recipes" json:"recipes"`
	Revenue         decimal.Decimal `db:"revenue" json:"revenue"`
	Coupons         int64           `db:"-" json:"coupons"`
	RedeemedCoupons int64           `db:"-" json:"redeemedCoupons"`
}

// CleanupStep is one named step of a best-effort multi-table deletion.
type CleanupStep struct {
	Name string
	Run  func(ctx context.Context) error
}

// CleanupReport records the outcome of each cleanup step.
type CleanupReport struct {
	UserID string          `json:"userId"`
	Steps  []CleanupResult `json:"steps"`
}

type CleanupResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether any step failed.
func (r *CleanupReport) Failed() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return true
		}
	}
	return false
}
