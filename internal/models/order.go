package models

import (
	"time"

	"github.com/lib/pq"
)

// Order represents an order in the system. The printer fields cache the last
// successful poll against the printer gateway and may be stale.
type Order struct {
	ID                string         `db:"id" json:"id"`
	UserID            string         `db:"user_id" json:"user_id"`
	Status            OrderStatus    `db:"status" json:"status"`
	PrinterOrderIDs   pq.StringArray `db:"printer_order_ids" json:"printer_order_ids"`
	PrinterStatus     *string        `db:"printer_status" json:"printer_status,omitempty"`
	TrackingNumber    *string        `db:"tracking_number" json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time     `db:"estimated_delivery" json:"estimated_delivery,omitempty"`
	PrinterError      *string        `db:"printer_error" json:"printer_error,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// PrinterCache is the subset of order fields overwritten by a successful
// printer reconciliation. Nil pointers clear the column.
type PrinterCache struct {
	Status            string
	TrackingNumber    *string
	EstimatedDelivery *time.Time
}

// OrderSummary is a row of the admin order list.
type OrderSummary struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"userId"`
	UserName  *string     `db:"user_name" json:"userName,omitempty"`
	UserEmail *string     `db:"user_email" json:"userEmail,omitempty"`
	Status    OrderStatus `db:"status" json:"status"`
	ItemCount int         `db:"item_count" json:"itemCount"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// NewOrder creates a new pending order
func NewOrder(userID string, printerOrderIDs ...string) *Order {
	now := GetCurrentTime()

	return &Order{
		ID:              GenerateID("ord"),
		UserID:          userID,
		Status:          NewOrderStatus(StatusPending),
		PrinterOrderIDs: pq.StringArray(printerOrderIDs),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
