package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	UnknownBookName     = "Unknown Book"
	UnknownItemType     = "Unknown"
	UnknownUserName     = "Unknown User"
	DefaultPrinterState = "PENDING"
)

// OrderDetail is the denormalised order view served to the dashboard.
type OrderDetail struct {
	ID              string               `json:"id"`
	UserID          string               `json:"userId"`
	UserName        string               `json:"userName"`
	UserEmail       string               `json:"userEmail"`
	Items           []OrderDetailItem    `json:"items"`
	Total           decimal.Decimal      `json:"total"`
	Status          string               `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	ShippingAddress OrderDetailAddress   `json:"shippingAddress"`
	Payment         *OrderDetailPayment  `json:"payment,omitempty"`
	PrinterOrderIDs []string             `json:"printerOrderIds"`
	PrinterStatus   string               `json:"printerStatus"`
	StatusHistory   []OrderDetailHistory `json:"statusHistory"`
}

type OrderDetailItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	RecipeCount int             `json:"recipeCount"`
	Type        string          `json:"type"`
}

type OrderDetailAddress struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

type OrderDetailPayment struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      PaymentStatus   `json:"status"`
	ProcessorID string          `json:"processorId"`
}

type OrderDetailHistory struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewOrderDetailItem projects a basket line, defaulting whatever the joins
// could not supply.
func NewOrderDetailItem(item *BasketItemDetail) OrderDetailItem {
	out := OrderDetailItem{
		ProductID:   deref(item.BookID),
		ProductName: UnknownBookName,
		Quantity:    item.Quantity,
		Price:       decimal.Zero,
		RecipeCount: item.RecipeCount,
		Type:        UnknownItemType,
	}

	if item.BookID != nil && item.BookTitle != nil {
		out.ProductName = *item.BookTitle
	}

	if item.UnitPrice.Valid {
		out.Price = item.UnitPrice.Decimal
	}

	if t := deref(item.ItemType); t != "" {
		out.Type = t
	}

	return out
}

// NewOrderDetailAddress projects a shipping address; nil yields all-empty fields.
func NewOrderDetailAddress(addr *ShippingAddress) OrderDetailAddress {
	if addr == nil {
		return OrderDetailAddress{}
	}

	return OrderDetailAddress{
		FullName:     deref(addr.FullName),
		AddressLine1: deref(addr.AddressLine1),
		AddressLine2: deref(addr.AddressLine2),
		City:         deref(addr.City),
		State:        deref(addr.State),
		PostalCode:   deref(addr.PostalCode),
		Country:      deref(addr.Country),
		Phone:        deref(addr.Phone),
	}
}
