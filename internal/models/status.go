package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// MaxStatusLength is the longest status value, in characters, accepted for
// an order. Request validation uses the same bound.
const MaxStatusLength = 64

// StatusKind classifies an order status value.
type StatusKind int

const (
	StatusOther StatusKind = iota
	StatusPending
	StatusProcessing
	StatusReceived
	StatusAccepted
	StatusPrinted
	StatusShipped
	StatusDelivered
	StatusCancelled
	StatusError
)

var statusNames = map[StatusKind]string{
	StatusPending:    "PENDING",
	StatusProcessing: "PROCESSING",
	StatusReceived:   "RECEIVED",
	StatusAccepted:   "ACCEPTED",
	StatusPrinted:    "PRINTED",
	StatusShipped:    "SHIPPED",
	StatusDelivered:  "DELIVERED",
	StatusCancelled:  "CANCELLED",
	StatusError:      "ERROR",
}

var statusKinds = func() map[string]StatusKind {
	m := make(map[string]StatusKind, len(statusNames))
	for k, name := range statusNames {
		m[name] = k
	}
	return m
}()

func (k StatusKind) String() string {
	if name, ok := statusNames[k]; ok {
		return name
	}
	return "OTHER"
}

// OrderStatus is an order status as stored. Kind is the recognised variant;
// Raw is the exact stored value, kept even when Kind is StatusOther so that
// legacy or unexpected values round-trip unchanged.
type OrderStatus struct {
	Kind StatusKind
	Raw  string
}

// NewOrderStatus returns the canonical status for a known kind.
func NewOrderStatus(kind StatusKind) OrderStatus {
	return OrderStatus{Kind: kind, Raw: kind.String()}
}

// ParseOrderStatus classifies raw case-insensitively. Unrecognised values
// become StatusOther with Raw preserved.
func ParseOrderStatus(raw string) OrderStatus {
	if kind, ok := statusKinds[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return OrderStatus{Kind: kind, Raw: raw}
	}
	return OrderStatus{Kind: StatusOther, Raw: raw}
}

func (s OrderStatus) String() string {
	return s.Raw
}

// IsKnown reports whether the status is one of the closed set.
func (s OrderStatus) IsKnown() bool {
	return s.Kind != StatusOther
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Raw)
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseOrderStatus(raw)
	return nil
}

// Scan implements sql.Scanner.
func (s *OrderStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = OrderStatus{}
	case string:
		*s = ParseOrderStatus(v)
	case []byte:
		*s = ParseOrderStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (s OrderStatus) Value() (driver.Value, error) {
	return s.Raw, nil
}
