package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	testCases := []struct {
		raw   string
		kind  StatusKind
		known bool
	}{
		{"SHIPPED", StatusShipped, true},
		{"shipped", StatusShipped, true},
		{" Delivered ", StatusDelivered, true},
		{"CANCELLED", StatusCancelled, true},
		{"awaiting-review", StatusOther, false},
		{"", StatusOther, false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			s := ParseOrderStatus(tc.raw)
			assert.Equal(t, tc.kind, s.Kind)
			assert.Equal(t, tc.known, s.IsKnown())
			assert.Equal(t, tc.raw, s.String(), "raw value must be preserved")
		})
	}
}

func TestOrderStatusScanAndValue(t *testing.T) {
	var s OrderStatus

	require.NoError(t, s.Scan([]byte("legacy_state")))
	assert.Equal(t, StatusOther, s.Kind)

	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, "legacy_state", v)

	require.NoError(t, s.Scan("PRINTED"))
	assert.Equal(t, StatusPrinted, s.Kind)

	assert.Error(t, s.Scan(42))
}

func TestOrderStatusJSON(t *testing.T) {
	data, err := json.Marshal(NewOrderStatus(StatusShipped))
	require.NoError(t, err)
	assert.JSONEq(t, `"SHIPPED"`, string(data))

	var s OrderStatus
	require.NoError(t, json.Unmarshal([]byte(`"on hold"`), &s))
	assert.Equal(t, StatusOther, s.Kind)
	assert.Equal(t, "on hold", s.Raw)
}
