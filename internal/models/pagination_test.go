package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListQuery(t *testing.T) {
	testCases := []struct {
		name          string
		page, limit   int
		expectedPage  int
		expectedLimit int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize},
		{"negative page", -3, 10, 1, 10},
		{"capped limit", 2, 500, 2, MaxPageSize},
		{"within bounds", 4, 50, 4, 50},
		{"huge page", 1 << 60, 200, MaxPage, 200},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewListQuery(" smith ", "", tc.page, tc.limit, MaxPageSize)
			assert.Equal(t, tc.expectedPage, q.Page)
			assert.Equal(t, tc.expectedLimit, q.Limit)
			assert.Equal(t, "smith", q.Search)
		})
	}
}

func TestListQueryOffset(t *testing.T) {
	q := NewListQuery("", "", 3, 25, MaxPageSize)
	assert.Equal(t, 50, q.Offset())

	cq := CouponQuery{Page: 3, Limit: 25}
	assert.Equal(t, int64(50), cq.Skip())

	last := NewListQuery("", "", 1<<60, MaxPageSize, MaxPageSize)
	assert.Positive(t, last.Offset())
	assert.Positive(t, CouponQuery{Page: last.Page, Limit: last.Limit}.Skip())
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPage[string](nil, 0, 1, 20)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}
