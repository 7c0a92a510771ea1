package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       OffsetRequest
		expected OffsetRequest
	}{
		{"defaults", OffsetRequest{}, OffsetRequest{Page: 0, Size: PageDefaultSize}},
		{"negative page", OffsetRequest{Page: -3, Size: 5}, OffsetRequest{Page: 0, Size: 5}},
		{"oversized", OffsetRequest{Page: 2, Size: 1000}, OffsetRequest{Page: 2, Size: PageMaxSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			r.Normalize()
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	t.Run("first page", func(t *testing.T) {
		res := Paginate(items, NewOffsetRequest(0, 10))
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, res.Items)
		assert.Equal(t, 23, res.Total)
		assert.True(t, res.HasMore)
	})

	t.Run("last partial page", func(t *testing.T) {
		res := Paginate(items, NewOffsetRequest(2, 10))
		assert.Equal(t, []int{20, 21, 22}, res.Items)
		assert.False(t, res.HasMore)
	})

	t.Run("past the end", func(t *testing.T) {
		res := Paginate(items, NewOffsetRequest(7, 10))
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
		assert.Equal(t, 23, res.Total)
	})

	t.Run("does not alias input", func(t *testing.T) {
		res := Paginate(items, NewOffsetRequest(0, 2))
		res.Items[0] = 99
		assert.Equal(t, 0, items[0])
	})
}
