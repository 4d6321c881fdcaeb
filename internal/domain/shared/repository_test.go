package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterOffset(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     int
	}{
		{"first page", 1, 20, 0},
		{"zero page", 0, 20, 0},
		{"no page size", 3, 0, 0},
		{"third page", 3, 20, 40},
		{"saturates instead of overflowing", math.MaxInt / 50, 100, math.MaxInt},
		{"max page", math.MaxInt, 2, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Page: tt.page, PageSize: tt.pageSize}
			assert.Equal(t, tt.want, f.Offset())
		})
	}
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]string{"a", "b"}, 5, 1, 2)

	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 2)
}
