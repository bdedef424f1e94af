package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
		hasMore    bool
	}{
		{"empty", 1, 20, 0, 0, false},
		{"single page", 1, 20, 5, 1, false},
		{"exact fit", 1, 20, 20, 1, false},
		{"first of three", 1, 20, 45, 3, true},
		{"middle page", 2, 20, 45, 3, true},
		{"last page", 3, 20, 45, 3, false},
		{"page clamped to one", 0, 20, 45, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.total, p.TotalCount)
			assert.Equal(t, tt.hasMore, p.HasMore)
		})
	}
}
