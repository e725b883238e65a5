package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		number     int
		size       int
		total      int64
		wantNumber int
		wantPages  int
		wantNext   bool
		wantPrev   bool
		wantOffset int
	}{
		{name: "first of two", number: 1, size: 10, total: 13, wantNumber: 1, wantPages: 2, wantNext: true, wantOffset: 0},
		{name: "last of two", number: 2, size: 10, total: 13, wantNumber: 2, wantPages: 2, wantPrev: true, wantOffset: 10},
		{name: "past the end clamps to last", number: 99, size: 10, total: 13, wantNumber: 2, wantPages: 2, wantPrev: true, wantOffset: 10},
		{name: "below one clamps to first", number: 0, size: 10, total: 13, wantNumber: 1, wantPages: 2, wantNext: true, wantOffset: 0},
		{name: "empty listing", number: 1, size: 10, total: 0, wantNumber: 1, wantPages: 1, wantOffset: 0},
		{name: "exact multiple", number: 2, size: 5, total: 10, wantNumber: 2, wantPages: 2, wantPrev: true, wantOffset: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.number, tt.size, tt.total)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.total, page.TotalItems)
			assert.Equal(t, tt.wantNext, page.HasNext)
			assert.Equal(t, tt.wantPrev, page.HasPrev)
			assert.Equal(t, tt.wantOffset, page.Offset())
		})
	}
}
