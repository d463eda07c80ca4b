package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestOffsetParamsPage(t *testing.T) {
	tests := []struct {
		name       string
		params     OffsetParams
		maxSize    int
		wantIndex  int
		wantSize   int
		wantOffset int
	}{
		{"defaults", OffsetParams{}, 100, 0, DefaultPageSize, 0},
		{"first page", OffsetParams{From: intPtr(0), Size: intPtr(10)}, 100, 0, 10, 0},
		{"aligned offset", OffsetParams{From: intPtr(20), Size: intPtr(10)}, 100, 2, 10, 20},
		{"unaligned offset rounds down", OffsetParams{From: intPtr(25), Size: intPtr(10)}, 100, 2, 10, 20},
		{"size capped", OffsetParams{From: intPtr(0), Size: intPtr(500)}, 100, 0, 100, 0},
		{"no cap", OffsetParams{Size: intPtr(500)}, 0, 0, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.params.Page(tt.maxSize)
			assert.Equal(t, tt.wantIndex, p.Index)
			assert.Equal(t, tt.wantSize, p.Size)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestNewPageClampsInvalidInput(t *testing.T) {
	p := NewPage(-5, 0, 0)
	assert.Equal(t, 0, p.Index)
	assert.Equal(t, DefaultPageSize, p.Size)
}
