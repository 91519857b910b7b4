package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	ptr := func(i int) *int { return &i }

	tests := []struct {
		name          string
		limit, offset *int
		wantLimit     int
		wantOffset    int
	}{
		{"defaults", nil, nil, defaultPageSize, 0},
		{"explicit", ptr(5), ptr(10), 5, 10},
		{"clamped limit", ptr(500), nil, maxPageSize, 0},
		{"non-positive values ignored", ptr(0), ptr(-3), defaultPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := page(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	assert.Equal(t, "Lima", *optional("Lima"))
	assert.Equal(t, "", deref[string](nil))
	assert.Equal(t, []string{"food"}, deref(&[]string{"food"}))
}
