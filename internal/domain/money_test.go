package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromFloat(t *testing.T) {
	assert.Equal(t, Money(12345), MoneyFromFloat(123.45))
	assert.Equal(t, Money(10), MoneyFromFloat(0.1))
	// Rounds half away from zero, not truncates.
	assert.Equal(t, Money(1), MoneyFromFloat(0.005))
	assert.Equal(t, Money(-550), MoneyFromFloat(-5.50))
}

func TestMoneyJSON(t *testing.T) {
	encoded, err := json.Marshal(MoneyFromFloat(99.9))
	require.NoError(t, err)
	assert.Equal(t, "99.90", string(encoded))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("350.25"), &m))
	assert.Equal(t, Money(35025), m)

	assert.Error(t, json.Unmarshal([]byte(`"not money"`), &m))
}

func TestNewPagedResult(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page        int
		pageSize    int
		totalPages  int
		hasNext     bool
		hasPrevious bool
	}{
		{"first of three", 7, 1, 3, 3, true, false},
		{"middle page", 7, 2, 3, 3, true, true},
		{"last page remainder", 7, 3, 3, 3, false, true},
		{"exact fit", 6, 2, 3, 2, false, true},
		{"empty", 0, 1, 20, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewPagedResult([]int{}, tt.total, tt.page, tt.pageSize)
			assert.Equal(t, tt.totalPages, result.TotalPages)
			assert.Equal(t, tt.hasNext, result.HasNextPage)
			assert.Equal(t, tt.hasPrevious, result.HasPreviousPage)
		})
	}
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxPageSize, size)
}
