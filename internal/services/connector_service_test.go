// internal/services/connector_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderDateFormats(t *testing.T) {
	cases := map[string]time.Time{
		"2025-03-10T14:30:00Z": time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		"2025-03-10 14:30:00":  time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		"2025-03-10":           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		"03/10/2025":           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	for raw, want := range cases {
		got, err := parseOrderDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}
}

func TestParseOrderDateRejectsGarbage(t *testing.T) {
	_, err := parseOrderDate("next tuesday")
	assert.Error(t, err)

	_, err = parseOrderDate("")
	assert.Error(t, err)
}

func TestNormalizeRevenue(t *testing.T) {
	assert.Equal(t, "19.99", normalizeRevenue("19.99"))
	assert.Equal(t, "19.99", normalizeRevenue("$19.99"))
	assert.Equal(t, "1299.50", normalizeRevenue("$1,299.50"))
	assert.Equal(t, "5", normalizeRevenue(" 5 "))
	assert.Equal(t, "0", normalizeRevenue("free"))
	assert.Equal(t, "0", normalizeRevenue(""))
}

func TestCSVColumnsLookup(t *testing.T) {
	columns := csvColumns{"product_name": 0, "revenue": 2}
	record := []string{" Hero Tee ", "ignored", "19.99"}

	assert.Equal(t, "Hero Tee", columns.get(record, "product_name"))
	assert.Equal(t, "19.99", columns.get(record, "revenue"))
	assert.Equal(t, "", columns.get(record, "missing"))

	// Out of range index is treated as an empty cell.
	short := csvColumns{"revenue": 5}
	assert.Equal(t, "", short.get(record, "revenue"))
}
