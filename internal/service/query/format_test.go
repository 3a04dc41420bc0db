package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRowsEmpty(t *testing.T) {
	assert.Equal(t, "No data found for your query.", FormatRows(nil, ""))
}

func TestFormatRowsSingleAggregation(t *testing.T) {
	text := FormatRows([]map[string]any{{"total_sales": 15750.0}}, "")
	assert.Equal(t, "Total sales: ₹15750.00", text)
}

func TestFormatRowsStock(t *testing.T) {
	text := FormatRows([]map[string]any{
		{"name": "Amul Milk 500ml", "stock_quantity": 42.0, "unit": "packet"},
	}, "")
	assert.Equal(t, "Amul Milk 500ml: 42 packet in stock", text)
}

func TestFormatRowsList(t *testing.T) {
	rows := []map[string]any{
		{"name": "Raju Enterprises", "total_dues": 5200.0},
		{"name": "Sharma Traders", "total_dues": 3100.0},
	}

	text := FormatRows(rows, "Top customers with dues")

	assert.Contains(t, text, "Top customers with dues:")
	assert.Contains(t, text, "1. Raju Enterprises: ₹5200.00")
	assert.Contains(t, text, "2. Sharma Traders: ₹3100.00")
}

func TestFormatRowsTruncatesLongLists(t *testing.T) {
	rows := make([]map[string]any, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, map[string]any{"name": "Customer", "total_dues": float64(i)})
	}

	text := FormatRows(rows, "")
	assert.Contains(t, text, "... and 2 more.")
}
