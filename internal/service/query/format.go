package query

import (
	"fmt"
	"sort"
	"strings"
)

// FormatRows renders query results into a short natural-language answer
// suitable for speech output.
func FormatRows(rows []map[string]any, explanation string) string {
	if len(rows) == 0 {
		return "No data found for your query."
	}

	if len(rows) == 1 {
		if text, ok := formatSingleRow(rows[0]); ok {
			return text
		}
	}

	lines := make([]string, 0, len(rows)+2)
	if explanation != "" {
		lines = append(lines, explanation+":")
	}

	shown := rows
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, row := range shown {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, describeRow(row)))
	}
	if len(rows) > 10 {
		lines = append(lines, fmt.Sprintf("... and %d more.", len(rows)-10))
	}

	return strings.Join(lines, "\n")
}

// formatSingleRow special-cases the common aggregations so the answer reads
// like a sentence rather than a table dump.
func formatSingleRow(row map[string]any) (string, bool) {
	if total, ok := numericValue(row["total_sales"]); ok {
		return fmt.Sprintf("Total sales: ₹%.2f", total), true
	}
	if dues, ok := numericValue(row["total_dues"]); ok {
		name, _ := row["name"].(string)
		if name != "" {
			return fmt.Sprintf("%s: ₹%.2f pending", name, dues), true
		}
		return fmt.Sprintf("Pending dues: ₹%.2f", dues), true
	}
	if stock, ok := numericValue(row["stock_quantity"]); ok {
		name, _ := row["name"].(string)
		unit, _ := row["unit"].(string)
		if name == "" {
			name = "Product"
		}
		if unit == "" {
			unit = "units"
		}
		return fmt.Sprintf("%s: %g %s in stock", name, stock, unit), true
	}
	return "", false
}

func describeRow(row map[string]any) string {
	if name, ok := row["name"].(string); ok {
		if dues, ok := numericValue(row["total_dues"]); ok {
			return fmt.Sprintf("%s: ₹%.2f", name, dues)
		}
		if total, ok := numericValue(row["grand_total"]); ok {
			return fmt.Sprintf("%s: ₹%.2f", name, total)
		}
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		if row[k] != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 3 {
		keys = keys[:3]
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, row[k]))
	}
	return strings.Join(parts, ", ")
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(n, "%f", &parsed); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
