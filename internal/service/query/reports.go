package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Canned reports back the check_dues / check_stock / check_sales intents.
// They hit fixed queries instead of the LLM, so they keep working when the
// model is down and never produce surprising SQL.

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DuesFor returns the pending balance for customers matching the name.
func (e *Engine) DuesFor(ctx context.Context, userID, customerName string) (Result, error) {
	if e.db == nil {
		return Result{Text: "Business data is not connected right now."}, nil
	}

	statement, args, err := psql.
		Select("name", "total_dues").
		From("customers").
		Where(sq.Eq{"user_id": userID}).
		Where("deleted_at IS NULL").
		Where(sq.ILike{"name": "%" + customerName + "%"}).
		OrderBy("total_dues DESC").
		Limit(5).
		ToSql()
	if err != nil {
		return Result{}, fmt.Errorf("failed to build dues query: %w", err)
	}

	rows, err := e.queryRows(ctx, statement, args...)
	if err != nil {
		return Result{}, fmt.Errorf("dues query failed: %w", err)
	}
	if len(rows) == 0 {
		return Result{Success: true, Text: fmt.Sprintf("No customer matching '%s' found.", customerName)}, nil
	}

	return Result{Success: true, Text: FormatRows(rows, "Pending dues"), Rows: rows}, nil
}

// StockOf returns the inventory level for products matching the name.
func (e *Engine) StockOf(ctx context.Context, userID, productName string) (Result, error) {
	if e.db == nil {
		return Result{Text: "Business data is not connected right now."}, nil
	}

	statement, args, err := psql.
		Select("name", "stock_quantity", "unit").
		From("products").
		Where(sq.Eq{"user_id": userID}).
		Where("deleted_at IS NULL").
		Where(sq.ILike{"name": "%" + productName + "%"}).
		Limit(5).
		ToSql()
	if err != nil {
		return Result{}, fmt.Errorf("failed to build stock query: %w", err)
	}

	rows, err := e.queryRows(ctx, statement, args...)
	if err != nil {
		return Result{}, fmt.Errorf("stock query failed: %w", err)
	}
	if len(rows) == 0 {
		return Result{Success: true, Text: fmt.Sprintf("No product matching '%s' found.", productName)}, nil
	}

	return Result{Success: true, Text: FormatRows(rows, "Stock"), Rows: rows}, nil
}

// SalesTotal returns the grand total of bills for the period: today, week
// or month. Unknown periods fall back to today.
func (e *Engine) SalesTotal(ctx context.Context, userID, period string) (Result, error) {
	if e.db == nil {
		return Result{Text: "Business data is not connected right now."}, nil
	}

	since := periodStart(period, time.Now().UTC())

	statement, args, err := psql.
		Select("COALESCE(SUM(grand_total), 0) AS total_sales").
		From("bills").
		Where(sq.Eq{"user_id": userID}).
		Where("deleted_at IS NULL").
		Where(sq.GtOrEq{"bill_date": since}).
		ToSql()
	if err != nil {
		return Result{}, fmt.Errorf("failed to build sales query: %w", err)
	}

	rows, err := e.queryRows(ctx, statement, args...)
	if err != nil {
		return Result{}, fmt.Errorf("sales query failed: %w", err)
	}

	return Result{Success: true, Text: FormatRows(rows, "Total sales"), Rows: rows}, nil
}

func periodStart(period string, now time.Time) time.Time {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	default: // today
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func (e *Engine) queryRows(ctx context.Context, statement string, args ...any) ([]map[string]any, error) {
	rows, err := e.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return flattenRows(rows)
}

func flattenRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, 8)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
