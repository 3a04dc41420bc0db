package query

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Engine{db: db}, mock
}

func TestDuesFor(t *testing.T) {
	engine, mock := newMockEngine(t)

	mock.ExpectQuery("SELECT name, total_dues FROM customers").
		WithArgs("shop-1", "%Raju%").
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_dues"}).
			AddRow("Raju Enterprises", 5200.0))

	result, err := engine.DuesFor(context.Background(), "shop-1", "Raju")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Text, "Raju Enterprises")
	assert.Contains(t, result.Text, "5200.00")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuesForNoMatch(t *testing.T) {
	engine, mock := newMockEngine(t)

	mock.ExpectQuery("SELECT name, total_dues FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_dues"}))

	result, err := engine.DuesFor(context.Background(), "shop-1", "Ghost")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Text, "No customer matching 'Ghost'")
}

func TestStockOf(t *testing.T) {
	engine, mock := newMockEngine(t)

	mock.ExpectQuery("SELECT name, stock_quantity, unit FROM products").
		WithArgs("shop-1", "%milk%").
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock_quantity", "unit"}).
			AddRow("Amul Milk 500ml", 42.0, "packet"))

	result, err := engine.StockOf(context.Background(), "shop-1", "milk")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Text, "42 packet in stock")
}

func TestSalesTotal(t *testing.T) {
	engine, mock := newMockEngine(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(grand_total\), 0\) AS total_sales FROM bills`).
		WillReturnRows(sqlmock.NewRows([]string{"total_sales"}).AddRow(15750.0))

	result, err := engine.SalesTotal(context.Background(), "shop-1", "today")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Text, "15750.00")
}

func TestSalesTotalNilDB(t *testing.T) {
	engine := &Engine{}

	result, err := engine.SalesTotal(context.Background(), "shop-1", "today")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Text, "not connected")
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), periodStart("today", now))
	assert.Equal(t, now.AddDate(0, 0, -7), periodStart("week", now))
	assert.Equal(t, now.AddDate(0, -1, 0), periodStart("month", now))
	// Unknown periods fall back to today.
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), periodStart("quarter", now))
}
