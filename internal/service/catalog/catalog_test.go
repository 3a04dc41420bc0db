package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalePriceFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT selling_price FROM products").
		WithArgs(true, "shop-1", "%Milk%").
		WillReturnRows(sqlmock.NewRows([]string{"selling_price"}).AddRow(28.0))

	price, err := NewStore(db).SalePrice(context.Background(), "shop-1", "Milk")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 28.0, *price)
}

func TestSalePriceUnknownProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT selling_price FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"selling_price"}))

	price, err := NewStore(db).SalePrice(context.Background(), "shop-1", "Unobtainium")
	require.NoError(t, err)
	assert.Nil(t, price)
}

func TestSalePriceNilDB(t *testing.T) {
	price, err := NewStore(nil).SalePrice(context.Background(), "shop-1", "Milk")
	require.NoError(t, err)
	assert.Nil(t, price)
}
