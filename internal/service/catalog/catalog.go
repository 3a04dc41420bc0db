package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store resolves product sale prices from the shop's catalog. The dialogue
// planner uses it to skip the price question for items the shop already
// prices; an unknown product simply means the user gets asked.
type Store struct {
	db *sql.DB
}

// NewStore wraps the shop database. A nil handle yields a store that never
// finds a price, which keeps the dialogue flow fully functional without a
// database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SalePrice returns the selling price of the best-matching active product,
// or nil when no product matches.
func (s *Store) SalePrice(ctx context.Context, userID, itemName string) (*float64, error) {
	if s.db == nil || itemName == "" {
		return nil, nil
	}

	statement, args, err := psql.
		Select("selling_price").
		From("products").
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		Where("deleted_at IS NULL").
		Where(sq.ILike{"name": "%" + itemName + "%"}).
		OrderBy("name").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build price query: %w", err)
	}

	var price float64
	if err := s.db.QueryRowContext(ctx, statement, args...).Scan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("price lookup failed: %w", err)
	}
	return &price, nil
}
