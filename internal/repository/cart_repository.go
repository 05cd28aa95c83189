package repository

import (
	"context"
	"database/sql"

	"github.com/florapress/bookshop/internal/model"
)

// CartRepo persists cart lines for accounts. Writes always replace the
// full row set for one account inside a transaction: concurrent
// requests against the same account converge to one request's snapshot
// (last writer wins) rather than interleaving individual lines.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// GetCart returns all cart lines for the account in insertion order.
func (r *CartRepo) GetCart(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT book_slug, removed FROM cart_items WHERE user_id=? ORDER BY added_at, book_slug",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.Slug, &it.Removed); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// SaveCart replaces the account's cart with the given snapshot. It
// satisfies cart.Persister so the cart store can push every mutation
// straight through.
func (r *CartRepo) SaveCart(ctx context.Context, userID uint64, items []model.CartItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID); err != nil {
		return err
	}
	if len(items) > 0 {
		query := "INSERT INTO cart_items (user_id, book_slug, removed) VALUES "
		args := make([]interface{}, 0, len(items)*3)
		for i, it := range items {
			if i > 0 {
				query += ","
			}
			query += "(?,?,?)"
			args = append(args, userID, it.Slug, it.Removed)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
