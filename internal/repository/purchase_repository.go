package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/florapress/bookshop/internal/model"
)

// PurchaseRepo owns the purchased-items ledger: crediting purchases at
// fulfillment time and spending download quota.
type PurchaseRepo struct{ DB *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{DB: db} }

// ListByUser returns the account's purchases, newest first.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID uint64) ([]model.PurchasedItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT book_slug, downloads_remaining, purchased_at FROM purchases WHERE user_id=? ORDER BY purchased_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.PurchasedItem{}
	for rows.Next() {
		var it model.PurchasedItem
		if err := rows.Scan(&it.Slug, &it.DownloadsRemaining, &it.PurchasedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Fulfill converts the account's active cart lines into ledger rows
// with the given download quota and empties the cart, all within one
// transaction keyed by the provider's event id. Inserting the event id
// first makes redelivery harmless: a duplicate key aborts the whole
// transaction with ErrDuplicateEvent and nothing is credited twice.
// The credited slugs are returned for event publishing and logging.
func (r *PurchaseRepo) Fulfill(ctx context.Context, eventID string, userID uint64, quota int) ([]string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO webhook_events (event_id) VALUES (?)", eventID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrDuplicateEvent
		}
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT book_slug FROM cart_items WHERE user_id=? AND removed=0 ORDER BY added_at, book_slug",
		userID)
	if err != nil {
		return nil, err
	}
	slugs := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			rows.Close()
			return nil, err
		}
		slugs = append(slugs, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(slugs) > 0 {
		query := "INSERT INTO purchases (user_id, book_slug, downloads_remaining) VALUES "
		args := make([]interface{}, 0, len(slugs)*3)
		for i, s := range slugs {
			if i > 0 {
				query += ","
			}
			query += "(?,?,?)"
			args = append(args, userID, s, quota)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, err
		}
	}

	// The whole cart is drained, removed lines included: a completed
	// checkout ends the shopping session.
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return slugs, nil
}

// SpendDownload decrements the download quota for one purchased book by
// exactly 1. The conditional UPDATE keeps the counter from ever going
// below zero even under concurrent downloads. When no row changes the
// method distinguishes "never bought" (ErrNotPurchased) from "used up"
// (ErrQuotaExhausted).
func (r *PurchaseRepo) SpendDownload(ctx context.Context, userID uint64, slug string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE purchases SET downloads_remaining = downloads_remaining - 1
		 WHERE user_id=? AND book_slug=? AND downloads_remaining > 0
		 ORDER BY downloads_remaining DESC LIMIT 1`,
		userID, slug)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var count int
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM purchases WHERE user_id=? AND book_slug=?",
		userID, slug).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if count == 0 {
		return ErrNotPurchased
	}
	return ErrQuotaExhausted
}
