package model

import "time"

// CartItem is one line of a shopping cart. A line is never physically
// deleted while the cart exists; removal flips the Removed flag so the
// item can still be shown (and revived) by the client. A cart holds at
// most one line per book slug.
//
// Fields:
//  Slug    – catalog slug of the book.
//  Removed – soft-delete flag; removed lines are excluded from totals
//            and checkout.
type CartItem struct {
	Slug    string `json:"slug"`              // cart_items.book_slug
	Removed bool   `json:"removed,omitempty"` // cart_items.removed
}

// PurchasedItem records one fulfilled cart line along with how many
// downloads the buyer has left for it.
//
// Fields:
//  Slug               – catalog slug of the purchased book.
//  DownloadsRemaining – downloads left; never negative.
//  PurchasedAt        – when fulfillment credited the purchase.
type PurchasedItem struct {
	Slug               string    `json:"slug"`                // purchases.book_slug
	DownloadsRemaining int       `json:"downloads_remaining"` // purchases.downloads_remaining
	PurchasedAt        time.Time `json:"purchased_at"`        // purchases.purchased_at
}
