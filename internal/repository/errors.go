// Package repository implements MySQL persistence for accounts, carts
// and purchases. Sentinel errors defined here let handlers map failure
// scenarios onto HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEvent is returned by Fulfill when the provider event id
// has already been processed. The webhook handler acks such calls with
// 200 so the provider stops redelivering; no purchases are credited a
// second time.
var ErrDuplicateEvent = errors.New("event already processed")

// ErrNotPurchased is returned when a download is requested for a book
// the account never bought. Maps to HTTP 404.
var ErrNotPurchased = errors.New("book not purchased")

// ErrQuotaExhausted is returned when a purchased book has no downloads
// remaining. Maps to HTTP 403.
var ErrQuotaExhausted = errors.New("download quota exhausted")
