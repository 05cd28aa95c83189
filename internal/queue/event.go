// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// PurchaseCompletedEvent is published when fulfillment credits a
// purchase batch. It carries enough information for downstream
// consumers to log or send a receipt without querying the primary
// database.
type PurchaseCompletedEvent struct {
	EventID         string   `json:"event_id"`
	ProviderEventID string   `json:"provider_event_id"`
	UserID          uint64   `json:"user_id"`
	Email           string   `json:"email"`
	Slugs           []string `json:"slugs"`
	TotalMinorUnits int64    `json:"total_minor_units"`
	CompletedAt     string   `json:"completed_at"`
}
