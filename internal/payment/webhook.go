package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// SignatureHeader carries the provider's signature over the raw
// callback body.
const SignatureHeader = "X-Payment-Signature"

// EventCheckoutCompleted is the only event type fulfillment acts on.
const EventCheckoutCompleted = "checkout.completed"

// ErrInvalidSignature is returned when a callback's signature does not
// match the shared webhook secret. The webhook handler fails closed on
// it with HTTP 400.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event is a payment-provider callback payload. Reference echoes the
// client_reference_id set when the session was created (the account
// id); ID is the provider-assigned event id used for deduplication.
type Event struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Reference string     `json:"client_reference_id"`
	LineItems []LineItem `json:"line_items"`
}

// Sign computes the hex HMAC-SHA256 of body under secret. The provider
// uses the same scheme, so tests (and a provider simulator) can produce
// valid callbacks with it.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks the signature over the raw body and, only if
// it matches, decodes the event. Signature comparison is constant
// time. Any failure yields ErrInvalidSignature so callers cannot act
// on an unauthenticated payload by accident.
func VerifyCallback(secret string, body []byte, signature string) (Event, error) {
	expected := Sign(secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return Event{}, ErrInvalidSignature
	}
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, ErrInvalidSignature
	}
	if ev.ID == "" || ev.Type == "" {
		return Event{}, ErrInvalidSignature
	}
	return ev, nil
}
