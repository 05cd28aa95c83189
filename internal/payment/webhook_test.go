package payment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

func signedEvent(t *testing.T, ev Event) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body, Sign(webhookSecret, body)
}

func TestVerifyCallbackAcceptsValidSignature(t *testing.T) {
	body, sig := signedEvent(t, Event{
		ID:        "evt_1",
		Type:      EventCheckoutCompleted,
		Reference: "7",
	})

	ev, err := VerifyCallback(webhookSecret, body, sig)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "7", ev.Reference)
}

func TestVerifyCallbackRejectsTamperedBody(t *testing.T) {
	body, sig := signedEvent(t, Event{ID: "evt_1", Type: EventCheckoutCompleted, Reference: "7"})
	tampered := append([]byte{}, body...)
	tampered[len(tampered)-2] = 'x'

	_, err := VerifyCallback(webhookSecret, tampered, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyCallbackRejectsWrongSecret(t *testing.T) {
	body, _ := signedEvent(t, Event{ID: "evt_1", Type: EventCheckoutCompleted})
	sig := Sign("a-different-secret", body)

	_, err := VerifyCallback(webhookSecret, body, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyCallbackRejectsMissingFields(t *testing.T) {
	body, sig := signedEvent(t, Event{Reference: "7"}) // no id, no type
	_, err := VerifyCallback(webhookSecret, body, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyCallbackRejectsNonJSON(t *testing.T) {
	body := []byte("not json at all")
	_, err := VerifyCallback(webhookSecret, body, Sign(webhookSecret, body))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
