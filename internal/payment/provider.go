// Package payment talks to the hosted checkout provider. The Provider
// interface is what handlers depend on; the HTTP client implementing
// it is injected at startup so tests can substitute a fake.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// LineItem is one priced entry of a checkout session.
type LineItem struct {
	Name             string `json:"name"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Quantity         int    `json:"quantity"`
	Currency         string `json:"currency"`
}

// Provider creates hosted checkout sessions. The returned session id
// is opaque; the client redirects the buyer to the provider's hosted
// page using it.
type Provider interface {
	CreateSession(ctx context.Context, items []LineItem, successURL, cancelURL, reference string) (string, error)
}

// Client is the HTTP implementation of Provider.
type Client struct {
	apiURL    string
	secretKey string
	http      *http.Client
}

// NewClient returns a Client for the given provider endpoint. The
// secret key authenticates API calls (not to be confused with the
// webhook signing secret).
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		apiURL:    apiURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type createSessionRequest struct {
	LineItems  []LineItem `json:"line_items"`
	Mode       string     `json:"mode"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
	Reference  string     `json:"client_reference_id"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

// CreateSession asks the provider for a hosted checkout session
// carrying the given reference (the account id) so the completion
// callback can be traced back to the buyer.
func (c *Client) CreateSession(ctx context.Context, items []LineItem, successURL, cancelURL, reference string) (string, error) {
	body, err := json.Marshal(createSessionRequest{
		LineItems:  items,
		Mode:       "payment",
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Reference:  reference,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("payment provider response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("payment provider returned empty session id")
	}
	return out.ID, nil
}
