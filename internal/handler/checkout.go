package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/florapress/bookshop/internal/cart"
	"github.com/florapress/bookshop/internal/catalog"
	"github.com/florapress/bookshop/internal/config"
	"github.com/florapress/bookshop/internal/middleware"
	"github.com/florapress/bookshop/internal/payment"
	"github.com/florapress/bookshop/internal/queue"
	"github.com/florapress/bookshop/internal/repository"
	queue_publisher "github.com/florapress/bookshop/internal/service"
)

// CheckoutHandler drives the checkout session creation and the
// provider completion webhook. The payment provider is an injected
// interface so tests can run the whole flow against a fake.
type CheckoutHandler struct {
	Cfg       config.Config
	Users     *repository.UserRepo
	Carts     *repository.CartRepo
	Purchases *repository.PurchaseRepo
	Provider  payment.Provider
}

func NewCheckoutHandler(cfg config.Config, u *repository.UserRepo, c *repository.CartRepo, p *repository.PurchaseRepo, prov payment.Provider) *CheckoutHandler {
	return &CheckoutHandler{Cfg: cfg, Users: u, Carts: c, Purchases: p, Provider: prov}
}

// CreateSession builds a hosted checkout session from the active cart
// lines. Lines whose slug has left the catalog are dropped with a
// warning rather than failing the whole checkout; only an empty or
// fully-invalid cart is an error.
func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	uid, ok := middleware.SessionUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	items, err := h.Carts.GetCart(ctx, uid)
	if err != nil {
		c.Logger().Errorf("checkout: load cart: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}
	active := cart.Active(items)
	if len(active) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "your cart is empty"})
	}

	lineItems := make([]payment.LineItem, 0, len(active))
	for _, it := range active {
		book, found := catalog.FindBySlug(it.Slug)
		if !found {
			c.Logger().Warnf("checkout: book not found for slug %q, dropping line", it.Slug)
			continue
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:             book.Title,
			AmountMinorUnits: book.PriceMinorUnits,
			Quantity:         1,
			Currency:         "gbp",
		})
	}
	if len(lineItems) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid items in cart"})
	}

	sessionID, err := h.Provider.CreateSession(ctx, lineItems,
		h.Cfg.BaseURL+"/thank-you",
		h.Cfg.BaseURL+"/",
		strconv.FormatUint(uid, 10))
	if err != nil {
		c.Logger().Errorf("checkout: create provider session: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success", "session_id": sessionID})
}

// Webhook handles the provider's payment-completion callback. The raw
// body signature is verified against the shared webhook secret before
// anything else; unverified payloads are rejected outright. Completed
// checkouts drain the account's active cart into the purchase ledger.
//
// The provider delivers at least once, so everything past signature
// verification is idempotent: fulfillment keys on the provider event
// id and a redelivered event acks 200 without crediting again.
func (h *CheckoutHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	sig := c.Request().Header.Get(payment.SignatureHeader)

	ev, err := payment.VerifyCallback(h.Cfg.WebhookSecret, body, sig)
	if err != nil {
		c.Logger().Warnf("webhook: signature verification failed: %v", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
	}

	if ev.Type != payment.EventCheckoutCompleted {
		// Unhandled event types are acknowledged so the provider does
		// not keep retrying them.
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	uid, err := strconv.ParseUint(ev.Reference, 10, 64)
	if err != nil || uid == 0 {
		c.Logger().Errorf("webhook: event %s carries no usable reference: %q", ev.ID, ev.Reference)
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Account deleted between payment and callback; nothing to
			// credit. Logged, acked, not retried.
			c.Logger().Errorf("webhook: user %d not found for event %s", uid, ev.ID)
			return c.JSON(http.StatusOK, echo.Map{"received": true})
		}
		c.Logger().Errorf("webhook: load user %d: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "webhook processing failed"})
	}

	slugs, err := h.Purchases.Fulfill(ctx, ev.ID, uid, h.Cfg.DownloadQuota)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			return c.JSON(http.StatusOK, echo.Map{"received": true, "message": "already processed"})
		}
		c.Logger().Errorf("webhook: fulfill event %s: %v", ev.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "webhook processing failed"})
	}

	var total int64
	for _, s := range slugs {
		if b, found := catalog.FindBySlug(s); found {
			total += b.PriceMinorUnits
		}
	}

	// Best effort: a lost event only means a missing receipt line.
	if err := queue_publisher.PublishPurchaseCompleted(ctx, queue.PurchaseCompletedEvent{
		EventID:         uuid.NewString(),
		ProviderEventID: ev.ID,
		UserID:          uid,
		Email:           u.Email,
		Slugs:           slugs,
		TotalMinorUnits: total,
		CompletedAt:     time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		c.Logger().Warnf("webhook: publish purchase event: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
