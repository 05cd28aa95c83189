package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/florapress/bookshop/internal/cart"
	"github.com/florapress/bookshop/internal/catalog"
	"github.com/florapress/bookshop/internal/config"
	"github.com/florapress/bookshop/internal/middleware"
	"github.com/florapress/bookshop/internal/model"
	"github.com/florapress/bookshop/internal/repository"
)

// CartHandler serves the authenticated cart operations. Anonymous
// visitors keep their cart client-side; only signed-in accounts reach
// these endpoints.
type CartHandler struct {
	Cfg   config.Config
	Carts *repository.CartRepo
}

func NewCartHandler(cfg config.Config, c *repository.CartRepo) *CartHandler {
	return &CartHandler{Cfg: cfg, Carts: c}
}

type syncCartReq struct {
	Cart []model.CartItem `json:"cart"`
}

func (h *CartHandler) respondCart(c echo.Context, status int, msgStatus, msg string, items []model.CartItem) error {
	return c.JSON(status, echo.Map{
		"status":  msgStatus,
		"message": msg,
		"cart":    resolveCart(items),
	})
}

func (h *CartHandler) loadStore(ctx context.Context, uid uint64) (*cart.Store, error) {
	items, err := h.Carts.GetCart(ctx, uid)
	if err != nil {
		return nil, err
	}
	return cart.NewStore(uid, items, h.Carts), nil
}

// AddItem puts the book in the cart as an active line. Re-adding an
// item that is already active is a no-op answered with an info status,
// as is an unknown slug; neither is worth failing a page interaction
// over.
func (h *CartHandler) AddItem(c echo.Context) error {
	uid, ok := middleware.SessionUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	slug := c.Param("slug")
	if _, found := catalog.FindBySlug(slug); !found {
		return c.JSON(http.StatusOK, echo.Map{"status": "info", "message": "unknown book"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.loadStore(ctx, uid)
	if err != nil {
		c.Logger().Errorf("add to cart: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	if st.IsActive(slug) {
		return h.respondCart(c, http.StatusOK, "info", "book is already in cart", st.Items())
	}
	if err := st.AddItem(ctx, slug); err != nil {
		if errors.Is(err, cart.ErrPersist) {
			c.Logger().Errorf("add to cart: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save cart failed"})
		}
		return err
	}
	return h.respondCart(c, http.StatusOK, "success", "book added to cart", st.Items())
}

// RemoveItem soft-removes the book from the cart. Removing something
// that was never there is an info no-op.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	uid, ok := middleware.SessionUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.loadStore(ctx, uid)
	if err != nil {
		c.Logger().Errorf("remove from cart: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cart failed"})
	}
	if !st.IsActive(slug) {
		return h.respondCart(c, http.StatusOK, "info", "book is not in cart", st.Items())
	}
	if err := st.RemoveItem(ctx, slug); err != nil {
		if errors.Is(err, cart.ErrPersist) {
			c.Logger().Errorf("remove from cart: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save cart failed"})
		}
		return err
	}
	return h.respondCart(c, http.StatusOK, "success", "book removed from cart", st.Items())
}

// Sync replaces the account cart with the posted snapshot. Every line
// must reference a catalog book; otherwise the whole sync is rejected
// with the offending slugs listed, matching the all-or-nothing contract
// of a wholesale replace.
func (h *CartHandler) Sync(c echo.Context) error {
	uid, ok := middleware.SessionUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req syncCartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var invalid []string
	for _, it := range req.Cart {
		if _, found := catalog.FindBySlug(it.Slug); !found {
			invalid = append(invalid, it.Slug)
		}
	}
	if len(invalid) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid book slugs: " + strings.Join(invalid, ", "),
		})
	}

	// Merging against an empty server cart collapses duplicate slugs in
	// the posted snapshot without changing anything else.
	items := cart.Merge(req.Cart, nil)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.SaveCart(ctx, uid, items); err != nil {
		c.Logger().Errorf("sync cart: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save cart failed"})
	}
	return h.respondCart(c, http.StatusOK, "success", "cart synchronized", items)
}
