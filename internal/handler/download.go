package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/florapress/bookshop/internal/catalog"
	"github.com/florapress/bookshop/internal/config"
	"github.com/florapress/bookshop/internal/middleware"
	"github.com/florapress/bookshop/internal/repository"
)

// DownloadHandler streams purchased book files, spending one unit of
// the download quota per successful request.
type DownloadHandler struct {
	Cfg       config.Config
	Purchases *repository.PurchaseRepo
}

func NewDownloadHandler(cfg config.Config, p *repository.PurchaseRepo) *DownloadHandler {
	return &DownloadHandler{Cfg: cfg, Purchases: p}
}

// Download checks the ledger, decrements the quota and streams the
// file. The decrement commits before bytes leave the server: a
// transfer that dies mid-stream still cost one download. Books that
// were never purchased answer 404; an exhausted quota answers 403.
func (h *DownloadHandler) Download(c echo.Context) error {
	uid, ok := middleware.SessionUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	slug := c.Param("slug")
	if _, found := catalog.FindBySlug(slug); !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown book"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Purchases.SpendDownload(ctx, uid, slug); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotPurchased):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not purchased"})
		case errors.Is(err, repository.ErrQuotaExhausted):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no downloads remaining"})
		default:
			c.Logger().Errorf("download: spend quota: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "download failed"})
		}
	}

	path := filepath.Join(h.Cfg.BooksDir, slug+".pdf")
	if _, err := os.Stat(path); err != nil {
		c.Logger().Errorf("download: book file missing for slug %q: %v", slug, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "book file unavailable"})
	}
	return c.Attachment(path, slug+".pdf")
}
