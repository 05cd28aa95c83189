// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/florapress/bookshop/internal/config"
	"github.com/florapress/bookshop/internal/handler"
	"github.com/florapress/bookshop/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public catalog. Catalog GETs sit behind the
// Redis response cache when a client is available.
func RegisterRoutes(e *echo.Echo, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	books := e.Group("/v1/books")
	books.Use(middleware.ResponseCache(cacheCfg, rdb))
	books.GET("", handler.ListBooks)
	books.GET("/:slug", handler.GetBook)
}

// RegisterAuth registers account-related routes. Unauthenticated
// operations live under /v1/auth and are rate limited; the account
// view at /v1/account validates its session softly inside the handler
// so a stale cookie still renders an anonymous page.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	g.Use(middleware.RateLimit(rlCfg, rdb))
	g.POST("/create-account", a.CreateAccount)
	g.POST("/sign-in", a.SignIn)
	g.POST("/sign-out", a.SignOut)

	e.GET("/v1/account", a.Account)

	protected := e.Group("/v1/auth")
	protected.Use(middleware.SessionAuth(a.Cfg.JWTSecret))
	protected.DELETE("/account", a.DeleteAccount)
}

// RegisterCart registers the authenticated cart mutation endpoints.
func RegisterCart(e *echo.Echo, h *handler.CartHandler) {
	g := e.Group("/v1/cart")
	g.Use(middleware.SessionAuth(h.Cfg.JWTSecret))
	g.POST("/items/:slug", h.AddItem)
	g.DELETE("/items/:slug", h.RemoveItem)
	g.POST("/sync", h.Sync)
}

// RegisterCheckout registers checkout session creation (session
// authenticated) and the provider webhook (provider signed, so no
// session middleware).
func RegisterCheckout(e *echo.Echo, h *handler.CheckoutHandler) {
	co := e.Group("/v1/checkout")
	co.Use(middleware.SessionAuth(h.Cfg.JWTSecret))
	co.POST("", h.CreateSession)

	e.POST("/v1/webhook/payment", h.Webhook)
}

// RegisterDownloads registers the quota-gated file delivery endpoint.
func RegisterDownloads(e *echo.Echo, h *handler.DownloadHandler) {
	g := e.Group("/v1/downloads")
	g.Use(middleware.SessionAuth(h.Cfg.JWTSecret))
	g.GET("/:slug", h.Download)
}
