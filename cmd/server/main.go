package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/florapress/bookshop/internal/config"
	"github.com/florapress/bookshop/internal/database"
	"github.com/florapress/bookshop/internal/handler"
	"github.com/florapress/bookshop/internal/payment"
	"github.com/florapress/bookshop/internal/queue"
	"github.com/florapress/bookshop/internal/repository"
	"github.com/florapress/bookshop/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables caching and rate limiting
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	carts := repository.NewCartRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	provider := payment.NewClient(cfg.PaymentURL, cfg.PaymentSecret)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e, config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, carts, purchases), config.LoadRateLimitConfig(), rdb)
	router.RegisterCart(e, handler.NewCartHandler(cfg, carts))
	router.RegisterCheckout(e, handler.NewCheckoutHandler(cfg, users, carts, purchases, provider))
	router.RegisterDownloads(e, handler.NewDownloadHandler(cfg, purchases))

	// Receipt consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartPurchaseConsumer(); err != nil {
			log.Printf("purchase consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
