package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/affipay/payout-api/internal/auth"
	"github.com/affipay/payout-api/internal/config"
	"github.com/affipay/payout-api/internal/identity"
	"github.com/affipay/payout-api/internal/middleware"
	"github.com/affipay/payout-api/internal/notification"
	"github.com/affipay/payout-api/internal/payout"
	"github.com/affipay/payout-api/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories fall back to memory implementations in dev without a DB.
	var (
		userRepo   identity.Repository
		payoutRepo payout.Repository
		walletRepo wallet.Repository
	)
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		payoutRepo = payout.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
		payoutRepo = payout.NewMemoryRepository()
		walletRepo = wallet.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(walletRepo, notifier)
	payoutSvc := payout.NewService(payoutRepo, walletSvc, d.Cfg.PageSize)
	payoutHandler := payout.NewHandler(payoutSvc)
	authorizer := auth.NewService(d.Cfg, userRepo)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.RateLimit(d.Cache, 60)
	adminOnly := middleware.AdminOnly(authorizer)
	RegisterPayoutRoutes(api, payoutHandler, rateLimiter, adminOnly)

	return nil
}
