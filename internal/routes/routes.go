package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/naija-connect/naija_connect/internal/account"
	"github.com/naija-connect/naija_connect/internal/auth"
	"github.com/naija-connect/naija_connect/internal/catalog"
	"github.com/naija-connect/naija_connect/internal/config"
	"github.com/naija-connect/naija_connect/internal/gateway"
	"github.com/naija-connect/naija_connect/internal/middleware"
	"github.com/naija-connect/naija_connect/internal/notification"
	"github.com/naija-connect/naija_connect/internal/recommend"
	"github.com/naija-connect/naija_connect/internal/store"
	"github.com/naija-connect/naija_connect/internal/vendor"
	"github.com/naija-connect/naija_connect/internal/wallet"
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
	if !d.Cfg.IsDev() {
		if d.Cfg.VendorBaseURL == "" || d.Cfg.VendorToken == "" {
			return fmt.Errorf("vendor credentials are required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cfg.GatewayBaseURL == "" {
			return fmt.Errorf("gateway base url is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Persistence backend: Postgres snapshot store when a database is
	// configured, the JSON file store otherwise.
	var (
		st  store.Store
		err error
	)
	if d.DB != nil {
		st, err = store.NewPostgresStore(context.Background(), d.DB)
	} else {
		st, err = store.NewFileStore(d.Cfg.StorePath)
	}
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// External connectors: simulated in dev, real HTTP clients otherwise.
	var (
		vendorClient  vendor.Client
		gatewayClient gateway.Client
	)
	if d.Cfg.VendorBaseURL != "" {
		vendorClient = vendor.NewHTTPClient(d.Cfg.VendorBaseURL, d.Cfg.VendorToken, d.Cfg.ExternalTimeout)
	} else {
		vendorClient = vendor.Static{}
	}
	if d.Cfg.GatewayBaseURL != "" {
		gatewayClient = gateway.NewHTTPClient(d.Cfg.GatewayBaseURL, d.Cfg.GatewaySecretKey, d.Cfg.CallbackURL, d.Cfg.ExternalTimeout)
	} else {
		gatewayClient = gateway.NewStatic()
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), d.Cfg.ExternalTimeout)
	defer cancel()
	cat := catalog.Load(loadCtx, vendorClient, d.Logger)

	accountSvc := account.NewService(st, d.Cfg.OTPLength, d.Cfg.OTPTTL, d.Logger)
	authSvc := auth.NewService(d.Cfg, accountSvc)
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(st, cat, vendorClient, gatewayClient, notifier, d.Cfg.MinAirtimeMinor, d.Logger)
	assistant := recommend.NewStaticAssistant(cat)

	accountHandler := account.NewHandler(accountSvc, d.Cfg.IsDev())
	authHandler := auth.NewHandler(accountSvc, authSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	recommendHandler := recommend.NewHandler(assistant, cat)

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterAccountRoutes(api, accountHandler)
	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, 5))
	RegisterCatalogRoutes(api, cat)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, accountSvc)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", func(c *fiber.Ctx) error {
		email, _ := c.Locals("email").(string)
		profile, err := accountSvc.Get(c.UserContext(), email)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "account not found")
		}
		return c.JSON(fiber.Map{
			"email":                profile.Email,
			"full_name":            profile.Name,
			"wallet_balance_minor": profile.BalanceMinor,
			"created_at":           profile.CreatedAt,
		})
	})

	RegisterRecommendRoutes(protected, recommendHandler)

	// Money-moving POSTs replay safely when Redis is configured. Routes
	// registered from here on sit behind the idempotency middleware.
	var moneyGroup fiber.Router = protected
	if d.Cache != nil {
		moneyGroup = protected.Group("", middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterWalletRoutes(protected, moneyGroup, walletHandler)

	return nil
}
