package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/foodnow-connect-demo/internal/config"
	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/ports"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/core/service"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/adapters/platform"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/adapters/registry"
	"github.com/jcmexdev/foodnow-connect-demo/internal/dashboard/infra/httpx"
	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/cache"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pkg/telemetry"
	"github.com/jcmexdev/foodnow-connect-demo/internal/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.InitLogger("info")
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OtelEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, cfg.OtelServiceName)
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	payments, err := newPlatform(cfg)
	if err != nil {
		slog.Error("failed to initialise payments platform", "error", err)
		os.Exit(1)
	}

	policy, err := cfg.PricingPolicy()
	if err != nil {
		slog.Error("invalid pricing policy", "error", err)
		os.Exit(1)
	}
	calc, err := pricing.NewCalculator(policy)
	if err != nil {
		slog.Error("invalid pricing policy", "error", err)
		os.Exit(1)
	}

	// The journal is optional; leave both interfaces nil when disabled.
	var (
		journal       sagalog.Repository
		journalReader sagalog.Reader
	)
	if cfg.JournalPath != "" {
		repo, err := sqlite.Open(cfg.JournalPath)
		if err != nil {
			slog.Error("failed to open orchestration journal", "path", cfg.JournalPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		journal, journalReader = repo, repo
		slog.Info("orchestration journal enabled", "path", cfg.JournalPath)
	}

	var kv cache.Cache
	if cfg.RedisAddr != "" {
		kv = cache.NewRedisCache(cfg.RedisAddr, "dashboard")
		slog.Info("demo account registry backed by redis", "addr", cfg.RedisAddr)
	} else {
		kv = cache.NewMemoryCache("dashboard")
	}

	logs := eventlog.NewBuffer(cfg.LogCapacity)
	svc := service.New(payments, calc, logs, registry.New(kv, cfg.DemoAccounts()), journal, service.Options{
		Currency:                cfg.Currency,
		OrderID:                 cfg.DemoOrderID,
		DefaultAmount:           cfg.DemoAmount,
		BaseURL:                 cfg.BaseURL,
		RequirePaymentSucceeded: cfg.RequirePaymentSucceeded,
	})

	router := httpx.NewRouter(httpx.NewHandler(svc, logs, journalReader, cfg.BaseURL), httpx.RouterOptions{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		ServiceName:    cfg.OtelServiceName,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("dashboard api running",
			"addr", srv.Addr,
			"payments_mode", cfg.PaymentsMode,
			"pricing_mode", policy.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}

func newPlatform(cfg *config.Config) (ports.PaymentsPlatform, error) {
	if cfg.PaymentsMode == config.PaymentsModeStripe {
		return platform.NewStripePlatform(cfg.StripeSecretKey)
	}

	sb := platform.NewSandbox()
	// The configured demo accounts are ready to receive transfers.
	sb.Seed(
		entity.ConnectedAccount{ID: cfg.DemoRestaurantAccountID, Type: entity.AccountTypeRestaurant, DetailsSubmitted: true, ChargesEnabled: true, PayoutsEnabled: true},
		entity.ConnectedAccount{ID: cfg.DemoCourierAccountID, Type: entity.AccountTypeCourier, DetailsSubmitted: true, ChargesEnabled: true, PayoutsEnabled: true},
	)
	slog.Warn("no payments provider configured, using in-memory sandbox")
	return sb, nil
}
