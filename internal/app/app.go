// Package app wires the stores, services, and HTTP server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/your-org/discount-cart/internal/domain/admin"
	"github.com/your-org/discount-cart/internal/domain/cart"
	"github.com/your-org/discount-cart/internal/domain/discount"
	"github.com/your-org/discount-cart/internal/domain/order"
	"github.com/your-org/discount-cart/internal/handler"
	"github.com/your-org/discount-cart/internal/seed"
	"github.com/your-org/discount-cart/internal/storage/memory"
	"github.com/your-org/discount-cart/pkg/health"
	"github.com/your-org/discount-cart/pkg/httpmiddleware"
)

// Version is the service version reported by the root endpoint.
const Version = "1.0.0"

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// In-memory stores; state lives for the lifetime of the process.
	catalogStore := memory.NewCatalogStore()
	cartStore := memory.NewCartStore()
	ledger := memory.NewDiscountLedger()
	orderLog := memory.NewOrderLog()

	items := seed.Items()
	if cfg.Catalog.SeedFile != "" {
		loaded, err := seed.Load(cfg.Catalog.SeedFile)
		if err != nil {
			return errors.Wrap(err, "load catalog seed")
		}
		items = loaded
	}
	if err := catalogStore.Reseed(ctx, items); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	lg.Info("Catalog seeded",
		zap.Int("items", len(items)),
		zap.Int("nth_order", cfg.Discount.NthOrder),
	)

	// Domain services.
	issuer := discount.NewIssuer(ledger, cfg.Discount.CodePrefix)
	cartSvc := cart.NewService(catalogStore, cartStore)
	checkoutSvc := order.NewService(catalogStore, cartStore, ledger, issuer, orderLog, order.Config{
		NthOrder:        cfg.Discount.NthOrder,
		DiscountPercent: cfg.Discount.Percent,
	})
	adminSvc := admin.NewService(orderLog, ledger, issuer, cfg.Discount.NthOrder)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("catalog", time.Second, func(ctx context.Context) error {
		seeded, err := catalogStore.List(ctx)
		if err != nil {
			return err
		}
		if len(seeded) == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	})
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	h := handler.NewHandler(cartSvc, checkoutSvc, adminSvc, Version)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("discount-cart-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown: drain readiness first, then stop the server.
		<-gCtx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})

	return g.Wait()
}
