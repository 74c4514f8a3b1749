// Package app wires configuration, storage, domain services and the HTTP
// server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/product"
	"github.com/xenking/order-capture/internal/fake"
	"github.com/xenking/order-capture/internal/handler"
	"github.com/xenking/order-capture/internal/storage/memory"
	"github.com/xenking/order-capture/internal/storage/postgres"
	"github.com/xenking/order-capture/pkg/health"
	"github.com/xenking/order-capture/pkg/httpmiddleware"
)

type storage struct {
	products  product.Repository
	customers customer.Repository
	close     func()
}

// openStorage selects PostgreSQL when a database URL is configured and the
// in-memory repositories otherwise.
func openStorage(ctx context.Context, lg *zap.Logger, cfg *Config, healthSvc *health.Health) (*storage, error) {
	if cfg.DatabaseURL == "" {
		products := memory.NewProductRepository(nil)
		f := gofakeit.New(cfg.SeedValue)
		for range cfg.SeedProducts {
			products.Seed(fake.NewProduct(f))
		}
		lg.Info("Using in-memory storage", zap.Int("seeded_products", cfg.SeedProducts))
		return &storage{
			products:  products,
			customers: memory.NewCustomerRepository(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	healthSvc.Add(health.Readiness, "postgres", 5*time.Second, health.PingCheck(pool))
	lg.Info("Using PostgreSQL storage")

	return &storage{
		products:  postgres.NewProductRepository(pool, nil),
		customers: postgres.NewCustomerRepository(pool),
		close:     pool.Close,
	}, nil
}

// newHandler builds the API and probe routes behind the middleware chain.
func newHandler(
	ctx context.Context,
	cfg *Config,
	store *storage,
	healthSvc *health.Health,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (http.Handler, error) {
	customers, err := customer.NewService(customer.ServiceConfig{
		TracerProvider: tp,
		MeterProvider:  mp,
	}, store.customers, store.products)
	if err != nil {
		return nil, errors.Wrap(err, "create customer service")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	handler.NewHandler(handler.HandlerConfig{Currency: cfg.Currency}, store.products, customers).Register(mux)

	return httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		func(next http.Handler) http.Handler {
			return otelhttp.NewHandler(next, "orders-api",
				otelhttp.WithTracerProvider(tp),
				otelhttp.WithMeterProvider(mp),
			)
		},
		httpmiddleware.LogRequests(),
	), nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("currency", cfg.Currency),
	)

	healthSvc := health.New()
	healthSvc.Add(health.Liveness, "goroutines", time.Second, health.GoroutineCountCheck(10000))

	store, err := openStorage(ctx, lg, cfg, healthSvc)
	if err != nil {
		return err
	}
	defer store.close()

	h, err := newHandler(ctx, cfg, store, healthSvc, m.TracerProvider(), m.MeterProvider())
	if err != nil {
		return err
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           h,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
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
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
