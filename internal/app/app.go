package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shopaholics/internal/advisor"
	"github.com/xenking/shopaholics/internal/csvio"
	"github.com/xenking/shopaholics/internal/domain/cart"
	"github.com/xenking/shopaholics/internal/domain/catalog"
	"github.com/xenking/shopaholics/internal/domain/insights"
	"github.com/xenking/shopaholics/internal/handler"
	"github.com/xenking/shopaholics/internal/storage/backend"
	"github.com/xenking/shopaholics/pkg/health"
	"github.com/xenking/shopaholics/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	stores, err := backend.Open(ctx, cfg.StorageURL)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer stores.Close()

	healthSvc := health.New(lg.Named("health"))
	healthSvc.AddReadinessCheck(stores.Scheme, 5*time.Second, health.PingCheck(stores))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	defer healthSvc.Stop()

	adv, err := newAdvisor(ctx, lg, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}

	// Domain services.
	catalogSvc, err := catalog.NewService(stores.Products, csvio.NewImporter(), m.MeterProvider().Meter("shopaholics/catalog"))
	if err != nil {
		return errors.Wrap(err, "create catalog service")
	}
	cartStore := cart.NewStore(stores.KV)
	if err := cartStore.Load(ctx); err != nil {
		return errors.Wrap(err, "load cart")
	}
	insightsSvc := insights.NewService(stores.Products, cartStore, adv)
	chats := advisor.NewSessions(adv, cfg.MaxChats)

	h := handler.New(
		handler.Config{MaxImportBytes: cfg.MaxImportBytes},
		catalogSvc,
		cartStore,
		insightsSvc,
		chats,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       30 * time.Second,
		// Insights and chat wait on the hosted model.
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Addr:           cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(lg),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
				ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Rate:  cfg.RateLimit.Rate,
				Burst: cfg.RateLimit.Burst,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(lg),
			httpmiddleware.Instrument("shopaholics-api", m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}
	healthSvc.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	// Graceful shutdown: stop advertising readiness, drain, then stop.
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		if ctx.Err() != nil {
			lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
			time.Sleep(cfg.Graceful.ReadinessDelay)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}

// newAdvisor returns an advisor backed by Gemini when apiKey is set, and a
// mock advisor otherwise.
func newAdvisor(ctx context.Context, lg *zap.Logger, apiKey string) (*advisor.Advisor, error) {
	if apiKey == "" {
		lg.Warn("No Gemini API key configured, advisor runs in mock mode")
		return advisor.New(nil), nil
	}
	b, err := advisor.NewGeminiBackend(ctx, apiKey)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini backend")
	}
	return advisor.New(b), nil
}
