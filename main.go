package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/finbox-in/imagegen/http/routes"
	"github.com/finbox-in/imagegen/http/server"
	"github.com/finbox-in/imagegen/internal/pkg/config"
	"github.com/finbox-in/imagegen/internal/pkg/instrument"
	logger "github.com/finbox-in/imagegen/internal/pkg/logger"
	"github.com/finbox-in/imagegen/internal/pkg/metrics"
	"github.com/finbox-in/imagegen/internal/service/blob"
	"github.com/finbox-in/imagegen/internal/service/imagegen"
	"github.com/finbox-in/imagegen/internal/service/wkhtmltopdf"
)

func main() {
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := logger.NewProductionLogger(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	srv, err := initServer(cfg, l, metrics.NewMetricsRecorder(prometheus.DefaultRegisterer))
	if err != nil {
		l.Fatalf("Failed to initialise server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := start(ctx, cfg, srv, l); err != nil {
		l.Fatalf("Server stopped: %v", err)
	}
	l.Info("Server stopped")
}

func initServer(cfg config.Config, l *logger.Logger, prom *metrics.MetricsRecorder) (*server.ServerHandler, error) {
	registry := metrics.NewRegistry(l)

	store, err := blob.NewLocalStore(cfg.Blob.Dir, cfg.Blob.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	breakerCfg := blob.DefaultBreakerConfig()
	breakerCfg.FailureThreshold = cfg.Blob.BreakerTrip
	breakerCfg.MinRequests = cfg.Blob.BreakerMin
	breakerCfg.Timeout = cfg.Blob.BreakerOpen

	wkhtmltopdfService := wkhtmltopdf.InitWKHTMLtoPDFService(prom, blob.NewBreaker(store, breakerCfg, l), cfg.PDF.Bin)
	imageGenService := imagegen.InitImageGenService(cfg.RequiredEnv)

	if missing := imageGenService.MissingConfig(); len(missing) > 0 {
		l.Warnf("Image generation is not configured, missing: %v", missing)
	}

	return server.NewServerHandler(
		registry,
		instrument.Multi(registry, prom),
		imageGenService,
		wkhtmltopdfService,
		cfg.RequestTimeout,
	), nil
}

func start(ctx context.Context, cfg config.Config, s *server.ServerHandler, logger *logger.Logger) error {
	router := routes.NewRouter(logger, s, routes.RouterConfig{
		MaxBodyBytes: cfg.MaxBodyBytes,
		StaticDir:    cfg.Blob.Dir,
		Gatherer:     prometheus.DefaultGatherer,
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("Starting Image Generator on %s", cfg.Addr)
		logger.Info("Statistics available at /stats, health check at /health")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
