package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orderlens/backend/config"
	httpDelivery "github.com/orderlens/backend/internal/delivery/http"
	"github.com/orderlens/backend/internal/domain"
	"github.com/orderlens/backend/internal/infrastructure/dictionary"
	"github.com/orderlens/backend/internal/infrastructure/logging"
	"github.com/orderlens/backend/internal/infrastructure/metrics"
	"github.com/orderlens/backend/internal/infrastructure/session"
	"github.com/orderlens/backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orderlens: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadFile(os.Getenv("ORDERLENS_CONFIG"))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, !cfg.Server.IsProduction())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting OrderLens backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// Keyword dictionary
	dict, err := dictionary.LoadFile(cfg.Dictionary.Path, cfg.Dictionary.Format)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	provider := dictionary.NewProvider(dict)
	logger.Info("dictionary loaded",
		zap.String("source", dict.Source()),
		zap.Int("menu", dict.Category(domain.CategoryMenu).Len()))

	// Infrastructure
	store := session.NewMemoryStore(session.MemoryStoreConfig{
		TTL:             cfg.Session.TTL,
		CleanupInterval: cfg.Session.CleanupInterval,
	})
	defer store.Close()

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)
	recorder.TrackSessions(prometheus.DefaultRegisterer, store.Size)

	// Usecase layer
	orders := usecase.NewOrderService(store, provider, recorder, usecase.OrderServiceConfig{
		Match: usecase.MatchConfig{
			Threshold:          cfg.Matching.Threshold,
			Policy:             usecase.MatchPolicy(cfg.Matching.Policy),
			EnableDebugLogging: cfg.Matching.Debug,
		},
		Accumulator: usecase.AccumulatorConfig{
			Defaults: usecase.Defaults{
				Temperature:   cfg.Defaults.Temperature,
				Size:          cfg.Defaults.Size,
				CaffeineLevel: cfg.Defaults.CaffeineLevel,
				Quantity:      cfg.Defaults.Quantity,
				Amount:        cfg.Defaults.Amount,
			},
			Tokenized: cfg.Matching.Tokenized,
		},
		MaxUtteranceRunes: cfg.Matching.MaxUtteranceRunes,
		TurnTimeout:       cfg.Matching.TurnTimeout,
	}, logger)

	logger.Info("matching configured",
		zap.Float64("threshold", cfg.Matching.Threshold),
		zap.String("policy", cfg.Matching.Policy),
		zap.Bool("tokenized", cfg.Matching.Tokenized))

	handler := httpDelivery.NewHandler(orders, provider, logger)
	router := httpDelivery.SetupRouter(cfg, handler, promhttp.Handler(), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Dictionary.Watch {
		watcher := dictionary.NewWatcher(
			cfg.Dictionary.Path,
			cfg.Dictionary.Format,
			provider,
			cfg.Dictionary.Debounce,
			recorder.ObserveReload,
			logger,
		)
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	return g.Wait()
}
