package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/matst80/laser-finder/pkg/common"
	"github.com/matst80/laser-finder/pkg/config"
	"github.com/matst80/laser-finder/pkg/logging"
	"github.com/matst80/laser-finder/pkg/pipeline"
	"github.com/matst80/laser-finder/pkg/server"
	"github.com/matst80/laser-finder/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("finder stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if n, err := a.refresher.Restore(); err != nil {
		logger.Info("no machine snapshot to restore", zap.Error(err))
	} else {
		logger.Info("serving restored snapshot until the first refresh", zap.Int("machines", n))
	}

	if cfg.Rabbit.Url != "" {
		if err := a.ConnectAmqp(cfg.Rabbit.Url); err != nil {
			logger.Warn("failed to connect to rabbitmq, change notifications disabled", zap.Error(err))
		}
	}

	ws := &server.WebServer{
		Store:       a.store,
		Search:      a.searchIndex,
		Pipeline:    pipeline.New(server.MetricsDiagnostics{}, pipeline.LogDiagnostics{Logger: logger}),
		Preferences: a.preferences,
		Refresher:   a.refresher,
		Tracking:    a.tracker,
		Logger:      logger,
		JwtSecret:   []byte(cfg.Admin.JwtSecret),
	}
	if cfg.Admin.JwtSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET is not set, /api/refresh rejects every request")
	}

	timeouts := common.LoadTimeoutConfig(common.DefaultTimeoutConfig())
	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    cfg.ListenAddress,
		Handler: ws.Handler(),
	}, timeouts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return common.RunServerWithShutdown(gctx, logger, srv, "laser finder", timeouts.Shutdown, timeouts.Hook, a.Close)
	})
	g.Go(func() error {
		// a failed initial load is served as the error state, not a crash
		_, err := a.refresher.Refresh(gctx)
		if err != nil && !errors.Is(err, storage.ErrSuperseded) && !errors.Is(err, context.Canceled) {
			logger.Error("initial machine load failed", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}
