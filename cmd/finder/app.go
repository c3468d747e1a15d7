package main

import (
	"context"
	"errors"
	"time"

	"github.com/matst80/laser-finder/pkg/config"
	"github.com/matst80/laser-finder/pkg/messaging"
	"github.com/matst80/laser-finder/pkg/search"
	"github.com/matst80/laser-finder/pkg/server"
	"github.com/matst80/laser-finder/pkg/storage"
	"github.com/matst80/laser-finder/pkg/tracking"
	"github.com/matst80/laser-finder/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// refreshTimeout bounds a refresh triggered by a change notification.
const refreshTimeout = 30 * time.Second

type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	conn        *amqp.Connection
	source      storage.Source
	store       *storage.RecordStore
	refresher   *storage.Refresher
	searchIndex *search.FreeTextItemHandler
	preferences storage.PreferenceStore
	tracker     types.Tracking
	closers     []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	a.searchIndex = search.NewFreeTextItemHandler(search.DefaultFreeTextHandlerOptions())
	a.store = storage.NewRecordStore(a.searchIndex)

	if cfg.UsesDatabase() {
		pg, err := storage.NewPostgresSource(ctx, cfg.DatabaseUrl)
		if err != nil {
			return nil, err
		}
		a.source = pg
		a.closers = append(a.closers, func() error { pg.Close(); return nil })
		logger.Info("reading machines from postgres")
	} else {
		a.source = storage.NewHTTPSource(cfg.MachinesUrl)
		logger.Info("reading machines from http", zap.String("url", cfg.MachinesUrl))
	}

	a.refresher = &storage.Refresher{
		Source:  a.source,
		Store:   a.store,
		Disk:    storage.NewDiskStorage(cfg.DataDir),
		Limit:   cfg.FetchLimit,
		Logger:  logger,
		Observe: server.ObserveRefresh,
	}

	a.preferences = a.connectPreferences(ctx)
	a.tracker = a.connectTracking()
	return a, nil
}

func (a *app) connectPreferences(ctx context.Context) storage.PreferenceStore {
	if a.cfg.Redis.Url == "" {
		return storage.NewMemoryPreferences()
	}
	rdb := storage.NewRedisPreferences(a.cfg.Redis.Url, a.cfg.Redis.Password, a.cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		a.logger.Warn("redis unavailable, keeping preferences in memory", zap.Error(err))
		rdb.Close()
		return storage.NewMemoryPreferences()
	}
	a.closers = append(a.closers, rdb.Close)
	return rdb
}

func (a *app) connectTracking() types.Tracking {
	if a.cfg.Rabbit.Url != "" {
		trk, err := tracking.NewRabbitTracking(a.cfg.Rabbit.Url, a.cfg.Tracking.Context, a.logger)
		if err == nil {
			a.closers = append(a.closers, trk.Close)
			return trk
		}
		a.logger.Warn("failed to connect to rabbitmq for tracking", zap.Error(err))
	}
	return &tracking.LogTracking{Logger: a.logger}
}

// ConnectAmqp refreshes the machines on every machines_changed message.
func (a *app) ConnectAmqp(amqpUrl string) error {
	conn, err := amqp.DialConfig(amqpUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return err
	}
	a.conn = conn
	a.closers = append(a.closers, conn.Close)
	if err := messaging.ListenForMachineChanges(conn, a.logger, a.cfg.Rabbit.Prefix, refreshTimeout, a.refresher.Refresh); err != nil {
		return err
	}
	a.logger.Info("listening for machine changes", zap.String("prefix", a.cfg.Rabbit.Prefix))
	return nil
}

// Close releases connections in reverse order of creation.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
