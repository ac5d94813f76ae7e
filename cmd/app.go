package cmd

import (
	"context"
	"fmt"
	"time"

	"inventory-reconciler/core/config"
	"inventory-reconciler/core/database"
	"inventory-reconciler/core/events"
	"inventory-reconciler/core/logger"
	"inventory-reconciler/core/storage"
	"inventory-reconciler/core/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	client    storage.Client
	events    events.Publisher
	items     *store.GormItemStore
	snapshots *store.GormSnapshotStore
	txs       *store.GormTransactionStore
}

// bootstrap loads the configuration, connects the database and, when
// enabled, the object storage.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}
	l.Debug("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))

	a := &app{
		cfg:       cfg,
		logger:    l,
		db:        db,
		events:    events.Nop{},
		items:     store.NewGormItemStore(db),
		snapshots: store.NewGormSnapshotStore(db),
		txs:       store.NewGormTransactionStore(db),
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		a.client = client
	}

	if cfg.Events.Enabled {
		publisher, err := events.NewKafkaPublisher(cfg.Events, l)
		if err != nil {
			return nil, err
		}
		a.events = publisher
	}

	return a, nil
}

// close flushes the logger and releases the database and the event producer.
func (a *app) close() {
	if err := a.events.Close(); err != nil {
		a.logger.Warn("Failed to close event publisher", zap.Error(err))
	}
	_ = a.logger.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
