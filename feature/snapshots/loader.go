package snapshots

import (
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/storage"
	"inventory-reconciler/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service   *Service
	handler   *Handler
	scheduler *Scheduler
}

// NewFeature creates the snapshots feature.
func NewFeature(snapshots store.SnapshotStore, items store.ItemStore, client storage.Client, bucket string, cfg inventory.SnapshotConfig, logger *zap.Logger) *Feature {
	svc := NewService(snapshots, items, client, bucket, cfg, logger)
	f := &Feature{service: svc, handler: NewHandler(svc)}
	if cfg.AutoEnabled {
		f.scheduler = NewScheduler(svc, cfg, logger)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "snapshots"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the feature's service to the CLI.
func (f *Feature) Service() *Service {
	return f.service
}

// Scheduler returns the automatic snapshot scheduler, or nil when automatic
// snapshots are disabled.
func (f *Feature) Scheduler() *Scheduler {
	return f.scheduler
}
