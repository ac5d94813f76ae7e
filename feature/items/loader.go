package items

import (
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/core/storage"
	"inventory-reconciler/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the items feature.
func NewFeature(items store.ItemStore, txs store.TransactionStore, client storage.Client, bucket string, cfg inventory.Config, logger *zap.Logger) *Feature {
	svc := NewService(items, txs, client, bucket, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "items"
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
