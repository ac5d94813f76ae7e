package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-reconciler/core/loader"
	"inventory-reconciler/core/logger"
	"inventory-reconciler/core/metrics"
	"inventory-reconciler/core/middleware/auth"
	"inventory-reconciler/core/middleware/rayid"

	"inventory-reconciler/feature/items"
	"inventory-reconciler/feature/snapshots"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "inventory-reconciler/docs/swagger"
)

// @title Inventory Reconciler API
// @version 1.0
// @description API for ingesting stock feeds, classifying items and comparing inventory snapshots.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the inventory server",
	Long:  `Starts the HTTP server, the automatic snapshot scheduler and all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, database and storage
		a, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		if a.client == nil {
			logg.Info("Object storage disabled; feed, archive and export routes return 503")
		}

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             a.cfg.Server.BodyLimit(),
		})

		// 3. Features
		mgr := loader.NewManager(logg)
		itemsFeature := items.NewFeature(a.items, a.txs, a.client, a.cfg.Storage.Bucket, a.cfg.Inventory, logg)
		snapshotsFeature := snapshots.NewFeature(a.snapshots, a.items, a.client, a.cfg.Storage.Bucket, a.cfg.Snapshot, logg)
		itemsFeature.Service().SetPublisher(a.events)
		snapshotsFeature.Service().SetPublisher(a.events)
		mgr.Register(itemsFeature)
		mgr.Register(snapshotsFeature)

		// 4. Middleware: ray id first so every log line carries it
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			l := logger.WithRayID(logg, c)
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
				return err
			}
			l.Info("Request handled", fields...)
			return nil
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth protects everything registered below, except the scrape endpoint
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/metrics"}}))
		app.Get("/metrics", metrics.Handler())

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Automatic snapshots
		if sched := snapshotsFeature.Scheduler(); sched != nil {
			if err := sched.Start(); err != nil {
				logg.Fatal("Failed to start snapshot scheduler", zap.Error(err))
			}
			defer sched.Stop()
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(":" + a.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
