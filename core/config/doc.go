// Package config provides configuration management for the inventory reconciler.
//
// It loads an optional .env file with godotenv and then reads every setting
// through Viper. Defaults come from the `default` struct tags of each
// partial configuration, and every key can be overridden by an environment
// variable named after its path (inventory.thresholds.low_stock becomes
// INVENTORY_THRESHOLDS_LOW_STOCK).
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, body limit
//   - Database: driver (mysql, postgres or sqlite) and connection details
//   - Storage: MinIO credentials and bucket
//   - Log: level and format
//   - Inventory: thresholds, exclusions (comma separated), default unit, strict import
//   - Snapshot: automatic snapshot schedule, archive flag, diff limit and cache TTL
//   - Events: Kafka brokers and topic for inventory events (off by default)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Inventory.Thresholds.LowStock)
package config
