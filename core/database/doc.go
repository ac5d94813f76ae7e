// Package database handles database connections.
//
// It wraps GORM and selects a MySQL, PostgreSQL or SQLite dialector from the
// application's configuration. SQLite is the default for single-node installs
// and is what the test suites run against; MySQL or PostgreSQL is used for
// shared deployments.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
