// Package server holds the HTTP server configuration.
//
// The cmd package reads Port, ApiKey and BodyLimit when it builds the Fiber
// application; nothing else depends on it.
package server
