// Package metrics defines the Prometheus collectors of the reconciler and
// exposes them through Fiber.
//
// Collectors are registered on the default registry once at init. Features
// call the Record helpers; cmd mounts Handler at /metrics.
package metrics
