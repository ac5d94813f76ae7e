// Package events publishes inventory events (completed imports, stock
// adjustments, snapshot lifecycle) to Kafka so downstream systems can follow
// the inventory without polling it.
//
// Publishing is best effort: callers log a failed publish and carry on.
package events
