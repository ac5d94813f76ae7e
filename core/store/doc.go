// Package store defines the record-store contracts used by the reconciliation
// core and provides their GORM implementations.
//
// The core only relies on key-value semantics: items are keyed by ItemID,
// snapshots and transactions by generated ids. No query language leaks out of
// this package; filtering and sorting happen in the callers.
//
// GormItemStore additionally implements Replacer, which lets replace-mode
// merges swap the full inventory inside one database transaction.
package store
