// Package inventory defines the canonical shapes shared by every reconciliation component.
//
// # Types
//
//   - Item: one stock-keeping unit, keyed by an immutable ItemID.
//   - Snapshot: an immutable, timestamped copy of the full item set.
//   - Transaction: an append-only quantity delta applied to one item.
//   - Thresholds: the four ascending cut points used for stock-status classification.
//
// # Errors
//
// The package also owns the error taxonomy surfaced by ingestion and merging:
// ValidationError (all row-level problems in one report), NotFoundError (a record
// absent from a store) and PartialFailureError (a replace-mode merge that cleared the
// store but could not repopulate it).
package inventory
