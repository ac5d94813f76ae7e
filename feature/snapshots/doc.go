// Package snapshots implements point-in-time copies of the inventory and
// the comparisons between them.
//
// Snapshots are immutable once taken. Diffs between two stored snapshots are
// cached by snapshot identity until one side is deleted; diffs against the
// live inventory are always recomputed.
//
// # Automatic snapshots
//
// The Scheduler takes at most one automatic snapshot per calendar day: once
// on start and then on the configured cron schedule.
//
// # HTTP Endpoints
//
//   - POST /snapshots : Take a manual snapshot.
//   - GET /snapshots : List snapshot headers, newest first.
//   - GET /snapshots/diff : Compare two snapshots (a, b, type, search, sort, limit).
//   - GET /snapshots/trend : Quantity sequences across snapshots (ids).
//   - GET|DELETE /snapshots/:id : Read or remove one snapshot.
package snapshots
