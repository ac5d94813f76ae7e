// Package reconcile derives reconciliation values from canonical items and
// compares inventory state across time.
//
// Everything here is pure and read-only:
//
//   - Classify and OffBooks derive the stock status and the off-books count
//     of one item; Evaluate bundles both into an ItemState.
//   - Diff compares two snapshots (or a snapshot and LiveSnapshot) and
//     returns per-item rows plus a summary over the full diff.
//   - Trend joins any number of snapshots on item id into a sparse series.
//   - Velocity averages outbound movement from the transaction log.
//
// Because diffs of stored snapshots never change, DiffCache can hold them
// keyed by snapshot identity.
//
// # Usage Example
//
//	older, _ := snapshots.Get(ctx, "a")
//	newer, _ := snapshots.Get(ctx, "b")
//	result := reconcile.Diff(*older, *newer, reconcile.DiffOptions{Sort: reconcile.SortAbsChange})
//	fmt.Println(result.Summary.TotalSold)
package reconcile
