package cmd

import (
	"context"
	"encoding/json"
	"io"

	"inventory-reconciler/core/reconcile"
	"inventory-reconciler/feature/snapshots"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	diffTypes  []string
	diffSearch string
	diffSort   string
	diffLimit  int
)

// snapshotCmd is the parent command for snapshot operations.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Take, list and compare inventory snapshots",
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create [label]",
	Short: "Take a manual snapshot of the live inventory",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSnapshots(func(ctx context.Context, cmd *cobra.Command, svc *snapshots.Service, l *zap.Logger, args []string) error {
		label := ""
		if len(args) == 1 {
			label = args[0]
		}
		snap, err := svc.Create(ctx, label, false)
		if err != nil {
			return err
		}
		l.Info("Snapshot created", zap.String("id", snap.ID), zap.String("label", snap.Label), zap.Int("items", snap.ItemCount))
		return nil
	}),
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: withSnapshots(func(ctx context.Context, cmd *cobra.Command, svc *snapshots.Service, l *zap.Logger, args []string) error {
		snaps, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), snaps)
	}),
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two snapshots (use \"live\" for the live inventory)",
	Long: `Compares two snapshots and prints the diff as JSON. The earlier snapshot is
always the older side. The summary covers every item; --type, --search,
--sort and --limit only shape the rows.

Examples:
  snapshot diff 1f0c... live
  snapshot diff 1f0c... 9a2e... --type decreased,removed --sort abs_change`,
	Args: cobra.ExactArgs(2),
	RunE: withSnapshots(func(ctx context.Context, cmd *cobra.Command, svc *snapshots.Service, l *zap.Logger, args []string) error {
		opts := reconcile.DiffOptions{Search: diffSearch, Limit: diffLimit}
		for _, raw := range diffTypes {
			t, err := reconcile.ParseDiffType(raw)
			if err != nil {
				return err
			}
			opts.Types = append(opts.Types, t)
		}
		sortKey, err := reconcile.ParseSortKey(diffSort)
		if err != nil {
			return err
		}
		opts.Sort = sortKey

		result, err := svc.Diff(ctx, args[0], args[1], opts)
		if err != nil {
			return err
		}
		s := result.Summary
		l.Info("Diff summary",
			zap.String("older", result.Older.Label),
			zap.String("newer", result.Newer.Label),
			zap.Int("decreased", s.Decreased),
			zap.Int("increased", s.Increased),
			zap.Int("new", s.New),
			zap.Int("removed", s.Removed),
			zap.Int("unchanged", s.Unchanged),
			zap.Int("total_sold", s.TotalSold),
			zap.Int("total_added", s.TotalAdded),
		)
		return writeJSON(cmd.OutOrStdout(), result)
	}),
}

var snapshotTrendCmd = &cobra.Command{
	Use:   "trend [id...]",
	Short: "Print quantity sequences across snapshots (all when no id is given)",
	RunE: withSnapshots(func(ctx context.Context, cmd *cobra.Command, svc *snapshots.Service, l *zap.Logger, args []string) error {
		result, err := svc.Trend(ctx, args)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	}),
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: withSnapshots(func(ctx context.Context, cmd *cobra.Command, svc *snapshots.Service, l *zap.Logger, args []string) error {
		return svc.Delete(ctx, args[0])
	}),
}

func init() {
	snapshotDiffCmd.Flags().StringSliceVar(&diffTypes, "type", nil, "Row types to keep (new, removed, increased, decreased, unchanged)")
	snapshotDiffCmd.Flags().StringVar(&diffSearch, "search", "", "Keep rows whose id or name contains this text")
	snapshotDiffCmd.Flags().StringVar(&diffSort, "sort", "change", "Sort key: change, abs_change, item_id or name")
	snapshotDiffCmd.Flags().IntVar(&diffLimit, "limit", 0, "Row cap (0 uses the configured limit, negative disables it)")

	snapshotCmd.AddCommand(snapshotCreateCmd, snapshotListCmd, snapshotDiffCmd, snapshotTrendCmd, snapshotDeleteCmd)
	RootCmd.AddCommand(snapshotCmd)
}

type snapshotRun func(ctx context.Context, cmd *cobra.Command, svc *snapshots.Service, l *zap.Logger, args []string) error

// withSnapshots bootstraps the application and hands the snapshot service to fn.
func withSnapshots(fn snapshotRun) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		svc := snapshots.NewService(a.snapshots, a.items, a.client, a.cfg.Storage.Bucket, a.cfg.Snapshot, a.logger)
		svc.SetPublisher(a.events)
		return fn(context.Background(), cmd, svc, a.logger, args)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
