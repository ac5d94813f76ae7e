package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"inventory-reconciler/core/ingest"
	"inventory-reconciler/core/inventory"
	"inventory-reconciler/feature/items"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importMode    string
	importStrict  bool
	importExclude []string
	importFeed    bool
)

// importCmd imports a CSV feed into the inventory.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV stock feed",
	Long: `Parses a delimited stock feed and merges it into the inventory.

Modes:
  update   overwrite the quantity of known items and add unknown ones (default)
  replace  make the inventory hold exactly the feed

Examples:
  # Update quantities from a local file
  import stock.csv

  # Replace the whole inventory, rejecting the feed on any bad row
  import stock.csv --mode replace --strict

  # Skip test and sample items
  import stock.csv --exclude "-TEST" --exclude "sample"

  # Import a feed stored in the bucket under feeds/
  import monday.csv --from-storage`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importMode, "mode", "update", "Merge mode: update or replace")
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "Reject the whole feed when any row is invalid")
	importCmd.Flags().StringSliceVar(&importExclude, "exclude", nil, "Additional literal exclusion patterns")
	importCmd.Flags().BoolVar(&importFeed, "from-storage", false, "Read the feed from the storage bucket")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	mode, err := ingest.ParseMode(importMode)
	if err != nil {
		return err
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	invCfg := a.cfg.Inventory
	invCfg.Exclusions = append(invCfg.Exclusions, importExclude...)
	svc := items.NewService(a.items, a.txs, a.client, a.cfg.Storage.Bucket, invCfg, a.logger)
	svc.SetPublisher(a.events)

	opts := items.ImportOptions{Mode: mode}
	if cmd.Flags().Changed("strict") {
		opts.Strict = &importStrict
	}

	var report *ingest.Report
	if importFeed {
		report, err = svc.ImportFeed(ctx, args[0], opts)
	} else {
		f, openErr := os.Open(args[0])
		if openErr != nil {
			return fmt.Errorf("failed to open feed: %w", openErr)
		}
		defer f.Close()
		report, err = svc.Import(ctx, f, opts)
	}

	if report != nil {
		printImportReport(a.logger, report)
	}

	var perr *inventory.PartialFailureError
	if errors.As(err, &perr) {
		a.logger.Error("The inventory is partially populated; re-run the import to restore it",
			zap.Int("inserted", perr.Inserted),
			zap.Int("total", perr.Total),
		)
	}
	return err
}

// printImportReport logs the import counters and a sample of row problems.
func printImportReport(l *zap.Logger, report *ingest.Report) {
	m := report.Meta
	l.Info("Import report",
		zap.Int("total_rows", m.TotalRows),
		zap.Int("valid_rows", m.ValidRows),
		zap.Int("excluded_rows", m.ExcludedRows),
		zap.Int("empty_rows", m.EmptyRows),
		zap.Int("errors", len(m.Errors)),
		zap.Int("warnings", len(m.Warnings)),
	)

	const maxShow = 5
	for i, re := range m.Errors {
		if i == maxShow {
			l.Info("Additional row errors not shown", zap.Int("count", len(m.Errors)-maxShow))
			break
		}
		l.Warn("Row error", zap.String("detail", re.String()))
	}
	for i, re := range m.Warnings {
		if i == maxShow {
			l.Info("Additional warnings not shown", zap.Int("count", len(m.Warnings)-maxShow))
			break
		}
		l.Info("Row warning", zap.String("detail", re.String()))
	}

	if r := report.Merge; r != nil {
		l.Info("Merge result",
			zap.String("mode", string(r.Mode)),
			zap.Int("imported", r.Imported),
			zap.Int("updated", r.Updated),
			zap.Int("failed", r.Failed),
			zap.Bool("atomic", r.Atomic),
		)
		for _, f := range r.Failures {
			l.Warn("Item failed", zap.String("item_id", f.ItemID), zap.String("error", f.Error))
		}
	}
}
