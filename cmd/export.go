package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"inventory-reconciler/feature/items"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportArchive bool

// exportCmd writes the inventory as CSV.
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the inventory as CSV",
	Long: `Writes the live inventory as CSV to a file, or to stdout when the file is
omitted or "-". With --archive the export is stored in the bucket instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "Store the export in the bucket under exports/")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	svc := items.NewService(a.items, a.txs, a.client, a.cfg.Storage.Bucket, a.cfg.Inventory, a.logger)

	if exportArchive {
		key, err := svc.ArchiveExport(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("Export archived", zap.String("key", key))
		return nil
	}

	var w io.Writer = cmd.OutOrStdout()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[0], err)
		}
		defer f.Close()
		w = f
	}

	if err := svc.Export(ctx, w); err != nil {
		return err
	}
	if len(args) == 1 && args[0] != "-" {
		a.logger.Info("Export written", zap.String("file", args[0]))
	}
	return nil
}
