package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/retailops/retail-insights/internal/db"
	"github.com/retailops/retail-insights/internal/logging"
	"github.com/retailops/retail-insights/internal/pipeline"
)

var (
	loadFile       string
	loadNoTruncate bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a raw transactions CSV into the staging table",
	Long: `Load raw transaction rows from a CSV file into the staging table.
Columns are matched by header name (InvoiceNo, StockCode, Description,
Quantity, InvoiceDate, UnitPrice, CustomerID, Country) regardless of
order. Rows with unparseable quantities, prices, or dates are skipped
and counted.

Example:
  retail-insights load --file transactions.csv --connection "postgres://..."`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "",
		"path to the raw transactions CSV")
	loadCmd.Flags().BoolVar(&loadNoTruncate, "no-truncate", false,
		"append to existing staging rows instead of replacing them")
}

func runLoad(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if loadFile != "" {
		cfg.Load.File = loadFile
	}
	if loadNoTruncate {
		cfg.Load.Truncate = false
	}

	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	f, err := os.Open(cfg.Load.File)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	logging.Info().
		Str("file", cfg.Load.File).
		Msg("Loading staging data")

	if cfg.Load.Truncate {
		// Replacing the staging data invalidates any prior build.
		if err := db.DropMetadata(ctx, pool); err != nil {
			return fmt.Errorf("failed to clear build metadata: %w", err)
		}
	}

	loaded, err := pipeline.LoadCSV(ctx, pool, f, cfg.Load.Truncate)
	if err != nil {
		return err
	}

	logging.Info().
		Int64("rows", loaded).
		Msg("Staging data loaded")

	return nil
}
