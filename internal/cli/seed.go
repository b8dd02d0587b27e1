package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailops/retail-insights/internal/datagen"
	"github.com/retailops/retail-insights/internal/db"
	"github.com/retailops/retail-insights/internal/logging"
	"github.com/retailops/retail-insights/internal/pipeline"
)

var (
	seedRows       int
	seedRandomSeed uint64
	seedNoTruncate bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the staging table with synthetic transaction data",
	Long: `Generate synthetic raw transaction rows and load them into the
staging table. The generated data is deliberately dirty: it contains
anonymous invoices, returns with negative quantities, zero-price
adjustment rows, duplicate lines, and conflicting attribute spellings,
so that a subsequent 'build' exercises the full cleaning stage.

Example:
  retail-insights seed --rows 50000 --seed 42 --connection "postgres://..."`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedRows, "rows", 0,
		"number of staging rows to generate")
	seedCmd.Flags().Uint64Var(&seedRandomSeed, "seed", 0,
		"random seed for reproducible data (0 = random)")
	seedCmd.Flags().BoolVar(&seedNoTruncate, "no-truncate", false,
		"append to existing staging rows instead of replacing them")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedRows > 0 {
		cfg.Seed.Rows = seedRows
	}
	if seedRandomSeed > 0 {
		cfg.Seed.RandomSeed = seedRandomSeed
	}
	if seedNoTruncate {
		cfg.Seed.Truncate = false
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	logging.Info().
		Int("rows", cfg.Seed.Rows).
		Uint64("seed", cfg.Seed.RandomSeed).
		Msg("Generating staging data")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pipeline.CreateStaging(ctx, pool); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	if cfg.Seed.Truncate {
		if err := pipeline.TruncateStaging(ctx, pool); err != nil {
			return fmt.Errorf("failed to truncate staging table: %w", err)
		}
		// Replacing the staging data invalidates any prior build.
		if err := db.DropMetadata(ctx, pool); err != nil {
			return fmt.Errorf("failed to clear build metadata: %w", err)
		}
	}

	seeder := datagen.NewSeeder(cfg.Seed.RandomSeed)
	rows := seeder.Rows(cfg.Seed.Rows)

	loaded, err := pipeline.LoadRows(ctx, pool, rows)
	if err != nil {
		return fmt.Errorf("failed to load staging rows: %w", err)
	}

	logging.Info().
		Int64("rows", loaded).
		Msg("Staging data loaded")

	return nil
}
