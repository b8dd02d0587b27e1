package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailops/retail-insights/internal/db"
	"github.com/retailops/retail-insights/internal/logging"
	"github.com/retailops/retail-insights/internal/pipeline"
)

var buildAsOf string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the star schema and RFM segments from staging data",
	Long: `Run the pipeline against the staging table: rebuild the cleaned
star schema (customers, products, orders, order_items), then derive
the RFM metrics, scores, and customer segments.

Recency scoring is computed against a reference date. Pass --as-of to
pin it and make segmentation reproducible; otherwise the current day
is used and recorded in the run metadata.

Example:
  retail-insights build --as-of 2024-12-09 --connection "postgres://..."`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildAsOf, "as-of", "",
		"reference date for recency scoring (YYYY-MM-DD, default: today)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if buildAsOf != "" {
		cfg.Build.AsOf = buildAsOf
	}

	if err := cfg.ValidateBuild(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	asOf := cfg.AsOfTime()
	result, err := pipeline.Run(ctx, pool, asOf)
	if err != nil {
		return err
	}

	if err := db.SaveBuildMetadata(ctx, pool, asOf, result.StagingRows); err != nil {
		return fmt.Errorf("failed to save build metadata: %w", err)
	}

	logging.Info().
		Int64("staging_rows", result.StagingRows).
		Int64("customers", result.Customers).
		Int64("products", result.Products).
		Int64("orders", result.Orders).
		Int64("order_items", result.OrderItems).
		Int64("segments", result.Segments).
		Msg("Pipeline build complete")

	return nil
}
