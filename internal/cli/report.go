package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/retailops/retail-insights/internal/db"
	"github.com/retailops/retail-insights/internal/logging"
	"github.com/retailops/retail-insights/internal/reports"
)

var (
	reportName   string
	reportAll    bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run analytical reports against the database",
	Long: `Run one or all analytical reports and print the result set to
stdout. Star reports require a prior 'build'; staging reports only
need staging data.

Example:
  retail-insights report --name pareto --connection "postgres://..."
  retail-insights report --all --format csv`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportName, "name", "",
		"report to run (see 'retail-insights reports')")
	reportCmd.Flags().BoolVar(&reportAll, "all", false,
		"run every registered report")
	reportCmd.Flags().StringVar(&reportFormat, "format", "",
		"output format: table or csv")
}

func runReport(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if reportFormat != "" {
		cfg.Report.Format = reportFormat
	}

	if err := cfg.ValidateReport(); err != nil {
		return err
	}
	if reportName == "" && !reportAll {
		return fmt.Errorf("either --name or --all is required")
	}

	var selected []reports.Report
	if reportAll {
		selected = reports.All()
	} else {
		r, err := reports.Get(reportName)
		if err != nil {
			return err
		}
		selected = []reports.Report{r}
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Star reports read the cleaned schema; warn when it's missing or stale.
	needsStar := false
	for _, r := range selected {
		if r.Source() == reports.SourceStar {
			needsStar = true
			break
		}
	}
	if needsStar {
		meta, err := db.GetAllMetadata(ctx, pool)
		if err != nil || len(meta) == 0 {
			logging.Warn().Msg("No build metadata found; run 'build' first")
		} else {
			logging.Debug().
				Str("built_at", meta["built_at"]).
				Str("as_of", meta["as_of"]).
				Str("staging_rows", meta["staging_rows"]).
				Msg("Star schema build metadata")
		}
	}

	for i, r := range selected {
		table, err := r.Run(ctx, pool)
		if err != nil {
			return err
		}

		if len(selected) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("== %s (%s)\n", r.Name(), r.Source())
		}

		switch cfg.Report.Format {
		case "csv":
			err = reports.WriteCSV(os.Stdout, table)
		default:
			err = reports.WriteTable(os.Stdout, table)
		}
		if err != nil {
			return fmt.Errorf("failed to render report %s: %w", r.Name(), err)
		}
	}

	return nil
}
