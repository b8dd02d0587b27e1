//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, the retail-insights authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retail-insights.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/retailops/retail-insights/internal/config"
	"github.com/retailops/retail-insights/internal/logging"
	"github.com/retailops/retail-insights/internal/reports"
	"github.com/retailops/retail-insights/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-insights",
		Short: "Retail transaction analytics pipeline for PostgreSQL",
		Long: `retail-insights is a CLI tool that ingests raw retail transaction
rows into a PostgreSQL staging table, rebuilds a cleaned star schema
(customers, products, orders, order items), derives RFM customer
segments against a pinned reference date, and runs analytical reports
(revenue breakdowns, cohort retention, Pareto concentration) over the
result.

The whole pipeline is a sequential batch: every derived table is
dropped and recomputed in full on each build.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-insights.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(reportsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available reports",
	Long: `List all available analytical reports. Star reports read the
cleaned schema produced by 'build'; staging reports read the raw
transaction rows directly and may disagree with star reports on
revenue totals since they skip deduplication.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available reports:")
		cmd.Println()
		for _, r := range reports.All() {
			cmd.Printf("  %-22s [%s] %s\n", r.Name(), r.Source(), r.Description())
		}
		cmd.Println()
		cmd.Println("Use 'retail-insights report --name <report>' to run one.")
	},
}
