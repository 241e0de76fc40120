package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/observability"
	"github.com/jonathan/peakform/internal/reports"
)

var reportStaleDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the OKR compliance report",
	Long:  `Generate the compliance report (coverage, stale key results, confidence distribution, audit trail) and print it to stdout.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportStaleDays, "stale-days", 14, "Days without a check-in before a key result counts as stale")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	report, err := reports.NewGenerator(database, reportStaleDays).Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintReport(report)
	return nil
}
