// Package main provides the entry point for the PeakForm HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "peakform",
	Short: "PeakForm performance management server",
	Long:  "PeakForm tracks OKRs with confidence-scored progress check-ins, competency assessments, and learning path assignments via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
