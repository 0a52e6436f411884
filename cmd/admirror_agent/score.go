package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/observability"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a time-decayed confidence score for an ad",
	Long:  "Compute the confidence score and maturity label for an ad from its raw quality score and the number of days it has been active.",
	RunE:  runScore,
}

var (
	scoreQuality float64
	scoreDays    int
)

func init() {
	scoreCmd.Flags().Float64Var(&scoreQuality, "quality", 0, "Raw quality score (0-100)")
	scoreCmd.Flags().IntVar(&scoreDays, "days", 0, "Days the ad has been active")
	_ = scoreCmd.MarkFlagRequired("quality")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	if scoreQuality < 0 || scoreQuality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %g", scoreQuality)
	}
	if scoreDays < 0 {
		return fmt.Errorf("days must not be negative, got %d", scoreDays)
	}

	observability.NewPrinter(os.Stdout).PrintConfidence(scoreQuality, scoreDays)

	return nil
}
