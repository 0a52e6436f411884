package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/db"
)

var spendCmd = &cobra.Command{
	Use:   "spend",
	Short: "Report AI spend over a recent window",
	Long:  "Sum estimated AI spend from the cost ledger over the given number of trailing days, failed calls included.",
	RunE:  runSpend,
}

var (
	spendConfigFile string
	spendDays       int
)

func init() {
	spendCmd.Flags().StringVar(&spendConfigFile, "config", "", "Path to config JSON file")
	spendCmd.Flags().IntVar(&spendDays, "days", 30, "Trailing window in days")

	rootCmd.AddCommand(spendCmd)
}

func runSpend(_ *cobra.Command, _ []string) error {
	if spendDays <= 0 {
		return fmt.Errorf("days must be positive, got %d", spendDays)
	}

	cfg, err := loadRuntimeConfig(spendConfigFile)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	cutoff := time.Now().AddDate(0, 0, -spendDays)
	total, err := database.TotalSpendSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to sum AI spend: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "AI spend over last %d days: $%.4f\n", spendDays, total)

	return nil
}
