package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/classification"
	"github.com/jonathan/admirror/internal/db"
	"github.com/jonathan/admirror/internal/observability"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run one competitor track classification pass",
	Long:  "Classify every competitor into a strategic track from its 30-day launch cadence and ad survival, then rescore per-ad signal strength.",
	RunE:  runClassify,
}

var (
	classifyConfigFile string
	classifyVerbose    bool
)

func init() {
	classifyCmd.Flags().StringVar(&classifyConfigFile, "config", "", "Path to config JSON file")
	classifyCmd.Flags().BoolVarP(&classifyVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(classifyConfigFile)
	if err != nil {
		return err
	}
	if classifyVerbose {
		cfg.Verbose = true
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	log := newLogger(cfg.Verbose)
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	stats := classification.New(database, log).Run(ctx)

	observability.NewPrinter(os.Stdout).PrintClassificationStats(stats)

	return nil
}
