package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/db"
	"github.com/jonathan/admirror/internal/llm"
	"github.com/jonathan/admirror/internal/observability"
	"github.com/jonathan/admirror/internal/tagging"
)

var tagImagesCmd = &cobra.Command{
	Use:   "tag-images",
	Short: "Run one image creative tagging batch",
	Long:  "Select a bounded batch of untagged image ads, tag each creative across the twelve-dimension taxonomy with the vision model, and persist tags and cost ledger entries.",
	RunE:  runTagImages,
}

var (
	tagImagesConfigFile string
	tagImagesBatchSize  int
	tagImagesVerbose    bool
)

func init() {
	tagImagesCmd.Flags().StringVar(&tagImagesConfigFile, "config", "", "Path to config JSON file")
	tagImagesCmd.Flags().IntVar(&tagImagesBatchSize, "batch-size", 0, "Override the configured batch size")
	tagImagesCmd.Flags().BoolVarP(&tagImagesVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(tagImagesCmd)
}

func runTagImages(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(tagImagesConfigFile)
	if err != nil {
		return err
	}
	if tagImagesVerbose {
		cfg.Verbose = true
	}
	if tagImagesBatchSize > 0 {
		cfg.BatchSize = tagImagesBatchSize
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log := newLogger(cfg.Verbose)
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client, err := llm.NewClient(ctx, nil, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}

	tagger := tagging.NewGeminiImageTagger(client, database)
	policy := tagging.Policy{MaxRetries: cfg.MaxRetries, BatchSize: cfg.BatchSize}

	stats := tagging.New(database, tagger, policy, log).Run(ctx)

	observability.NewPrinter(os.Stdout).PrintTaggingStats(stats)

	return nil
}
