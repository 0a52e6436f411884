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
	"github.com/jonathan/admirror/internal/video"
)

var tagVideosCmd = &cobra.Command{
	Use:   "tag-videos",
	Short: "Run one video creative tagging batch",
	Long:  "Select a bounded batch of untagged video ads, extract frames and audio with ffmpeg, transcribe, tag the seven-dimension video taxonomy, and persist tags and cost ledger entries.",
	RunE:  runTagVideos,
}

var (
	tagVideosConfigFile string
	tagVideosWorkDir    string
	tagVideosBatchSize  int
	tagVideosVerbose    bool
)

func init() {
	tagVideosCmd.Flags().StringVar(&tagVideosConfigFile, "config", "", "Path to config JSON file")
	tagVideosCmd.Flags().StringVar(&tagVideosWorkDir, "work-dir", "", "Override the media scratch directory")
	tagVideosCmd.Flags().IntVar(&tagVideosBatchSize, "batch-size", 0, "Override the configured batch size")
	tagVideosCmd.Flags().BoolVarP(&tagVideosVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(tagVideosCmd)
}

func runTagVideos(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(tagVideosConfigFile)
	if err != nil {
		return err
	}
	if tagVideosVerbose {
		cfg.Verbose = true
	}
	if tagVideosWorkDir != "" {
		cfg.MediaWorkDir = tagVideosWorkDir
	}
	if tagVideosBatchSize > 0 {
		cfg.BatchSize = tagVideosBatchSize
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

	extractor, err := video.NewFFmpegExtractor(cfg.MediaWorkDir)
	if err != nil {
		return fmt.Errorf("failed to create media extractor: %w", err)
	}

	policy := tagging.Policy{MaxRetries: cfg.MaxRetries, BatchSize: cfg.BatchSize}
	pipeline := video.New(database, extractor, video.NewGeminiTranscriber(client), video.NewGeminiVideoVision(client), policy, log)

	stats := pipeline.Run(ctx)

	observability.NewPrinter(os.Stdout).PrintVideoTaggingStats(stats)

	return nil
}
