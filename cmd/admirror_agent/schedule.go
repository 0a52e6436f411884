package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/classification"
	"github.com/jonathan/admirror/internal/db"
	"github.com/jonathan/admirror/internal/llm"
	"github.com/jonathan/admirror/internal/scheduler"
	"github.com/jonathan/admirror/internal/tagging"
	"github.com/jonathan/admirror/internal/video"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the internal cron scheduler without the HTTP server",
	Long:  `Run the classification and tagging pipelines on their configured cron schedules in the foreground, without exposing trigger endpoints.`,
	RunE:  runSchedule,
}

var (
	scheduleConfigFile string
	scheduleVerbose    bool
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleConfigFile, "config", "", "Path to config JSON file")
	scheduleCmd.Flags().BoolVarP(&scheduleVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(scheduleConfigFile)
	if err != nil {
		return err
	}
	if scheduleVerbose {
		cfg.Verbose = true
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

	classifier := classification.New(database, log)
	imagePipeline := tagging.New(database, tagging.NewGeminiImageTagger(client, database), policy, log)
	videoPipeline := video.New(database, extractor, video.NewGeminiTranscriber(client), video.NewGeminiVideoVision(client), policy, log)

	sched := scheduler.New(log)
	scheduled := []scheduler.Job{
		{Name: "classify", Expr: cfg.ClassifyCron, Run: func(ctx context.Context) { classifier.Run(ctx) }},
		{Name: "tag_images", Expr: cfg.TagImagesCron, Run: func(ctx context.Context) { imagePipeline.Run(ctx) }},
		{Name: "tag_videos", Expr: cfg.TagVideosCron, Run: func(ctx context.Context) { videoPipeline.Run(ctx) }},
	}
	for _, job := range scheduled {
		if err := sched.Add(job); err != nil {
			return err
		}
	}

	schedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	sched.Start(schedCtx)

	return nil
}
