package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/classification"
	"github.com/jonathan/admirror/internal/db"
	"github.com/jonathan/admirror/internal/llm"
	"github.com/jonathan/admirror/internal/scheduler"
	"github.com/jonathan/admirror/internal/server"
	"github.com/jonathan/admirror/internal/tagging"
	"github.com/jonathan/admirror/internal/video"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the job server and internal scheduler",
	Long:  `Start an HTTP server exposing authenticated trigger endpoints, health, and metrics, plus an internal cron scheduler that runs the classification and tagging pipelines on their configured schedules.`,
	RunE:  runServe,
}

var (
	serveConfigFile string
	servePort       int
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "Path to config JSON file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadRuntimeConfig(serveConfigFile)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveVerbose {
		cfg.Verbose = true
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.CronSecret == "" {
		return fmt.Errorf("CRON_SECRET environment variable is required")
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

	jobs := server.Jobs{
		Classify:  classifier.Run,
		TagImages: imagePipeline.Run,
		TagVideos: videoPipeline.Run,
	}

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
	go sched.Start(schedCtx)

	srv := server.New(server.Config{Port: cfg.Port, CronSecret: cfg.CronSecret}, database, jobs, log)

	return srv.Start()
}
