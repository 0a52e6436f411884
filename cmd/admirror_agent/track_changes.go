package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/db"
)

var trackChangesCmd = &cobra.Command{
	Use:   "track-changes",
	Short: "List recent competitor track changes",
	Long:  "List the most recent competitor track flips from the track change log, newest first.",
	RunE:  runTrackChanges,
}

var (
	trackChangesConfigFile string
	trackChangesLimit      int
)

func init() {
	trackChangesCmd.Flags().StringVar(&trackChangesConfigFile, "config", "", "Path to config JSON file")
	trackChangesCmd.Flags().IntVar(&trackChangesLimit, "limit", 20, "Maximum entries to list")

	rootCmd.AddCommand(trackChangesCmd)
}

func runTrackChanges(_ *cobra.Command, _ []string) error {
	if trackChangesLimit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", trackChangesLimit)
	}

	cfg, err := loadRuntimeConfig(trackChangesConfigFile)
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

	entries, err := database.ListTrackChanges(ctx, trackChangesLimit)
	if err != nil {
		return fmt.Errorf("failed to list track changes: %w", err)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No track changes recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tCOMPETITOR\tFROM\tTO\tNEW ADS 30D")
	for _, entry := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			entry.Timestamp.Format("2006-01-02 15:04"),
			entry.CompetitorID,
			entry.PreviousTrack,
			entry.NewTrack,
			entry.NewAds30d,
		)
	}

	return w.Flush()
}
