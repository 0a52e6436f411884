package db

import (
	"context"
	"fmt"

	"github.com/jonathan/admirror/internal/classification"
	"github.com/jonathan/admirror/internal/types"
)

// ListCompetitors retrieves every tracked competitor with its current
// classification state
func (db *DB) ListCompetitors(ctx context.Context) ([]types.Competitor, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(track, ''), new_ads_30d, total_ads_launched_30d,
		        survived_14d, survival_rate, track_classified_at
		 FROM competitors ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	defer rows.Close()

	var competitors []types.Competitor
	for rows.Next() {
		var c types.Competitor
		if err := rows.Scan(&c.ID, &c.Name, &c.Track, &c.NewAds30d, &c.TotalAdsLaunched30d,
			&c.Survived14d, &c.SurvivalRate, &c.TrackClassifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		competitors = append(competitors, c)
	}
	return competitors, rows.Err()
}

// UpdateCompetitorClassification overwrites the competitor's derived
// classification fields with the latest run's results
func (db *DB) UpdateCompetitorClassification(ctx context.Context, update classification.CompetitorClassificationUpdate) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE competitors
		 SET track = $2, new_ads_30d = $3, total_ads_launched_30d = $4,
		     survived_14d = $5, survival_rate = $6, track_classified_at = $7
		 WHERE id = $1`,
		update.CompetitorID, string(update.Track), update.NewAds30d, update.TotalAdsLaunched30d,
		update.Survived14d, update.SurvivalRate, update.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update classification for competitor %s: %w", update.CompetitorID, err)
	}
	return nil
}

// InsertTrackChange appends an immutable track-change record
func (db *DB) InsertTrackChange(ctx context.Context, entry types.TrackChangeLogEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO track_change_log (competitor_id, previous_track, new_track, new_ads_30d, survival_rate, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.CompetitorID, string(entry.PreviousTrack), string(entry.NewTrack),
		entry.NewAds30d, entry.SurvivalRate, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track change for competitor %s: %w", entry.CompetitorID, err)
	}
	return nil
}

// ListTrackChanges retrieves the most recent track changes, newest first
func (db *DB) ListTrackChanges(ctx context.Context, limit int) ([]types.TrackChangeLogEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT competitor_id, previous_track, new_track, new_ads_30d, survival_rate, created_at
		 FROM track_change_log ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list track changes: %w", err)
	}
	defer rows.Close()

	var entries []types.TrackChangeLogEntry
	for rows.Next() {
		var e types.TrackChangeLogEntry
		if err := rows.Scan(&e.CompetitorID, &e.PreviousTrack, &e.NewTrack,
			&e.NewAds30d, &e.SurvivalRate, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan track change: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
