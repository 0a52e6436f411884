package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/admirror/internal/classification"
	"github.com/jonathan/admirror/internal/types"
)

// signalUpdateBatchSize bounds how many ad rows one batch statement touches
const signalUpdateBatchSize = 100

// signalUpdateWorkers bounds concurrent batch writers against the pool
const signalUpdateWorkers = 4

// staleClaimWindow is how long a claim may sit in_progress before the run
// that holds it is presumed crashed and the ad becomes reclaimable.
const staleClaimWindow = "1 hour"

const adColumns = `id, competitor_id, days_active, variation_count, is_active, launch_date,
	COALESCE(signal_strength, 0), COALESCE(competitor_track, ''),
	tagging_status, tagging_retry_count, video_tagging_status, video_tagging_retry_count,
	COALESCE(image_hash, ''), tags, video_tags, is_video,
	COALESCE(video_duration_seconds, 0), COALESCE(video_url, ''), COALESCE(thumbnail_url, '')`

func scanAd(row pgx.Row) (types.Ad, error) {
	var ad types.Ad
	err := row.Scan(&ad.ID, &ad.CompetitorID, &ad.DaysActive, &ad.VariationCount, &ad.IsActive,
		&ad.LaunchDate, &ad.SignalStrength, &ad.CompetitorTrack,
		&ad.TaggingStatus, &ad.TaggingRetryCount, &ad.VideoTaggingStatus, &ad.VideoTaggingRetry,
		&ad.ImageHash, &ad.Tags, &ad.VideoTags, &ad.IsVideo,
		&ad.VideoDurationSeconds, &ad.VideoURL, &ad.ThumbnailURL)
	return ad, err
}

func (db *DB) queryAds(ctx context.Context, query string, args ...any) ([]types.Ad, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ads []types.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

// ListAdsByCompetitor retrieves a competitor's ads, newest launch first
func (db *DB) ListAdsByCompetitor(ctx context.Context, competitorID string) ([]types.Ad, error) {
	ads, err := db.queryAds(ctx,
		`SELECT `+adColumns+` FROM ads WHERE competitor_id = $1 ORDER BY launch_date DESC`,
		competitorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads for competitor %s: %w", competitorID, err)
	}
	return ads, nil
}

// BatchUpdateAdSignals writes recomputed signal strengths in bounded batches.
// Batches run concurrently; any batch failing fails the whole write.
func (db *DB) BatchUpdateAdSignals(ctx context.Context, updates []classification.AdSignalUpdate) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(signalUpdateWorkers)

	for start := 0; start < len(updates); start += signalUpdateBatchSize {
		end := start + signalUpdateBatchSize
		if end > len(updates) {
			end = len(updates)
		}
		chunk := updates[start:end]

		g.Go(func() error {
			batch := &pgx.Batch{}
			for _, u := range chunk {
				batch.Queue(
					`UPDATE ads SET signal_strength = $1, competitor_track = $2 WHERE id = $3`,
					u.SignalStrength, string(u.CompetitorTrack), u.AdID,
				)
			}
			if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("failed to update ad signals: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ListAdsPendingTagging retrieves image ads eligible for tagging. Tagged,
// skipped, and not_applicable ads are excluded permanently; ads stranded
// in_progress by a crashed run become eligible again after staleClaimWindow.
func (db *DB) ListAdsPendingTagging(ctx context.Context, limit int) ([]types.Ad, error) {
	ads, err := db.queryAds(ctx,
		`SELECT `+adColumns+` FROM ads
		 WHERE is_video = FALSE
		   AND (tagging_status IN ('pending', 'failed')
		        OR (tagging_status = 'in_progress' AND tagging_claimed_at < NOW() - INTERVAL '`+staleClaimWindow+`'))
		   AND thumbnail_url IS NOT NULL
		 ORDER BY launch_date DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads pending tagging: %w", err)
	}
	return ads, nil
}

// ClaimAdForTagging atomically moves a pending/failed ad to in_progress,
// stamping the claim time. Returns false when a concurrent run won the claim
// first. Stale in_progress claims can be re-claimed.
func (db *DB) ClaimAdForTagging(ctx context.Context, adID string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE ads SET tagging_status = 'in_progress', tagging_claimed_at = NOW()
		 WHERE id = $1
		   AND (tagging_status IN ('pending', 'failed')
		        OR (tagging_status = 'in_progress' AND tagging_claimed_at < NOW() - INTERVAL '`+staleClaimWindow+`'))`,
		adID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim ad %s: %w", adID, err)
	}
	return result.RowsAffected() == 1, nil
}

// MarkAdTagged persists a validated tag set and the creative's content hash
func (db *DB) MarkAdTagged(ctx context.Context, adID string, tags types.TagSet, imageHash string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE ads SET tagging_status = 'tagged', tags = $2, image_hash = NULLIF($3, ''), tagged_at = NOW()
		 WHERE id = $1`,
		adID, tags, imageHash,
	)
	if err != nil {
		return fmt.Errorf("failed to mark ad %s tagged: %w", adID, err)
	}
	return nil
}

// MarkAdTaggingFailed records a failed attempt with its new retry count.
// status is failed while retries remain, skipped once the budget is spent.
func (db *DB) MarkAdTaggingFailed(ctx context.Context, adID string, retryCount int, status types.TaggingStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE ads SET tagging_status = $2, tagging_retry_count = $3 WHERE id = $1`,
		adID, string(status), retryCount,
	)
	if err != nil {
		return fmt.Errorf("failed to mark ad %s tagging failed: %w", adID, err)
	}
	return nil
}

// FindTagsByImageHash resolves a content hash to the tags of an already-tagged
// ad. Both return values are zero when no match exists.
func (db *DB) FindTagsByImageHash(ctx context.Context, hash string) (types.TagSet, string, error) {
	var adID string
	var tags types.TagSet
	err := db.pool.QueryRow(ctx,
		`SELECT id, tags FROM ads
		 WHERE image_hash = $1 AND tagging_status = 'tagged'
		 ORDER BY tagged_at ASC LIMIT 1`,
		hash,
	).Scan(&adID, &tags)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to look up image hash: %w", err)
	}
	return tags, adID, nil
}

// ListVideoAdsPendingTagging retrieves video ads eligible for video tagging
func (db *DB) ListVideoAdsPendingTagging(ctx context.Context, limit int) ([]types.Ad, error) {
	ads, err := db.queryAds(ctx,
		`SELECT `+adColumns+` FROM ads
		 WHERE is_video = TRUE
		   AND (video_tagging_status IN ('pending', 'failed')
		        OR (video_tagging_status = 'in_progress' AND video_tagging_claimed_at < NOW() - INTERVAL '`+staleClaimWindow+`'))
		   AND video_url IS NOT NULL
		 ORDER BY launch_date DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list video ads pending tagging: %w", err)
	}
	return ads, nil
}

// ClaimAdForVideoTagging atomically moves a pending/failed video ad to
// in_progress, stamping the claim time. Stale in_progress claims can be
// re-claimed.
func (db *DB) ClaimAdForVideoTagging(ctx context.Context, adID string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE ads SET video_tagging_status = 'in_progress', video_tagging_claimed_at = NOW()
		 WHERE id = $1
		   AND (video_tagging_status IN ('pending', 'failed')
		        OR (video_tagging_status = 'in_progress' AND video_tagging_claimed_at < NOW() - INTERVAL '`+staleClaimWindow+`'))`,
		adID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim video ad %s: %w", adID, err)
	}
	return result.RowsAffected() == 1, nil
}

// MarkAdVideoTagged persists a validated video tag set
func (db *DB) MarkAdVideoTagged(ctx context.Context, adID string, tags types.TagSet) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE ads SET video_tagging_status = 'tagged', video_tags = $2, video_tagged_at = NOW()
		 WHERE id = $1`,
		adID, tags,
	)
	if err != nil {
		return fmt.Errorf("failed to mark ad %s video tagged: %w", adID, err)
	}
	return nil
}

// MarkAdVideoTaggingFailed records a failed video tagging attempt
func (db *DB) MarkAdVideoTaggingFailed(ctx context.Context, adID string, retryCount int, status types.TaggingStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE ads SET video_tagging_status = $2, video_tagging_retry_count = $3 WHERE id = $1`,
		adID, string(status), retryCount,
	)
	if err != nil {
		return fmt.Errorf("failed to mark ad %s video tagging failed: %w", adID, err)
	}
	return nil
}
