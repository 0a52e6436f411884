package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/admirror/internal/metrics"
	"github.com/jonathan/admirror/internal/tagging"
	"github.com/jonathan/admirror/internal/taxonomy"
	"github.com/jonathan/admirror/internal/types"
)

// Store is the persistence collaborator for the video tagging pipeline
type Store interface {
	// ListVideoAdsPendingTagging returns up to limit video ads whose video
	// tagging status is pending or failed.
	ListVideoAdsPendingTagging(ctx context.Context, limit int) ([]types.Ad, error)
	// ClaimAdForVideoTagging atomically flips a pending/failed ad to in_progress
	ClaimAdForVideoTagging(ctx context.Context, adID string) (bool, error)
	MarkAdVideoTagged(ctx context.Context, adID string, tags types.TagSet) error
	MarkAdVideoTaggingFailed(ctx context.Context, adID string, retryCount int, status types.TaggingStatus) error
	InsertCostLog(ctx context.Context, entry types.CostLogEntry) error
}

// Pipeline is the multi-stage video-tagging batch job
type Pipeline struct {
	store       Store
	extractor   MediaExtractor
	transcriber Transcriber
	vision      VideoVision
	policy      tagging.Policy
	log         logrus.FieldLogger
	now         func() time.Time
}

// New creates a video tagging pipeline with injected collaborators
func New(store Store, extractor MediaExtractor, transcriber Transcriber, vision VideoVision, policy tagging.Policy, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		store:       store,
		extractor:   extractor,
		transcriber: transcriber,
		vision:      vision,
		policy:      policy,
		log:         log,
		now:         time.Now,
	}
}

// Run selects a bounded batch of untagged video ads and runs the full stage
// sequence on each: extract, transcribe, hook-frame tag, shift detection,
// content tagging, local duration bucket merge, validation. Any stage failing
// applies the same retry/skip policy as image tagging. Temp media files are
// cleaned up for every ad regardless of outcome.
func (p *Pipeline) Run(ctx context.Context) types.VideoTaggingStats {
	start := p.now()
	var stats types.VideoTaggingStats

	ads, err := p.store.ListVideoAdsPendingTagging(ctx, p.policy.BatchSize)
	if err != nil {
		p.log.WithError(err).Error("video ad selection query failed, aborting run")
		return stats
	}
	if len(ads) == 0 {
		return stats
	}

	stats.Total = len(ads)

	for _, ad := range ads {
		claimed, err := p.store.ClaimAdForVideoTagging(ctx, ad.ID)
		if err != nil {
			p.log.WithError(err).WithField("ad_id", ad.ID).Warn("claim failed, leaving ad for next run")
			continue
		}
		if !claimed {
			continue
		}

		if err := p.processAd(ctx, ad, &stats); err != nil {
			p.recordFailure(ctx, ad, err, &stats)
		} else {
			stats.Tagged++
			metrics.AdsTagged.WithLabelValues("video_tagging", "tagged").Inc()
		}
	}

	stats.DurationMs = p.now().Sub(start).Milliseconds()
	metrics.PipelineRuns.WithLabelValues("video_tagging").Inc()
	metrics.PipelineDuration.WithLabelValues("video_tagging").Observe(float64(stats.DurationMs) / 1000)
	metrics.AISpendUSD.WithLabelValues("video_tagging").Add(stats.TotalCostUSD)
	p.log.WithFields(logrus.Fields{
		"total":          stats.Total,
		"tagged":         stats.Tagged,
		"failed":         stats.Failed,
		"skipped":        stats.Skipped,
		"no_audio":       stats.NoAudio,
		"total_cost_usd": stats.TotalCostUSD,
		"duration_ms":    stats.DurationMs,
	}).Info("video tagging run complete")
	return stats
}

// processAd runs the stage sequence for one ad. Cleanup of the ad's temp
// media always runs, success or failure.
func (p *Pipeline) processAd(ctx context.Context, ad types.Ad, stats *types.VideoTaggingStats) (err error) {
	defer func() {
		if cleanupErr := p.extractor.CleanupTempFiles(ad.ID); cleanupErr != nil {
			p.log.WithError(cleanupErr).WithField("ad_id", ad.ID).Warn("temp file cleanup failed")
		}
	}()

	extraction, err := p.extractor.ExtractKeyframesAndAudio(ctx, ad.VideoURL, ad.ID)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if len(extraction.FramePaths) == 0 {
		return fmt.Errorf("extraction produced no frames")
	}

	transcriptText := ""
	if extraction.AudioPath == "" {
		// Silent or music-only creative: expected, not a failure
		stats.NoAudio++
		metrics.AdsTagged.WithLabelValues("video_tagging", "no_audio").Inc()
	} else {
		transcript, err := p.transcriber.TranscribeAudio(ctx, extraction.AudioPath, extraction.DurationSeconds)
		if transcript != nil {
			stats.TotalCostUSD += transcript.EstimatedCostUSD
			p.logCost(ctx, ad.ID, &CallCost{
				Model:            transcript.Model,
				InputTokens:      transcript.InputTokens,
				OutputTokens:     transcript.OutputTokens,
				EstimatedCostUSD: transcript.EstimatedCostUSD,
				DurationMs:       transcript.DurationMs,
			}, err)
		}
		if err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}
		transcriptText = transcript.Text
	}

	hookTags, cost, err := p.vision.TagHookFrame(ctx, extraction.FramePaths[0])
	p.accumulate(ctx, ad.ID, cost, err, stats)
	if err != nil {
		return err
	}

	shifts, cost, err := p.vision.DetectVisualShifts(ctx, extraction.FramePaths)
	p.accumulate(ctx, ad.ID, cost, err, stats)
	if err != nil {
		return err
	}

	candidate, cost, err := p.vision.TagVideoContent(ctx, transcriptText, taxonomy.FormatHookTagSummary(hookTags), shifts)
	p.accumulate(ctx, ad.ID, cost, err, stats)
	if err != nil {
		return err
	}

	// The duration bucket is computed from metadata, never inferred
	candidate[taxonomy.DurationBucketKey] = taxonomy.GetDurationBucket(extraction.DurationSeconds)

	validation := taxonomy.ValidateVideoTagSet(candidate)
	if !validation.Valid {
		return fmt.Errorf("video tag validation failed: %s", strings.Join(validation.Errors, "; "))
	}

	tags := make(types.TagSet, len(taxonomy.VideoDimensions()))
	for _, dim := range taxonomy.VideoDimensions() {
		tags[dim.Key] = candidate[dim.Key].(string)
	}

	if err := p.store.MarkAdVideoTagged(ctx, ad.ID, tags); err != nil {
		return fmt.Errorf("failed to persist video tags: %w", err)
	}
	return nil
}

// recordFailure applies the shared retry/skip policy to a video ad
func (p *Pipeline) recordFailure(ctx context.Context, ad types.Ad, cause error, stats *types.VideoTaggingStats) {
	status := types.TaggingFailed
	if ad.VideoTaggingRetry >= p.policy.MaxRetries {
		status = types.TaggingSkipped
	}

	if err := p.store.MarkAdVideoTaggingFailed(ctx, ad.ID, ad.VideoTaggingRetry+1, status); err != nil {
		p.log.WithError(err).WithField("ad_id", ad.ID).Error("failed to record video tagging failure")
	}

	if status == types.TaggingSkipped {
		stats.Skipped++
		metrics.AdsTagged.WithLabelValues("video_tagging", "skipped").Inc()
	} else {
		stats.Failed++
		metrics.AdsTagged.WithLabelValues("video_tagging", "failed").Inc()
	}

	p.log.WithFields(logrus.Fields{
		"ad_id":  ad.ID,
		"error":  cause.Error(),
		"status": status,
	}).Warn("video tagging attempt failed")
}

// accumulate folds one stage's cost into the run stats and the cost ledger
func (p *Pipeline) accumulate(ctx context.Context, adID string, cost *CallCost, stageErr error, stats *types.VideoTaggingStats) {
	if cost == nil {
		return
	}
	stats.TotalCostUSD += cost.EstimatedCostUSD
	p.logCost(ctx, adID, cost, stageErr)
}

// logCost writes one cost-ledger entry; ledger failures never fail the ad
func (p *Pipeline) logCost(ctx context.Context, adID string, cost *CallCost, stageErr error) {
	entry := types.CostLogEntry{
		ID:               uuid.New(),
		AdID:             adID,
		Model:            cost.Model,
		InputTokens:      cost.InputTokens,
		OutputTokens:     cost.OutputTokens,
		EstimatedCostUSD: cost.EstimatedCostUSD,
		DurationMs:       cost.DurationMs,
		Success:          stageErr == nil,
		CreatedAt:        p.now(),
	}
	if stageErr != nil {
		entry.ErrorMessage = stageErr.Error()
	}
	if err := p.store.InsertCostLog(ctx, entry); err != nil {
		p.log.WithError(err).WithField("ad_id", adID).Warn("failed to write cost log entry")
	}
}
