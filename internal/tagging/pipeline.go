package tagging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/admirror/internal/metrics"
	"github.com/jonathan/admirror/internal/types"
)

// Policy holds the tunable retry/batch knobs for a tagging pipeline run.
// MaxRetries is the number of prior failures after which the next failure
// marks the ad skipped instead of failed.
type Policy struct {
	MaxRetries int
	BatchSize  int
}

// DefaultPolicy returns the production policy: an ad is skipped on its third
// consecutive failure, batches are bounded at 20 ads per run.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 2, BatchSize: 20}
}

// Store is the persistence collaborator for the image tagging pipeline
type Store interface {
	// ListAdsPendingTagging returns up to limit ads whose tagging status is
	// pending or failed; tagged, skipped, and not_applicable ads are never selected.
	ListAdsPendingTagging(ctx context.Context, limit int) ([]types.Ad, error)
	// ClaimAdForTagging atomically flips a pending/failed ad to in_progress.
	// Returns false when another run already claimed the ad.
	ClaimAdForTagging(ctx context.Context, adID string) (bool, error)
	MarkAdTagged(ctx context.Context, adID string, tags types.TagSet, imageHash string) error
	MarkAdTaggingFailed(ctx context.Context, adID string, retryCount int, status types.TaggingStatus) error
	InsertCostLog(ctx context.Context, entry types.CostLogEntry) error
}

// Pipeline is the image-tagging batch job
type Pipeline struct {
	store  Store
	tagger ImageTagger
	policy Policy
	log    logrus.FieldLogger
	now    func() time.Time
}

// New creates an image tagging pipeline with injected collaborators
func New(store Store, tagger ImageTagger, policy Policy, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		store:  store,
		tagger: tagger,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// Run selects a bounded batch of untagged ads and tags each one sequentially.
// Ads are independent: one ad's failure never aborts the batch. An empty
// selection or a selection query error returns all-zero stats so the next
// scheduled run retries naturally.
func (p *Pipeline) Run(ctx context.Context) types.TaggingStats {
	start := p.now()
	var stats types.TaggingStats

	ads, err := p.store.ListAdsPendingTagging(ctx, p.policy.BatchSize)
	if err != nil {
		p.log.WithError(err).Error("ad selection query failed, aborting tagging run")
		return stats
	}
	if len(ads) == 0 {
		return stats
	}

	stats.Total = len(ads)

	for _, ad := range ads {
		claimed, err := p.store.ClaimAdForTagging(ctx, ad.ID)
		if err != nil {
			p.log.WithError(err).WithField("ad_id", ad.ID).Warn("claim failed, leaving ad for next run")
			continue
		}
		if !claimed {
			// An overlapping run won the ad; its stats will account for it.
			continue
		}

		result := p.tagger.TagAdImage(ctx, ad.ThumbnailURL)
		stats.TotalCostUSD += result.EstimatedCostUSD
		p.logCost(ctx, ad.ID, result)

		switch {
		case result.Failed():
			p.recordFailure(ctx, ad, result.Error, &stats)
		case result.DuplicateOfAdID != "":
			if err := p.store.MarkAdTagged(ctx, ad.ID, result.Tags, result.ImageHash); err != nil {
				p.recordFailure(ctx, ad, "failed to persist tags: "+err.Error(), &stats)
				continue
			}
			stats.Deduped++
			metrics.AdsTagged.WithLabelValues("image_tagging", "deduped").Inc()
			p.log.WithFields(logrus.Fields{
				"ad_id":        ad.ID,
				"duplicate_of": result.DuplicateOfAdID,
			}).Info("copied tags from identical creative")
		default:
			if err := p.store.MarkAdTagged(ctx, ad.ID, result.Tags, result.ImageHash); err != nil {
				p.recordFailure(ctx, ad, "failed to persist tags: "+err.Error(), &stats)
				continue
			}
			stats.Tagged++
			metrics.AdsTagged.WithLabelValues("image_tagging", "tagged").Inc()
		}
	}

	stats.DurationMs = p.now().Sub(start).Milliseconds()
	metrics.PipelineRuns.WithLabelValues("image_tagging").Inc()
	metrics.PipelineDuration.WithLabelValues("image_tagging").Observe(float64(stats.DurationMs) / 1000)
	metrics.AISpendUSD.WithLabelValues("image_tagging").Add(stats.TotalCostUSD)
	p.log.WithFields(logrus.Fields{
		"total":          stats.Total,
		"tagged":         stats.Tagged,
		"deduped":        stats.Deduped,
		"failed":         stats.Failed,
		"skipped":        stats.Skipped,
		"total_cost_usd": stats.TotalCostUSD,
		"duration_ms":    stats.DurationMs,
	}).Info("image tagging run complete")
	return stats
}

// recordFailure applies the retry/skip policy to any failed attempt,
// persist errors included: a claimed ad must always leave in_progress so it
// is either re-selectable (failed) or terminal (skipped). The retry count
// increments by exactly one per failed attempt; once the pre-increment count
// reaches MaxRetries the ad is skipped.
func (p *Pipeline) recordFailure(ctx context.Context, ad types.Ad, reason string, stats *types.TaggingStats) {
	status := types.TaggingFailed
	if ad.TaggingRetryCount >= p.policy.MaxRetries {
		status = types.TaggingSkipped
	}

	if err := p.store.MarkAdTaggingFailed(ctx, ad.ID, ad.TaggingRetryCount+1, status); err != nil {
		p.log.WithError(err).WithField("ad_id", ad.ID).Error("failed to record tagging failure")
	}

	if status == types.TaggingSkipped {
		stats.Skipped++
		metrics.AdsTagged.WithLabelValues("image_tagging", "skipped").Inc()
	} else {
		stats.Failed++
		metrics.AdsTagged.WithLabelValues("image_tagging", "failed").Inc()
	}

	p.log.WithFields(logrus.Fields{
		"ad_id":  ad.ID,
		"error":  reason,
		"status": status,
	}).Warn("tagging attempt failed")
}

// logCost writes a cost-ledger entry for any attempt that consumed tokens or
// time. Ledger failures are logged but never fail the ad.
func (p *Pipeline) logCost(ctx context.Context, adID string, result *TaggingResult) {
	if result.DurationMs == 0 && result.InputTokens == 0 && result.OutputTokens == 0 {
		return
	}
	entry := types.CostLogEntry{
		ID:               uuid.New(),
		AdID:             adID,
		Model:            result.Model,
		InputTokens:      result.InputTokens,
		OutputTokens:     result.OutputTokens,
		EstimatedCostUSD: result.EstimatedCostUSD,
		DurationMs:       result.DurationMs,
		Success:          !result.Failed(),
		ErrorMessage:     result.Error,
		CreatedAt:        p.now(),
	}
	if err := p.store.InsertCostLog(ctx, entry); err != nil {
		p.log.WithError(err).WithField("ad_id", adID).Warn("failed to write cost log entry")
	}
}
