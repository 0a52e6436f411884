package classification

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/admirror/internal/metrics"
	"github.com/jonathan/admirror/internal/types"
)

// CompetitorClassificationUpdate carries the per-competitor fields persisted
// after each classification pass.
type CompetitorClassificationUpdate struct {
	CompetitorID        string
	Track               types.Track
	NewAds30d           int
	TotalAdsLaunched30d int
	Survived14d         int
	SurvivalRate        *float64
	ClassifiedAt        time.Time
}

// AdSignalUpdate carries one ad's recomputed signal strength plus the
// denormalized track copy. The ad-level track is a read-optimization cache;
// the competitor row stays authoritative.
type AdSignalUpdate struct {
	AdID            string
	SignalStrength  int
	CompetitorTrack types.Track
}

// Store is the persistence collaborator the classifier reads and writes
// through. Implementations must give read-your-writes consistency within a
// run; the second scoring pass relies on the first pass's in-memory results.
type Store interface {
	ListCompetitors(ctx context.Context) ([]types.Competitor, error)
	ListAdsByCompetitor(ctx context.Context, competitorID string) ([]types.Ad, error)
	UpdateCompetitorClassification(ctx context.Context, update CompetitorClassificationUpdate) error
	InsertTrackChange(ctx context.Context, entry types.TrackChangeLogEntry) error
	BatchUpdateAdSignals(ctx context.Context, updates []AdSignalUpdate) error
}

// Pipeline is the nightly track-classification batch job. Construct with New;
// the store is injected so runs are testable without environment state.
type Pipeline struct {
	store Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// New creates a classification pipeline backed by the given store
func New(store Store, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// WithClock overrides the pipeline clock, used by tests for deterministic
// window boundaries.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run classifies every competitor, recomputes survival statistics, rescores
// every ad's signal strength against the competitor's current track, and logs
// track changes. Classification is best-effort per competitor: one failure
// increments Failed and the loop continues. A failure on the initial
// competitor query aborts the run with all-zero stats so the next scheduled
// invocation retries naturally.
func (p *Pipeline) Run(ctx context.Context) types.ClassificationStats {
	start := p.now()
	var stats types.ClassificationStats

	competitors, err := p.store.ListCompetitors(ctx)
	if err != nil {
		p.log.WithError(err).Error("competitor query failed, aborting classification run")
		return stats
	}
	if len(competitors) == 0 {
		return stats
	}

	stats.Total = len(competitors)
	var signalUpdates []AdSignalUpdate

	for _, comp := range competitors {
		updates, changed, err := p.classifyOne(ctx, comp)
		if err != nil {
			stats.Failed++
			p.log.WithError(err).WithField("competitor_id", comp.ID).Warn("failed to classify competitor")
			continue
		}
		stats.Classified++
		if changed {
			stats.TrackChanges++
		}
		signalUpdates = append(signalUpdates, updates...)
	}

	if len(signalUpdates) > 0 {
		if err := p.store.BatchUpdateAdSignals(ctx, signalUpdates); err != nil {
			p.log.WithError(err).Error("failed to persist ad signal updates")
		} else {
			stats.AdsScored = len(signalUpdates)
		}
	}

	stats.DurationMs = p.now().Sub(start).Milliseconds()
	metrics.PipelineRuns.WithLabelValues("classification").Inc()
	metrics.PipelineDuration.WithLabelValues("classification").Observe(float64(stats.DurationMs) / 1000)
	metrics.CompetitorsClassified.Add(float64(stats.Classified))
	metrics.TrackChanges.Add(float64(stats.TrackChanges))
	p.log.WithFields(logrus.Fields{
		"total":         stats.Total,
		"classified":    stats.Classified,
		"track_changes": stats.TrackChanges,
		"ads_scored":    stats.AdsScored,
		"failed":        stats.Failed,
		"duration_ms":   stats.DurationMs,
	}).Info("classification run complete")
	return stats
}

// classifyOne runs the full per-competitor pass and returns the signal
// updates for all of that competitor's ads.
func (p *Pipeline) classifyOne(ctx context.Context, comp types.Competitor) ([]AdSignalUpdate, bool, error) {
	now := p.now()
	lookbackCutoff := now.AddDate(0, 0, -LookbackDays)
	eligibilityCutoff := now.AddDate(0, 0, -SurvivalDays)

	ads, err := p.store.ListAdsByCompetitor(ctx, comp.ID)
	if err != nil {
		return nil, false, err
	}

	newAds30d := 0
	for _, ad := range ads {
		if !ad.LaunchDate.Before(lookbackCutoff) {
			newAds30d++
		}
	}

	track, changed := ClassifyCompetitor(newAds30d, comp.Track)

	// Survival statistics only apply to velocity testers with recent launches.
	survived14d := 0
	var survivalRate *float64
	if track == types.TrackVelocityTester && newAds30d > 0 {
		eligible := 0
		for _, ad := range ads {
			if ad.LaunchDate.Before(lookbackCutoff) || ad.LaunchDate.After(eligibilityCutoff) {
				continue
			}
			eligible++
			if AdSurvived(ad) {
				survived14d++
			}
		}
		if eligible > 0 {
			rate := float64(survived14d) / float64(eligible)
			survivalRate = &rate
		}
	}

	if err := p.store.UpdateCompetitorClassification(ctx, CompetitorClassificationUpdate{
		CompetitorID:        comp.ID,
		Track:               track,
		NewAds30d:           newAds30d,
		TotalAdsLaunched30d: newAds30d,
		Survived14d:         survived14d,
		SurvivalRate:        survivalRate,
		ClassifiedAt:        now,
	}); err != nil {
		return nil, false, err
	}

	if changed {
		if err := p.store.InsertTrackChange(ctx, types.TrackChangeLogEntry{
			CompetitorID:  comp.ID,
			PreviousTrack: comp.Track,
			NewTrack:      track,
			NewAds30d:     newAds30d,
			SurvivalRate:  survivalRate,
			Timestamp:     now,
		}); err != nil {
			return nil, false, err
		}
	}

	// Second pass covers every ad, not just the 30-day window: an ad's score
	// must reflect its competitor's current track even when the ad predates
	// the lookback window.
	rate := baselineSurvivalRate
	if survivalRate != nil {
		rate = *survivalRate
	}
	updates := make([]AdSignalUpdate, 0, len(ads))
	for _, ad := range ads {
		var signal int
		if track == types.TrackVelocityTester {
			signal = CalculateTrackBSignal(AdSurvived(ad), rate, ad.DaysActive)
		} else {
			signal = CalculateTrackASignal(ad.DaysActive, ad.VariationCount)
		}
		updates = append(updates, AdSignalUpdate{
			AdID:            ad.ID,
			SignalStrength:  signal,
			CompetitorTrack: track,
		})
	}

	return updates, changed, nil
}
