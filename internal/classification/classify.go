// Package classification implements the competitor track classifier: nightly
// batch classification of posting behavior into tracks, survival statistics
// for velocity testers, and per-ad signal-strength scoring.
package classification

import (
	"math"

	"github.com/jonathan/admirror/internal/types"
)

// Classification thresholds
const (
	// NewAdsThreshold is the 30-day launch count at which a competitor
	// becomes a velocity tester
	NewAdsThreshold = 10
	// SurvivalDays is how long an ad must live to count as survived
	SurvivalDays = 14
	// LookbackDays is the trailing window for posting-velocity counts
	LookbackDays = 30
)

// Signal scoring parameters
const (
	// durationNormDays is the age at which a consolidator ad's duration
	// component saturates
	durationNormDays = 90.0
	// variationNorm is the variation count at which the variation component saturates
	variationNorm   = 5.0
	durationWeight  = 0.7
	variationWeight = 0.3

	// baselineSurvivalRate is the survival rate treated as neutral selectivity
	baselineSurvivalRate = 0.5
	// killedSignalCap caps the score of ads a velocity tester killed early
	killedSignalCap = 15
	// survivorSignalFloor is the minimum score for an ad that survived the filter
	survivorSignalFloor = 10
)

// ClassifyCompetitor determines a competitor's track from its 30-day launch
// count. trackChanged is true only when a non-empty previous track differs
// from the new one; a first-ever classification is never a change.
func ClassifyCompetitor(newAds30d int, previousTrack types.Track) (types.Track, bool) {
	track := types.TrackConsolidator
	if newAds30d >= NewAdsThreshold {
		track = types.TrackVelocityTester
	}
	changed := previousTrack != "" && previousTrack != track
	return track, changed
}

// AdSurvived reports whether an ad lived through the survival filter. An ad
// marked inactive by sync still counts as survived if it lived long enough
// before disappearing.
func AdSurvived(ad types.Ad) bool {
	return ad.IsActive || ad.DaysActive >= SurvivalDays
}

// CalculateTrackASignal scores a consolidator's ad. Duration dominates:
// iterating slowly on few ads proves commitment, with variation count as
// secondary corroboration. Result is always within [1,100].
func CalculateTrackASignal(daysActive, variationCount int) int {
	durationScore := math.Min(float64(daysActive)/durationNormDays, 1)
	variationScore := math.Min(float64(variationCount)/variationNorm, 1)
	raw := (durationScore*durationWeight + variationScore*variationWeight) * 100
	return int(math.Round(clamp(raw, 1, 100)))
}

// CalculateTrackBSignal scores a velocity tester's ad. Surviving is only a
// strong signal when most sibling ads died; killed ads get a low score that
// still separates "killed immediately" from "killed after two weeks".
// Result is always within [1,100].
func CalculateTrackBSignal(survived bool, survivalRate float64, daysActive int) int {
	if !survived {
		return int(math.Round(clamp(float64(daysActive), 1, killedSignalCap)))
	}

	selectivity := 1 - survivalRate
	selectivityMultiplier := selectivity / (1 - baselineSurvivalRate)
	raw := math.Min(selectivityMultiplier, 1) * 100
	return int(math.Round(clamp(raw, survivorSignalFloor, 100)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
