// Package confidence converts raw ad quality scores into time-decayed
// confidence scores and discrete reliability labels. Age is treated as
// evidence of real performance: a long-running, merely-good ad can outrank a
// brand-new ad with a higher raw score.
package confidence

import (
	"math"
	"sort"

	"github.com/jonathan/admirror/internal/types"
)

// Decay parameters for the confidence multiplier
const (
	// minMultiplier is the floor applied to a brand-new ad's raw score
	minMultiplier = 0.60
	// decayTauDays controls how quickly age restores full credit
	decayTauDays = 30.0
)

// Label thresholds in days active
const (
	earlySignalMinDays = 7
	validatedMinDays   = 30
	provenMinDays      = 60
)

// Label is a discrete reliability bucket derived from ad age
type Label string

// Confidence labels, ordered from least to most reliable
const (
	LabelUnproven    Label = "Unproven"
	LabelEarlySignal Label = "Early Signal"
	LabelValidated   Label = "Validated"
	LabelProven      Label = "Proven"
)

// ComputeScore applies an exponential time-decay multiplier to a raw quality
// score. At daysActive=0 the multiplier is exactly minMultiplier; it
// approaches 1 as the ad ages.
func ComputeScore(qualityScore float64, daysActive int) int {
	multiplier := minMultiplier + (1-minMultiplier)*(1-math.Exp(-float64(daysActive)/decayTauDays))
	return int(math.Round(qualityScore * multiplier))
}

// GetLabel buckets an ad's age into a reliability label.
// Boundaries are inclusive of the lower bound: 0-6 Unproven, 7-29 Early
// Signal, 30-59 Validated, 60+ Proven.
func GetLabel(daysActive int) Label {
	switch {
	case daysActive >= provenMinDays:
		return LabelProven
	case daysActive >= validatedMinDays:
		return LabelValidated
	case daysActive >= earlySignalMinDays:
		return LabelEarlySignal
	default:
		return LabelUnproven
	}
}

// IsProvenOrValidated reports whether an ad has been active long enough to
// count as validated evidence.
func IsProvenOrValidated(daysActive int) bool {
	return daysActive >= validatedMinDays
}

// Compare is a descending comparator over confidence scores, suitable for
// slices.SortFunc-style ordering. Ties keep the underlying order stable.
func Compare(qualityA float64, daysActiveA int, qualityB float64, daysActiveB int) int {
	return ComputeScore(qualityB, daysActiveB) - ComputeScore(qualityA, daysActiveA)
}

// SortAds orders ads by confidence score, highest first, using each ad's
// signal strength as the raw quality score. The sort is stable so equal
// scores keep their incoming order.
func SortAds(ads []types.Ad) {
	sort.SliceStable(ads, func(i, j int) bool {
		return ComputeScore(float64(ads[i].SignalStrength), ads[i].DaysActive) >
			ComputeScore(float64(ads[j].SignalStrength), ads[j].DaysActive)
	})
}
