package classification

import (
	"testing"

	"github.com/jonathan/admirror/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestClassifyCompetitor_Threshold(t *testing.T) {
	track, _ := ClassifyCompetitor(9, "")
	assert.Equal(t, types.TrackConsolidator, track)

	track, _ = ClassifyCompetitor(10, "")
	assert.Equal(t, types.TrackVelocityTester, track)

	track, _ = ClassifyCompetitor(0, types.TrackVelocityTester)
	assert.Equal(t, types.TrackConsolidator, track)
}

func TestClassifyCompetitor_FirstClassificationIsNeverAChange(t *testing.T) {
	_, changed := ClassifyCompetitor(25, "")
	assert.False(t, changed)

	_, changed = ClassifyCompetitor(3, "")
	assert.False(t, changed)
}

func TestClassifyCompetitor_TrackChanged(t *testing.T) {
	_, changed := ClassifyCompetitor(15, types.TrackConsolidator)
	assert.True(t, changed)

	_, changed = ClassifyCompetitor(15, types.TrackVelocityTester)
	assert.False(t, changed)

	_, changed = ClassifyCompetitor(2, types.TrackVelocityTester)
	assert.True(t, changed)
}

func TestCalculateTrackASignal_Saturation(t *testing.T) {
	// Both components saturated
	assert.Equal(t, 100, CalculateTrackASignal(90, 5))
	assert.Equal(t, 100, CalculateTrackASignal(400, 20))
}

func TestCalculateTrackASignal_FloorOfOne(t *testing.T) {
	assert.GreaterOrEqual(t, CalculateTrackASignal(0, 0), 1)
}

func TestCalculateTrackASignal_DurationDominates(t *testing.T) {
	// 90 days with no variation beats 0 days with max variation
	assert.Greater(t, CalculateTrackASignal(90, 1), CalculateTrackASignal(0, 5))
}

func TestCalculateTrackASignal_Monotonic(t *testing.T) {
	prev := CalculateTrackASignal(0, 3)
	for days := 1; days <= 120; days++ {
		s := CalculateTrackASignal(days, 3)
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}

	prev = CalculateTrackASignal(45, 0)
	for variations := 1; variations <= 10; variations++ {
		s := CalculateTrackASignal(45, variations)
		assert.GreaterOrEqual(t, s, prev)
		prev = s
	}
}

func TestCalculateTrackBSignal_SurvivorScores(t *testing.T) {
	// Surviving a selective filter is a strong signal
	assert.GreaterOrEqual(t, CalculateTrackBSignal(true, 0.1, 30), 80)
	// Surviving an unselective filter is weak evidence
	assert.LessOrEqual(t, CalculateTrackBSignal(true, 0.8, 30), 50)
	// Floor for survivors
	assert.GreaterOrEqual(t, CalculateTrackBSignal(true, 0.99, 30), 10)
}

func TestCalculateTrackBSignal_KilledScores(t *testing.T) {
	assert.LessOrEqual(t, CalculateTrackBSignal(false, 0.1, 5), 15)
	assert.Equal(t, 1, CalculateTrackBSignal(false, 0.5, 0))
	// Killed after two weeks caps at 15 no matter how long it ran
	assert.Equal(t, 15, CalculateTrackBSignal(false, 0.5, 40))
}

func TestCalculateTrackBSignal_Bounds(t *testing.T) {
	for _, rate := range []float64{0, 0.25, 0.5, 0.75, 1} {
		for _, days := range []int{0, 5, 14, 60} {
			for _, survived := range []bool{true, false} {
				s := CalculateTrackBSignal(survived, rate, days)
				assert.GreaterOrEqual(t, s, 1)
				assert.LessOrEqual(t, s, 100)
			}
		}
	}
}

func TestAdSurvived(t *testing.T) {
	assert.True(t, AdSurvived(types.Ad{IsActive: true, DaysActive: 2}))
	// Inactive but lived long enough before disappearing
	assert.True(t, AdSurvived(types.Ad{IsActive: false, DaysActive: 14}))
	assert.False(t, AdSurvived(types.Ad{IsActive: false, DaysActive: 13}))
}
