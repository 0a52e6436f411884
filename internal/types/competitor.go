package types

import "time"

// Track represents the behavioral track a competitor is classified into
type Track string

// Track values. A competitor has no track until its first classification.
const (
	// TrackConsolidator marks competitors running few, long-lived, iterated ads
	TrackConsolidator Track = "consolidator"
	// TrackVelocityTester marks competitors launching high volumes of short-lived ads
	TrackVelocityTester Track = "velocity_tester"
)

// Competitor represents a tracked advertiser.
// Classification fields are recomputed by every classifier run.
type Competitor struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Track               Track      `json:"track,omitempty"`
	NewAds30d           int        `json:"new_ads_30d"`
	TotalAdsLaunched30d int        `json:"total_ads_launched_30d"`
	Survived14d         int        `json:"survived_14d"`
	SurvivalRate        *float64   `json:"survival_rate,omitempty"`
	TrackClassifiedAt   *time.Time `json:"track_classified_at,omitempty"`
}

// TrackChangeLogEntry is an immutable record of a competitor moving between
// tracks. Written only when the computed track differs from the track stored
// at the start of a run; never updated or deleted.
type TrackChangeLogEntry struct {
	CompetitorID  string    `json:"competitor_id"`
	PreviousTrack Track     `json:"previous_track"`
	NewTrack      Track     `json:"new_track"`
	NewAds30d     int       `json:"new_ads_30d"`
	SurvivalRate  *float64  `json:"survival_rate,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
