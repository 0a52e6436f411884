package types

import (
	"time"

	"github.com/google/uuid"
)

// ClassificationStats summarizes one track-classification run
type ClassificationStats struct {
	Total        int   `json:"total"`
	Classified   int   `json:"classified"`
	TrackChanges int   `json:"track_changes"`
	AdsScored    int   `json:"ads_scored"`
	Failed       int   `json:"failed"`
	DurationMs   int64 `json:"duration_ms"`
}

// TaggingStats summarizes one image-tagging pipeline run
type TaggingStats struct {
	Total        int     `json:"total"`
	Tagged       int     `json:"tagged"`
	Deduped      int     `json:"deduped"`
	Failed       int     `json:"failed"`
	Skipped      int     `json:"skipped"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	DurationMs   int64   `json:"duration_ms"`
}

// VideoTaggingStats summarizes one video-tagging pipeline run
type VideoTaggingStats struct {
	Total        int     `json:"total"`
	Tagged       int     `json:"tagged"`
	Failed       int     `json:"failed"`
	Skipped      int     `json:"skipped"`
	NoAudio      int     `json:"no_audio"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	DurationMs   int64   `json:"duration_ms"`
}

// CostLogEntry records one AI call that consumed tokens or time, successful
// or not, for later spend aggregation.
type CostLogEntry struct {
	ID               uuid.UUID `json:"id"`
	AdID             string    `json:"ad_id"`
	Model            string    `json:"model"`
	InputTokens      int       `json:"input_tokens"`
	OutputTokens     int       `json:"output_tokens"`
	EstimatedCostUSD float64   `json:"estimated_cost_usd"`
	DurationMs       int64     `json:"duration_ms"`
	Success          bool      `json:"success"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
