// Package types provides type definitions for structured data used throughout the admirror system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// TaggingStatus represents the lifecycle state of an ad's creative tagging
type TaggingStatus string

// Tagging status values
const (
	// TaggingPending means the ad has not been tagged yet
	TaggingPending TaggingStatus = "pending"
	// TaggingInProgress means a pipeline run has claimed the ad
	TaggingInProgress TaggingStatus = "in_progress"
	// TaggingTagged means a validated tag set has been persisted
	TaggingTagged TaggingStatus = "tagged"
	// TaggingFailed means the last attempt failed and will be retried
	TaggingFailed TaggingStatus = "failed"
	// TaggingSkipped means the retry budget was exhausted; the ad is never re-selected
	TaggingSkipped TaggingStatus = "skipped"
	// TaggingNotApplicable means the ad's format cannot be tagged (e.g., image tagging of a carousel)
	TaggingNotApplicable TaggingStatus = "not_applicable"
)

// TagSet holds a validated taxonomy tag set keyed by dimension
type TagSet map[string]string

// Ad represents a competitor advertising creative scraped from the ad library.
// Identity fields are written by the external sync; the classifier and tagging
// pipelines only write the derived fields (signal strength, tagging state, tags).
type Ad struct {
	ID                   string        `json:"id"`
	CompetitorID         string        `json:"competitor_id"`
	DaysActive           int           `json:"days_active"`
	VariationCount       int           `json:"variation_count"`
	IsActive             bool          `json:"is_active"`
	LaunchDate           time.Time     `json:"launch_date"`
	SignalStrength       int           `json:"signal_strength,omitempty"`
	CompetitorTrack      Track         `json:"competitor_track,omitempty"`
	TaggingStatus        TaggingStatus `json:"tagging_status"`
	TaggingRetryCount    int           `json:"tagging_retry_count"`
	VideoTaggingStatus   TaggingStatus `json:"video_tagging_status"`
	VideoTaggingRetry    int           `json:"video_tagging_retry_count"`
	ImageHash            string        `json:"image_hash,omitempty"`
	Tags                 TagSet        `json:"tags,omitempty"`
	VideoTags            TagSet        `json:"video_tags,omitempty"`
	IsVideo              bool          `json:"is_video"`
	VideoDurationSeconds float64       `json:"video_duration,omitempty"`
	VideoURL             string        `json:"video_url,omitempty"`
	ThumbnailURL         string        `json:"thumbnail_url,omitempty"`
}
