package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVideoTagSet() map[string]any {
	tags := make(map[string]any)
	for _, dim := range videoDimensions {
		tags[dim.Key] = dim.Values[0]
	}
	return tags
}

func TestVideoTaxonomy_Shape(t *testing.T) {
	require.Len(t, videoDimensions, 7)

	seen := make(map[string]bool)
	for _, dim := range videoDimensions {
		assert.False(t, seen[dim.Key], "duplicate dimension key %s", dim.Key)
		seen[dim.Key] = true
		assert.GreaterOrEqual(t, len(dim.Values), 2)

		values := make(map[string]bool)
		for _, v := range dim.Values {
			assert.False(t, values[v], "duplicate value %q in %s", v, dim.Key)
			values[v] = true
		}
	}
}

func TestValidateVideoTagSet_Valid(t *testing.T) {
	result := ValidateVideoTagSet(validVideoTagSet())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateVideoTagSet_MissingAndInvalid(t *testing.T) {
	tags := validVideoTagSet()
	delete(tags, "pacing")
	tags["audio_style"] = "asmr"

	result := ValidateVideoTagSet(tags)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors, "Missing dimension: pacing")
}

func TestValidateVideoTagSet_NilInput(t *testing.T) {
	result := ValidateVideoTagSet(nil)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Tags must be a non-null object", result.Errors[0])
}

func TestGetDurationBucket_Boundaries(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "under_15s"},
		{14.9, "under_15s"},
		{15, "15_to_30s"},
		{29.9, "15_to_30s"},
		{30, "30_to_60s"},
		{59.9, "30_to_60s"},
		{60, "over_60s"},
		{600, "over_60s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetDurationBucket(tt.seconds), "seconds=%v", tt.seconds)
	}
}

func TestBuildVideoTaggingPrompt_ExcludesDurationBucket(t *testing.T) {
	prompt := BuildVideoTaggingPrompt("Stop scrolling, this changes everything.", "format_type=ugc_style")
	assert.NotContains(t, prompt, DurationBucketKey)
	assert.Contains(t, prompt, "6 dimension keys")
}

func TestBuildVideoTaggingPrompt_EmbedsTranscriptVerbatim(t *testing.T) {
	transcript := "Here's why nobody tells you about shipping costs."
	prompt := BuildVideoTaggingPrompt(transcript, "hook summary")

	assert.Contains(t, prompt, transcript)
	assert.Contains(t, prompt, "hook summary")
	assert.Contains(t, prompt, "ONLY a JSON object")
	assert.Contains(t, prompt, "no markdown")
}

func TestBuildVideoTaggingPrompt_EmptyTranscriptPlaceholder(t *testing.T) {
	for _, transcript := range []string{"", "   "} {
		prompt := BuildVideoTaggingPrompt(transcript, "summary")
		assert.Contains(t, prompt, NoSpeechPlaceholder)
	}
}

func TestFormatHookTagSummary(t *testing.T) {
	summary := FormatHookTagSummary(map[string]string{
		"human_presence": "single_person",
		"format_type":    "ugc_style",
	})
	// Deterministic sorted order
	assert.Equal(t, "format_type=ugc_style, human_presence=single_person", summary)

	assert.Equal(t, "No hook frame tags available", FormatHookTagSummary(nil))
}
