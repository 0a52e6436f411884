package taxonomy

import (
	"fmt"
	"sort"
	"strings"
)

// DurationBucketKey is the one video dimension computed deterministically
// from metadata rather than inferred by the AI.
const DurationBucketKey = "video_duration_bucket"

// NoSpeechPlaceholder is embedded in the video prompt when no transcript exists
const NoSpeechPlaceholder = "No speech detected"

// videoDimensions is the fixed 7-dimension video creative taxonomy.
// video_duration_bucket is validated like any other dimension but is always
// filled in locally from video metadata.
var videoDimensions = []Dimension{
	{Key: "script_structure", Values: []string{"problem_solution", "testimonial", "listicle", "narrative_story", "demo_walkthrough", "direct_pitch"}},
	{Key: "verbal_hook_type", Values: []string{"question", "bold_claim", "statistic", "relatable_pain", "curiosity_gap", "none"}},
	{Key: "pacing", Values: []string{"slow", "moderate", "fast", "mixed"}},
	{Key: "audio_style", Values: []string{"voiceover", "talking_head", "music_only", "dialogue", "silent"}},
	{Key: DurationBucketKey, Values: []string{"under_15s", "15_to_30s", "30_to_60s", "over_60s"}},
	{Key: "narrative_arc", Values: []string{"hook_build_payoff", "steady_pitch", "montage", "loop", "tutorial_steps"}},
	{Key: "opening_frame", Values: []string{"face_closeup", "product_shot", "text_card", "action_scene", "screen_recording"}},
}

// VideoDimensions returns the ordered video taxonomy dimensions
func VideoDimensions() []Dimension {
	return videoDimensions
}

// ValidateVideoTagSet validates a candidate object against the video taxonomy.
// Same contract shape as ValidateTagSet: errors accumulate, never short-circuit.
func ValidateVideoTagSet(candidate any) Result {
	return validateAgainst(videoDimensions, candidate)
}

// GetDurationBucket buckets a video duration in seconds. Boundaries are
// inclusive-lower, exclusive-upper: [0,15) [15,30) [30,60) [60,inf).
func GetDurationBucket(seconds float64) string {
	switch {
	case seconds < 15:
		return "under_15s"
	case seconds < 30:
		return "15_to_30s"
	case seconds < 60:
		return "30_to_60s"
	default:
		return "over_60s"
	}
}

// FormatHookTagSummary renders an image-taxonomy tag set as a human-readable
// summary line for embedding in the video prompt. Keys render in sorted order
// so the summary is deterministic.
func FormatHookTagSummary(hookTags map[string]string) string {
	if len(hookTags) == 0 {
		return "No hook frame tags available"
	}

	keys := make([]string, 0, len(hookTags))
	for k := range hookTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, hookTags[k]))
	}
	return strings.Join(parts, ", ")
}

// BuildVideoTaggingPrompt renders the video-tagging instruction prompt.
// The duration bucket dimension is excluded because it is fully determined by
// metadata; the transcript is embedded verbatim, substituting a placeholder
// when the video has no speech.
func BuildVideoTaggingPrompt(transcript, hookTagsSummary string) string {
	inferred := make([]Dimension, 0, len(videoDimensions)-1)
	for _, dim := range videoDimensions {
		if dim.Key != DurationBucketKey {
			inferred = append(inferred, dim)
		}
	}

	if strings.TrimSpace(transcript) == "" {
		transcript = NoSpeechPlaceholder
	}

	var sb strings.Builder
	sb.WriteString("You are an expert advertising creative analyst. ")
	sb.WriteString("Classify the video ad along every dimension below, using the transcript, ")
	sb.WriteString("the opening-frame tags, and the visual shift data provided.\n\n")
	sb.WriteString("Dimensions:\n")
	renderDimensionList(&sb, inferred)
	sb.WriteString("\nTranscript:\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\nOpening frame tags: ")
	sb.WriteString(hookTagsSummary)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Return ONLY a JSON object with no markdown formatting, no code fences, and no commentary. "+
		"The object must contain exactly the %d dimension keys above, each set to one of its allowed values.\n", len(inferred)))

	return sb.String()
}
