package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/admirror/internal/llm"
	"github.com/jonathan/admirror/internal/taxonomy"
	"github.com/jonathan/admirror/internal/types"
)

// CallCost carries the telemetry of one AI call for the cost ledger
type CallCost struct {
	Model            string
	InputTokens      int
	OutputTokens     int
	EstimatedCostUSD float64
	DurationMs       int64
}

// ShiftAnalysis summarizes scene changes across the keyframe sequence.
// Supporting evidence for pacing/narrative inference, never validated on its own.
type ShiftAnalysis struct {
	ShiftCount int    `json:"shift_count"`
	Summary    string `json:"summary"`
}

// VideoVision is the video vision collaborator contract
type VideoVision interface {
	// TagHookFrame tags the opening frame with the image creative taxonomy
	TagHookFrame(ctx context.Context, framePath string) (types.TagSet, *CallCost, error)
	// DetectVisualShifts counts and summarizes scene changes across frames
	DetectVisualShifts(ctx context.Context, framePaths []string) (*ShiftAnalysis, *CallCost, error)
	// TagVideoContent infers the six AI-derived video dimensions
	TagVideoContent(ctx context.Context, transcript, hookSummary string, shifts *ShiftAnalysis) (map[string]any, *CallCost, error)
}

// GeminiVideoVision implements VideoVision with Gemini models
type GeminiVideoVision struct {
	client llm.Client
}

// NewGeminiVideoVision creates a video vision collaborator over the given client
func NewGeminiVideoVision(client llm.Client) *GeminiVideoVision {
	return &GeminiVideoVision{client: client}
}

// TagHookFrame runs the image taxonomy prompt against the first keyframe.
// The result gives the video pipeline continuity with per-image tags and
// feeds the narrative-context prompt.
func (v *GeminiVideoVision) TagHookFrame(ctx context.Context, framePath string) (types.TagSet, *CallCost, error) {
	data, err := os.ReadFile(framePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read hook frame %s: %w", framePath, err)
	}

	start := time.Now()
	text, usage, err := v.client.GenerateWithMedia(ctx, taxonomy.BuildTaggingPrompt(),
		[]llm.Blob{{MIMEType: "image/jpeg", Data: data}}, llm.TierStandard)
	cost := v.cost(llm.TierStandard, usage, start)
	if err != nil {
		return nil, cost, fmt.Errorf("hook frame tagging failed: %w", err)
	}

	var candidate any
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &candidate); err != nil {
		return nil, cost, fmt.Errorf("failed to parse hook frame response: %w", err)
	}
	validation := taxonomy.ValidateTagSet(candidate)
	if !validation.Valid {
		return nil, cost, fmt.Errorf("hook frame validation failed: %s", strings.Join(validation.Errors, "; "))
	}

	obj := candidate.(map[string]any)
	tags := make(types.TagSet, len(taxonomy.CreativeDimensionKeys()))
	for _, key := range taxonomy.CreativeDimensionKeys() {
		tags[key] = obj[key].(string)
	}
	return tags, cost, nil
}

const shiftPrompt = "These images are keyframes sampled in order from a video ad. " +
	"Count the visual scene changes (cuts, location changes, major composition shifts) across the sequence " +
	"and summarize the visual progression in one sentence. " +
	`Return ONLY a JSON object with no markdown formatting: {"shift_count": <int>, "summary": "<string>"}`

// DetectVisualShifts sends the ordered keyframes and parses the shift summary
func (v *GeminiVideoVision) DetectVisualShifts(ctx context.Context, framePaths []string) (*ShiftAnalysis, *CallCost, error) {
	media := make([]llm.Blob, 0, len(framePaths))
	for _, path := range framePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read frame %s: %w", path, err)
		}
		media = append(media, llm.Blob{MIMEType: "image/jpeg", Data: data})
	}

	start := time.Now()
	text, usage, err := v.client.GenerateWithMedia(ctx, shiftPrompt, media, llm.TierLite)
	cost := v.cost(llm.TierLite, usage, start)
	if err != nil {
		return nil, cost, fmt.Errorf("visual shift detection failed: %w", err)
	}

	var analysis ShiftAnalysis
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &analysis); err != nil {
		return nil, cost, fmt.Errorf("failed to parse shift analysis: %w", err)
	}
	return &analysis, cost, nil
}

// TagVideoContent infers the six AI-derived dimensions from transcript, hook
// tags, and shift evidence. The duration bucket is never asked of the model;
// the pipeline computes and merges it locally.
func (v *GeminiVideoVision) TagVideoContent(ctx context.Context, transcript, hookSummary string, shifts *ShiftAnalysis) (map[string]any, *CallCost, error) {
	prompt := taxonomy.BuildVideoTaggingPrompt(transcript, hookSummary)
	if shifts != nil {
		prompt += fmt.Sprintf("\nVisual shift evidence: %d scene changes. %s\n", shifts.ShiftCount, shifts.Summary)
	}

	start := time.Now()
	text, usage, err := v.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	cost := v.cost(llm.TierAdvanced, usage, start)
	if err != nil {
		return nil, cost, fmt.Errorf("video content tagging failed: %w", err)
	}

	var candidate map[string]any
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &candidate); err != nil {
		return nil, cost, fmt.Errorf("failed to parse video tag response: %w", err)
	}
	return candidate, cost, nil
}

func (v *GeminiVideoVision) cost(tier llm.ModelTier, usage *llm.Usage, start time.Time) *CallCost {
	cost := &CallCost{
		Model:      v.client.GetModel(tier),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if usage != nil {
		cost.InputTokens = usage.InputTokens
		cost.OutputTokens = usage.OutputTokens
		cost.EstimatedCostUSD = llm.EstimateCostUSD(usage.InputTokens, usage.OutputTokens)
	}
	return cost
}
