// Package tagging implements the image creative-tagging pipeline: a batch job
// that selects untagged ads, runs the vision-tagging collaborator, validates
// the result against the creative taxonomy, and maintains per-ad retry state.
package tagging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/admirror/internal/fetch"
	"github.com/jonathan/admirror/internal/llm"
	"github.com/jonathan/admirror/internal/taxonomy"
	"github.com/jonathan/admirror/internal/types"
)

// Collaborator error strings. RATE_LIMITED is distinct so operators can tell
// provider throttling from content failure in the cost ledger.
const (
	ErrFetchFailed = "Failed to fetch image"
	ErrParseFailed = "Failed to parse JSON response"
	ErrRateLimited = "RATE_LIMITED"
)

// TaggingResult is the observable outcome of one vision-tagging attempt
type TaggingResult struct {
	Tags             types.TagSet
	Error            string
	ImageHash        string
	DuplicateOfAdID  string
	Model            string
	InputTokens      int
	OutputTokens     int
	EstimatedCostUSD float64
	DurationMs       int64
}

// Failed reports whether the attempt produced no usable tag set
func (r *TaggingResult) Failed() bool {
	return r.Error != ""
}

// ImageTagger is the vision-tagging collaborator contract
type ImageTagger interface {
	TagAdImage(ctx context.Context, imageURL string) *TaggingResult
}

// HashLookup resolves an image hash to the tags of an already-tagged ad,
// letting the tagger skip the AI call for duplicate creative content.
type HashLookup interface {
	FindTagsByImageHash(ctx context.Context, hash string) (types.TagSet, string, error)
}

// GeminiImageTagger tags ad images with the Gemini vision model
type GeminiImageTagger struct {
	client    llm.Client
	hashes    HashLookup
	fetchOpts *fetch.Options
}

// NewGeminiImageTagger creates an image tagger. hashes may be nil to disable
// dedup short-circuiting.
func NewGeminiImageTagger(client llm.Client, hashes HashLookup) *GeminiImageTagger {
	return &GeminiImageTagger{
		client:    client,
		hashes:    hashes,
		fetchOpts: fetch.DefaultOptions(),
	}
}

// TagAdImage fetches the creative, short-circuits on a known image hash, and
// otherwise runs the vision model and validates its output against the
// creative taxonomy. All failure modes are reported through Error rather than
// a Go error: the pipeline treats them uniformly as per-item failures.
func (t *GeminiImageTagger) TagAdImage(ctx context.Context, imageURL string) *TaggingResult {
	start := time.Now()
	result := &TaggingResult{Model: t.client.GetModel(llm.TierStandard)}
	defer func() { result.DurationMs = time.Since(start).Milliseconds() }()

	img, err := fetch.FetchImage(ctx, imageURL, t.fetchOpts)
	if err != nil {
		result.Error = ErrFetchFailed
		return result
	}

	hash := sha256.Sum256(img.Data)
	result.ImageHash = hex.EncodeToString(hash[:])

	if t.hashes != nil {
		if tags, adID, err := t.hashes.FindTagsByImageHash(ctx, result.ImageHash); err == nil && adID != "" {
			result.Tags = tags
			result.DuplicateOfAdID = adID
			return result
		}
	}

	text, usage, err := t.client.GenerateWithMedia(ctx, taxonomy.BuildTaggingPrompt(),
		[]llm.Blob{{MIMEType: fetch.ImageMIMEType(img), Data: img.Data}}, llm.TierStandard)
	if err != nil {
		if llm.IsRateLimited(err) {
			result.Error = ErrRateLimited
		} else {
			result.Error = fmt.Sprintf("Generation failed: %v", err)
		}
		return result
	}

	result.InputTokens = usage.InputTokens
	result.OutputTokens = usage.OutputTokens
	result.EstimatedCostUSD = llm.EstimateCostUSD(usage.InputTokens, usage.OutputTokens)

	var candidate any
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &candidate); err != nil {
		result.Error = ErrParseFailed
		return result
	}

	validation := taxonomy.ValidateTagSet(candidate)
	if !validation.Valid {
		result.Error = "Validation failed: " + strings.Join(validation.Errors, "; ")
		return result
	}

	obj := candidate.(map[string]any)
	tags := make(types.TagSet, len(taxonomy.CreativeDimensionKeys()))
	for _, key := range taxonomy.CreativeDimensionKeys() {
		tags[key] = obj[key].(string)
	}
	result.Tags = tags
	return result
}
