package taxonomy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validCreativeTagSet returns a complete tag set using each dimension's first value
func validCreativeTagSet() map[string]any {
	tags := make(map[string]any)
	for _, dim := range creativeDimensions {
		tags[dim.Key] = dim.Values[0]
	}
	return tags
}

func TestCreativeTaxonomy_Shape(t *testing.T) {
	require.Len(t, creativeDimensions, 12)

	seen := make(map[string]bool)
	for _, dim := range creativeDimensions {
		assert.False(t, seen[dim.Key], "duplicate dimension key %s", dim.Key)
		seen[dim.Key] = true

		assert.GreaterOrEqual(t, len(dim.Values), 2, "dimension %s needs at least 2 values", dim.Key)

		values := make(map[string]bool)
		for _, v := range dim.Values {
			assert.False(t, values[v], "duplicate value %q in dimension %s", v, dim.Key)
			values[v] = true
		}
	}
}

func TestValidateTagSet_Valid(t *testing.T) {
	result := ValidateTagSet(validCreativeTagSet())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateTagSet_NonObjectInputs(t *testing.T) {
	for _, candidate := range []any{nil, "a string", 42, []any{"format_type"}} {
		result := ValidateTagSet(candidate)
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Tags must be a non-null object", result.Errors[0])
	}
}

func TestValidateTagSet_OneMissingDimension(t *testing.T) {
	tags := validCreativeTagSet()
	delete(tags, "color_temperature")

	result := ValidateTagSet(tags)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Missing dimension: color_temperature", result.Errors[0])
}

func TestValidateTagSet_TwoMissingDimensions(t *testing.T) {
	tags := validCreativeTagSet()
	delete(tags, "format_type")
	delete(tags, "cta_visual_style")

	result := ValidateTagSet(tags)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors, "Missing dimension: format_type")
	assert.Contains(t, result.Errors, "Missing dimension: cta_visual_style")
}

func TestValidateTagSet_InvalidValue(t *testing.T) {
	tags := validCreativeTagSet()
	tags["human_presence"] = "crowd"

	result := ValidateTagSet(tags)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Invalid value for human_presence")
	// Message includes the allowed set
	assert.Contains(t, result.Errors[0], "single_person")
}

func TestValidateTagSet_NonStringValue(t *testing.T) {
	tags := validCreativeTagSet()
	tags["text_overlay_density"] = 3

	result := ValidateTagSet(tags)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Invalid value for text_overlay_density")
}

func TestValidateTagSet_AccumulatesMixedViolations(t *testing.T) {
	tags := validCreativeTagSet()
	delete(tags, "format_type")
	tags["pacing_bogus_extra"] = "ignored" // extra keys are not an error
	tags["emotion_energy_level"] = "frantic"

	result := ValidateTagSet(tags)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
}

func TestBuildTaggingPrompt_ContainsTaxonomyAndContract(t *testing.T) {
	prompt := BuildTaggingPrompt()

	for _, dim := range creativeDimensions {
		assert.Contains(t, prompt, fmt.Sprintf("%q", dim.Key))
		for _, v := range dim.Values {
			assert.Contains(t, prompt, fmt.Sprintf("%q", v))
		}
	}

	assert.Contains(t, prompt, "ONLY a JSON object")
	assert.Contains(t, prompt, "no markdown")
}

func TestBuildTaggingPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, BuildTaggingPrompt(), BuildTaggingPrompt())
	assert.True(t, strings.Contains(BuildTaggingPrompt(), "12 dimension keys"))
}
