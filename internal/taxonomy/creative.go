package taxonomy

import (
	"fmt"
	"strings"
)

// creativeDimensions is the fixed 12-dimension image creative taxonomy.
// Order matters for validation error ordering and prompt rendering.
var creativeDimensions = []Dimension{
	{Key: "format_type", Values: []string{"static_image", "carousel_card", "ugc_style", "studio_product", "meme_style", "screenshot"}},
	{Key: "hook_type_visual", Values: []string{"before_after", "product_demo", "lifestyle_scene", "text_led", "face_closeup", "unboxing"}},
	{Key: "human_presence", Values: []string{"none", "single_person", "multiple_people", "hands_only"}},
	{Key: "text_overlay_density", Values: []string{"none", "minimal", "moderate", "heavy"}},
	{Key: "text_overlay_position", Values: []string{"none", "top", "center", "bottom", "scattered"}},
	{Key: "color_temperature", Values: []string{"warm", "cool", "neutral", "high_contrast"}},
	{Key: "background_style", Values: []string{"solid_color", "gradient", "real_world", "studio", "pattern"}},
	{Key: "product_visibility", Values: []string{"hero", "featured", "subtle", "absent"}},
	{Key: "cta_visual_style", Values: []string{"button", "text_only", "arrow_pointer", "none"}},
	{Key: "visual_composition", Values: []string{"centered", "rule_of_thirds", "grid", "collage", "asymmetric"}},
	{Key: "brand_element_presence", Values: []string{"prominent_logo", "subtle_logo", "watermark", "none"}},
	{Key: "emotion_energy_level", Values: []string{"calm", "moderate", "energetic", "urgent"}},
}

// CreativeDimensions returns the ordered image taxonomy dimensions
func CreativeDimensions() []Dimension {
	return creativeDimensions
}

// CreativeDimensionKeys returns the 12 dimension keys in taxonomy order
func CreativeDimensionKeys() []string {
	keys := make([]string, len(creativeDimensions))
	for i, dim := range creativeDimensions {
		keys[i] = dim.Key
	}
	return keys
}

// ValidateTagSet validates an arbitrary candidate object against the image
// creative taxonomy. All violations are collected; a tag set is only storable
// when Valid is true.
func ValidateTagSet(candidate any) Result {
	return validateAgainst(creativeDimensions, candidate)
}

// BuildTaggingPrompt renders the vision-tagging instruction prompt for image
// creatives. Every dimension key and allowed value appears quoted.
func BuildTaggingPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an expert advertising creative analyst. ")
	sb.WriteString("Analyze the ad image and classify it along every dimension below.\n\n")
	sb.WriteString("Dimensions:\n")
	renderDimensionList(&sb, creativeDimensions)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Return ONLY a JSON object with no markdown formatting, no code fences, and no commentary. "+
		"The object must contain exactly the %d dimension keys above, each set to one of its allowed values.\n", len(creativeDimensions)))

	return sb.String()
}
