package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCreativeTags = `{
	"format_type": "static_image",
	"hook_type_visual": "product_demo",
	"human_presence": "single_person",
	"text_overlay_density": "minimal",
	"text_overlay_position": "top",
	"color_temperature": "warm",
	"background_style": "studio",
	"product_visibility": "hero",
	"cta_visual_style": "button",
	"visual_composition": "centered",
	"brand_element_presence": "prominent_logo",
	"emotion_energy_level": "energetic"
}`

func TestValidateTagsCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	writeTags := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "tags.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("Valid creative tags pass", func(t *testing.T) {
		path := writeTags(t, validCreativeTags)
		output, err := exec.Command(binaryPath, "validate-tags", "--file", path).CombinedOutput()
		assert.NoError(t, err)
		assert.Contains(t, string(output), "Tag file is valid")
	})

	t.Run("Unknown tag value fails", func(t *testing.T) {
		path := writeTags(t, `{"format_type": "hologram"}`)
		output, err := exec.Command(binaryPath, "validate-tags", "--file", path).CombinedOutput()
		assert.Error(t, err)
		assert.Contains(t, string(output), "does not validate against schema")
	})

	t.Run("Unknown kind is rejected", func(t *testing.T) {
		path := writeTags(t, validCreativeTags)
		output, err := exec.Command(binaryPath, "validate-tags", "--file", path, "--kind", "audio").CombinedOutput()
		assert.Error(t, err)
		assert.Contains(t, string(output), "unknown tag kind")
	})

	t.Run("Missing file flag is rejected", func(t *testing.T) {
		output, err := exec.Command(binaryPath, "validate-tags").CombinedOutput()
		assert.Error(t, err)
		assert.Contains(t, string(output), "required")
	})
}
