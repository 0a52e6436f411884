package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/admirror/internal/taxonomy"
)

var schemaFiles = []string{
	"creative_tags.schema.json",
	"video_tags.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err)

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err, "schema file should compile: %s", schemaFile)
		})
	}
}

// The schema enums are a mirror of the in-code taxonomy; this keeps the two
// from drifting apart.
func TestCreativeSchema_MatchesTaxonomy(t *testing.T) {
	data, err := os.ReadFile("creative_tags.schema.json")
	require.NoError(t, err)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	require.NoError(t, err)

	tags := map[string]string{}
	for _, dim := range taxonomy.CreativeDimensions() {
		tags[dim.Key] = dim.Values[0]
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(tags))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "every taxonomy value set should satisfy the schema: %v", result.Errors())

	tags["format_type"] = "hologram"
	result, err = schema.Validate(gojsonschema.NewGoLoader(tags))
	require.NoError(t, err)
	assert.False(t, result.Valid(), "values outside the taxonomy must be rejected")
}

func TestVideoSchema_MatchesTaxonomy(t *testing.T) {
	data, err := os.ReadFile("video_tags.schema.json")
	require.NoError(t, err)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	require.NoError(t, err)

	tags := map[string]string{}
	for _, dim := range taxonomy.VideoDimensions() {
		tags[dim.Key] = dim.Values[0]
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(tags))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "every taxonomy value set should satisfy the schema: %v", result.Errors())

	delete(tags, taxonomy.DurationBucketKey)
	result, err = schema.Validate(gojsonschema.NewGoLoader(tags))
	require.NoError(t, err)
	assert.False(t, result.Valid(), "missing dimensions must be rejected")
}
