package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"format_type": {"enum": ["static_image", "ugc_style"]}
	},
	"required": ["format_type"],
	"additionalProperties": false
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"format_type": "ugc_style"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_InvalidValue(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"format_type": "hologram"}`)
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	require.NotEmpty(t, ve.Errors)
	assert.Equal(t, "format_type", ve.Errors[0].Field)
}

func TestValidateJSONString_MissingRequired(t *testing.T) {
	err := ValidateJSONString(testSchema, `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format_type")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": nope}`, `{}`)
	require.Error(t, err)
	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok, "expected *SchemaLoadError, got %T", err)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "tags.schema.json")
	jsonPath := filepath.Join(dir, "tags.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"format_type": "static_image"}`), 0644))

	assert.NoError(t, ValidateFile(schemaPath, jsonPath))

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"format_type": "hologram"}`), 0644))
	assert.Error(t, ValidateFile(schemaPath, jsonPath))
}

func TestValidateFile_MissingFiles(t *testing.T) {
	err := ValidateFile("/nonexistent/schema.json", "/nonexistent/doc.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")
}

func TestResolveSchemaPath_NotFound(t *testing.T) {
	assert.Equal(t, "", ResolveSchemaPath("no/such/schema.json"))
}
