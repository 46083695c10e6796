package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSidecar = `{
	"metadata": {
		"site_title": "Austin Spine Clinic",
		"site_summary": "Comprehensive information about services, providers, and locations.",
		"domain": "example.com",
		"base_url": "https://example.com",
		"generated_at": "2026-01-15T10:30:00Z",
		"version": "1.0"
	},
	"sections": {
		"Services": [
			{"url": "https://example.com/services/prp", "title": "PRP Therapy", "description": "Regenerative injections.", "category": "Services"}
		],
		"Other": [
			{"url": "https://example.com/misc", "title": "Misc"}
		]
	},
	"stats": {"total_rows": 10}
}`

func TestValidateRewrites_Valid(t *testing.T) {
	content := `[
		{"url": "https://example.com/services/prp", "description": "Regenerative PRP injections for joint pain."},
		{"url": "https://example.com/services/knee", "description": "Non-surgical knee pain relief."}
	]`

	err := ValidateRewrites(content)
	assert.NoError(t, err)
}

func TestValidateRewrites_EmptyArray(t *testing.T) {
	err := ValidateRewrites(`[]`)
	assert.NoError(t, err)
}

func TestValidateRewrites_MissingDescription(t *testing.T) {
	content := `[{"url": "https://example.com/services/prp"}]`

	err := ValidateRewrites(content)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateRewrites_WrongShape(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "object instead of array", content: `{"url": "a", "description": "b"}`},
		{name: "url is a number", content: `[{"url": 42, "description": "b"}]`},
		{name: "blank url", content: `[{"url": "", "description": "b"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRewrites(tt.content)
			require.Error(t, err)

			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type")
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidateDocument_Valid(t *testing.T) {
	err := ValidateDocument(validSidecar)
	assert.NoError(t, err)
}

func TestValidateDocument_MissingMetadata(t *testing.T) {
	content := `{"sections": {}}`

	err := ValidateDocument(content)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateDocument_BlankPageTitle(t *testing.T) {
	content := `{
		"metadata": {"site_title": "Example", "generated_at": "2026-01-15", "version": "1.0"},
		"sections": {"Services": [{"url": "https://example.com/a", "title": ""}]}
	}`

	err := ValidateDocument(content)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateDocument_MalformedJSON(t *testing.T) {
	err := ValidateDocument(`{ invalid json }`)
	require.Error(t, err)
}

func TestValidateDocumentFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "llms.json")
	require.NoError(t, os.WriteFile(path, []byte(validSidecar), 0644))

	assert.NoError(t, ValidateDocumentFile(path))
}

func TestValidateDocumentFile_NotFound(t *testing.T) {
	err := ValidateDocumentFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read JSON file")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "metadata.site_title", Message: "is required"},
			{Field: "sections", Message: "must be an object"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "metadata.site_title")
	assert.Contains(t, errorMsg, "sections")
}
