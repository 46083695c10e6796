package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seolab/llmsgen/internal/schemas"
	"github.com/seolab/llmsgen/internal/types"
)

func TestSave_WritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "llms.txt")
	jsonPath := filepath.Join(dir, "llms.json")
	generatedAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	result, err := Save(textPath, jsonPath, testDocument(), testStats(), generatedAt)
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.Equal(t, textPath, result.TextPath)
	assert.Equal(t, jsonPath, result.JSONPath)

	text, err := os.ReadFile(result.TextPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "# Austin Spine Clinic")
	assert.Contains(t, string(text), "<!-- Generated on 2025-03-14 -->")
	assert.Contains(t, string(text), "<!-- Total pages: 3 -->")

	data, err := os.ReadFile(result.JSONPath)
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateDocument(string(data)))
}

func TestSave_EmptyJSONPathSkipsSidecar(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "llms.txt")

	result, err := Save(textPath, "", testDocument(), nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, textPath, result.TextPath)
	assert.Empty(t, result.JSONPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "llms.txt", entries[0].Name())
}

func TestSave_CreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "out", "llms.txt")
	jsonPath := filepath.Join(dir, "artifacts", "llms.json")

	result, err := Save(textPath, jsonPath, testDocument(), nil, time.Now())
	require.NoError(t, err)
	assert.FileExists(t, result.TextPath)
	assert.FileExists(t, result.JSONPath)
}

func TestSave_AbortsOnStructurallyBrokenDocument(t *testing.T) {
	dir := t.TempDir()
	doc := types.Document{Meta: types.SiteMetadata{Title: "Empty Site"}}

	_, err := Save(filepath.Join(dir, "llms.txt"), filepath.Join(dir, "llms.json"), doc, nil, time.Now())
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Issues)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing should be written when validation fails")
}

func TestSave_AdvisoryIssuesDoNotBlock(t *testing.T) {
	dir := t.TempDir()
	doc := types.Document{
		Meta: types.SiteMetadata{Title: "A"},
		Sections: []types.Section{
			{Name: "B", Pages: []types.Page{{URL: "https://d.co/x", Title: "C"}}},
		},
	}

	result, err := Save(filepath.Join(dir, "llms.txt"), "", doc, nil, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.True(t, result.Issues[0].Advisory)
	assert.Contains(t, result.Issues[0].Message, "too short")
	assert.FileExists(t, result.TextPath)
}

func TestSave_OverwritesPreviousRun(t *testing.T) {
	textPath := filepath.Join(t.TempDir(), "llms.txt")

	_, err := Save(textPath, "", testDocument(), nil, time.Now())
	require.NoError(t, err)

	doc := testDocument()
	doc.Meta.Title = "Renamed Clinic"
	result, err := Save(textPath, "", doc, nil, time.Now())
	require.NoError(t, err)

	text, err := os.ReadFile(result.TextPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "# Renamed Clinic")
	assert.NotContains(t, string(text), "# Austin Spine Clinic")
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Save(filepath.Join(dir, "llms.txt"), filepath.Join(dir, "llms.json"), testDocument(), testStats(), time.Now())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp-"), "temp file left behind: %s", entry.Name())
	}
}

func TestWriteError_Unwrap(t *testing.T) {
	cause := os.ErrPermission
	err := &WriteError{Message: "failed to write llms.txt", Cause: cause}

	assert.Contains(t, err.Error(), "failed to write llms.txt")
	assert.ErrorIs(t, err, os.ErrPermission)
}
