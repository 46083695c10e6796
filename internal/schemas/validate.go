// Package schemas provides JSON Schema validation for the structured data
// artifacts the pipeline produces and consumes. Schemas are embedded at
// compile time so validation works regardless of working directory.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

const (
	rewritesSchemaFile = "rewrites.schema.json"
	documentSchemaFile = "document.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateRewrites validates an enhancement service response against the
// embedded rewrites schema.
func ValidateRewrites(jsonContent string) error {
	return validateAgainstEmbedded(rewritesSchemaFile, jsonContent)
}

// ValidateDocument validates JSON sidecar content against the embedded
// document schema.
func ValidateDocument(jsonContent string) error {
	return validateAgainstEmbedded(documentSchemaFile, jsonContent)
}

// ValidateDocumentFile reads a JSON sidecar from disk and validates it
// against the embedded document schema.
func ValidateDocumentFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ValidateDocument(string(data))
}

// validateAgainstEmbedded validates JSON content against an embedded schema file.
func validateAgainstEmbedded(schemaFile, jsonContent string) error {
	schemaContent, err := schemaFiles.ReadFile(schemaFile)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaFile,
			Message: "embedded schema missing",
			Cause:   err,
		}
	}
	return ValidateJSONString(string(schemaContent), jsonContent)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
