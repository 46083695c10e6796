package render

import (
	"os"
	"path/filepath"
	"time"

	"github.com/seolab/llmsgen/internal/types"
)

// SaveResult reports where the artifacts landed. Issues carries any
// advisory findings; structural problems abort the save instead.
type SaveResult struct {
	TextPath string
	JSONPath string
	Issues   []Issue
}

// Save renders the markdown document to textPath and, when jsonPath is
// non-empty, the JSON sidecar next to it. Structurally broken markdown
// aborts the save with a ValidationError before anything touches disk.
// Writes go through a temp file and rename so an interrupted run never
// leaves a half-written artifact behind.
func Save(textPath, jsonPath string, doc types.Document, stats *types.Stats, generatedAt time.Time) (*SaveResult, error) {
	markdown := Markdown(doc, true, generatedAt)
	issues := Validate(markdown)
	if fatal := Fatal(issues); len(fatal) > 0 {
		return nil, &ValidationError{Issues: fatal}
	}

	if dir := filepath.Dir(textPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &WriteError{Message: "failed to create output directory", Cause: err}
		}
	}
	if err := writeAtomic(textPath, []byte(markdown)); err != nil {
		return nil, &WriteError{Message: "failed to write " + filepath.Base(textPath), Cause: err}
	}

	result := &SaveResult{TextPath: textPath, Issues: issues}
	if jsonPath == "" {
		return result, nil
	}

	data, err := Sidecar(doc, stats, generatedAt)
	if err != nil {
		return nil, &WriteError{Message: "failed to encode JSON sidecar", Cause: err}
	}

	if dir := filepath.Dir(jsonPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &WriteError{Message: "failed to create output directory", Cause: err}
		}
	}
	if err := writeAtomic(jsonPath, data); err != nil {
		return nil, &WriteError{Message: "failed to write " + filepath.Base(jsonPath), Cause: err}
	}

	result.JSONPath = jsonPath
	return result, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
