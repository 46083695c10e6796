package ingestion

import (
	"fmt"
	"strings"
)

// ExportRemediation is the fix reported whenever the export itself is the
// problem. The wording matches the Screaming Frog menus users see.
const ExportRemediation = "re-export from the crawler: Internal tab, Filter set to HTML, then File > Export"

// SchemaError indicates the export is missing required columns. It is
// fatal: the pipeline cannot identify pages without them.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s (%s)", strings.Join(e.Missing, ", "), ExportRemediation)
}

// ReadError represents a failure to open or parse the export file.
type ReadError struct {
	Message string
	Cause   error
}

func (e *ReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to read export: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to read export: %s", e.Message)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}
