package render

import (
	"fmt"
	"strings"
)

// WriteError indicates a failure writing an output artifact to disk.
type WriteError struct {
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("write error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("write error: %s", e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// ValidationError aggregates the issues Validate found when a caller
// requires the output to be clean.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "output validation failed with %d issue(s):", len(e.Issues))
	for _, issue := range e.Issues {
		sb.WriteString("\n  - ")
		sb.WriteString(issue.String())
	}
	return sb.String()
}
