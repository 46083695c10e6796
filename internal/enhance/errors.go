package enhance

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates the enhancement service cannot be used at all,
// typically because no API credential was configured. This is detected
// before any batch is sent so a run never fails halfway through.
var ErrUnavailable = errors.New("enhancement service unavailable")

// BatchError reports a batch that exhausted its retry budget and was skipped.
// The pages in a skipped batch keep their original descriptions.
type BatchError struct {
	Section  string
	Batch    int
	Attempts int
	Cause    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (%s) failed after %d attempts: %v", e.Batch, e.Section, e.Attempts, e.Cause)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}
