package quality

import (
	"fmt"

	"github.com/seolab/llmsgen/internal/types"
)

// Warning carries a below-threshold quality report. It is advisory by
// default; strict mode promotes it to a run-aborting error.
type Warning struct {
	Report types.QualityReport
}

func (e *Warning) Error() string {
	return fmt.Sprintf("input quality too low: %s", Advice(e.Report))
}
