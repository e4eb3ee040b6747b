// Package lifecycle defines contracts of the pipeline stages that touch
// the outside world. Implementations live in internal packages.
package lifecycle

import (
	"context"

	"github.com/gnames/agrietl/pkg/record"
)

// Extractor downloads raw observations. Failures of single indicators are
// not errors, an error means no usable data was retrieved.
type Extractor interface {
	Extract(ctx context.Context) ([]record.RawEntry, error)
}
