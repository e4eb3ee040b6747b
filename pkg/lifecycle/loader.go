package lifecycle

import (
	"context"

	"github.com/gnames/agrietl/pkg/dag"
	"github.com/gnames/agrietl/pkg/record"
)

// Loader merges a validated wide table into the destination table.
//
// Upsert is atomic: either all rows are merged or the destination is left
// unchanged. It returns the number of merged rows.
type Loader interface {
	Upsert(ctx context.Context, table *record.WideTable) (int64, error)
}

// Alerter reports a task that failed after all its attempts.
type Alerter interface {
	Notify(ctx context.Context, f dag.Failure)
}
