package lifecycle

import (
	"context"
)

// TableManager prepares the destination table.
// EnsureTable is idempotent, it is safe to call on every run.
type TableManager interface {
	// EnsureTable creates the destination table and the run log table if
	// they do not exist. Existing tables are left untouched.
	EnsureTable(ctx context.Context) error
}
