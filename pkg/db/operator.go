package db

import (
	"context"

	"github.com/gnames/agrietl/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// for components (schema manager, loader) that run their own SQL, use
// transactions and bulk COPY.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. It is nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database. The name can
	// be prefixed with a schema, otherwise the public schema is used.
	TableExists(ctx context.Context, tableName string) (bool, error)
}
