// Package ioload merges validated wide tables into PostgreSQL.
package ioload

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/db"
	"github.com/gnames/agrietl/pkg/record"
	"github.com/gnames/agrietl/pkg/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Loader implements lifecycle.Loader.
type Loader struct {
	operator db.Operator
	catalog  *catalog.Catalog
	table    string
}

// New creates a Loader for the destination table.
func New(op db.Operator, cat *catalog.Catalog, table string) *Loader {
	return &Loader{operator: op, catalog: cat, table: table}
}

// Upsert copies rows into a temporary staging table and merges them into
// the destination by (entity_code, year). Only columns present in the
// wide table are written, other columns of existing rows keep their
// values. Everything happens in one transaction.
func (l *Loader) Upsert(
	ctx context.Context,
	wide *record.WideTable,
) (int64, error) {
	if wide == nil {
		wide = &record.WideTable{}
	}
	for _, v := range wide.Columns {
		if !l.catalog.IsKnownColumn(v) {
			return 0, UnknownColumnError(v, l.table)
		}
	}

	if wide.IsEmpty() {
		slog.Warn("Nothing to load", "table", l.table)
		return 0, nil
	}

	pool := l.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	started := time.Now()
	columns := schema.LoadColumns(l.catalog, wide.Columns)
	rows := copyRows(wide.Rows, columns)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, TransactionError(l.table, err)
	}
	// no-op after a successful commit
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, q := range []string{
		schema.DropStagingSQL(l.table),
		schema.CreateStagingSQL(l.table),
	} {
		if _, err = tx.Exec(ctx, q); err != nil {
			return 0, StagingError(l.table, err)
		}
	}

	staging := schema.Identifier(schema.StagingName(l.table))
	copied, err := tx.CopyFrom(ctx, staging, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, CopyError(l.table, err)
	}
	if copied != int64(len(rows)) {
		err = fmt.Errorf("copied %d rows out of %d", copied, len(rows))
		return 0, CopyError(l.table, err)
	}
	slog.Debug("Rows copied to staging", "table", staging.Sanitize(), "rows", copied)

	tag, err := tx.Exec(ctx, schema.MergeSQL(l.table, columns))
	if err != nil {
		return 0, MergeError(l.table, err)
	}
	merged := tag.RowsAffected()

	_, err = tx.Exec(ctx, schema.RunLogInsertSQL(),
		uuid.NewString(),
		l.table,
		merged,
		strings.Join(wide.Columns, ","),
		started,
		time.Now(),
	)
	if err != nil {
		return 0, RunLogError(l.table, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, CommitError(l.table, err)
	}

	slog.Info("Rows merged",
		"table", l.table,
		"rows", merged,
		"columns", len(columns),
		"duration", time.Since(started).String(),
	)
	return merged, nil
}

// copyRows arranges row values in the order of columns. Nulls become nil.
func copyRows(rows []record.WideRow, columns []string) [][]any {
	res := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(columns))
		for j, col := range columns {
			switch col {
			case record.ColEntityName:
				if row.EntityName.Valid {
					vals[j] = row.EntityName.String
				}
			case record.ColEntityCode:
				vals[j] = row.EntityCode
			case record.ColYear:
				if row.Year.Valid {
					vals[j] = row.Year.Int64
				}
			default:
				if v := row.Value(col); v.Valid {
					vals[j] = v.Float64
				}
			}
		}
		res[i] = vals
	}
	return res
}
