// Package ioschema creates the destination table and the run log table.
// This is an impure I/O package, the destination DDL comes from
// pkg/schema and the run log table is handled by GORM AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/db"
	"github.com/gnames/agrietl/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manager implements lifecycle.TableManager.
type Manager struct {
	operator db.Operator
	catalog  *catalog.Catalog
	table    string
}

// NewManager creates a Manager for the destination table.
func NewManager(op db.Operator, cat *catalog.Catalog, table string) *Manager {
	return &Manager{operator: op, catalog: cat, table: table}
}

// EnsureTable creates the destination table with one column per catalog
// indicator, then migrates the run log table.
func (m *Manager) EnsureTable(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	q := schema.CreateTableSQL(m.table, m.catalog)
	slog.Debug("Ensuring destination table", "table", m.table, "sql", q)
	if _, err := pool.Exec(ctx, q); err != nil {
		return CreateTableError(m.table, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateError(err)
	}

	slog.Info("Destination table is ready", "table", m.table)
	return nil
}
