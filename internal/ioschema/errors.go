package ioschema

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot connect to database with GORM

<em>Possible causes:</em>
  - Connection pool not initialized
  - Database configuration issue

<em>How to fix:</em>
  1. Ensure database operator is connected
  2. Check database configuration`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateTableError creates an error for destination table
// creation failures.
func CreateTableError(table string, err error) error {
	msg := `Cannot create table <em>%s</em>

<em>Possible causes:</em>
  - Insufficient database permissions
  - Schema of a qualified table name does not exist

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateTableError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to create table %s: %w", table, err),
	}
}

// MigrateError creates an error for run log table
// migration failures.
func MigrateError(err error) error {
	msg := `Cannot migrate run log table

<em>How to fix:</em>
  1. Check database user permissions
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to migrate run log: %w", err),
	}
}
