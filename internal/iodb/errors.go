package iodb

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError creates an error for database connection failures.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL database <em>%s</em>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database <em>%s</em> does not exist
  - Wrong credentials or SSL mode

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify user <em>%s</em> can connect to the database
  3. Review ~/.config/agrietl/config.yaml or AGRIETL_DATABASE_* variables`

	vars := []any{database, database, host, port, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for operations attempted before
// Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError creates an error for a failed lookup of a table
// in the information schema.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}
