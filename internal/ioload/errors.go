package ioload

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError is returned when a load is attempted without database
// connection.
func NotConnectedError() error {
	msg := "Load attempted without database connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// UnknownColumnError is returned before any database work when the table
// has a column that the catalog does not know.
func UnknownColumnError(column, table string) error {
	msg := `Column <em>%s</em> does not exist in table <em>%s</em>

<em>How to fix:</em>
  1. Add the indicator to catalog.yaml
  2. Add the column to the table or recreate the table`
	vars := []any{column, table}
	return &gn.Error{
		Code: errcode.LoadUnknownColumnError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown column %s for table %s", column, table),
	}
}

func stepError(code gn.ErrorCode, step, table string, err error) error {
	msg := `Cannot load data into <em>%s</em>: %s failed

Table <em>%s</em> was not changed.`
	vars := []any{table, step, table}
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("load into %s, %s: %w", table, step, err),
	}
}

func TransactionError(table string, err error) error {
	return stepError(errcode.LoadTransactionError, "transaction start", table, err)
}

func StagingError(table string, err error) error {
	return stepError(errcode.LoadStagingError, "staging table setup", table, err)
}

func CopyError(table string, err error) error {
	return stepError(errcode.LoadCopyError, "bulk copy", table, err)
}

func MergeError(table string, err error) error {
	return stepError(errcode.LoadMergeError, "merge", table, err)
}

func RunLogError(table string, err error) error {
	return stepError(errcode.LoadRunLogError, "run log", table, err)
}

func CommitError(table string, err error) error {
	return stepError(errcode.LoadCommitError, "commit", table, err)
}
