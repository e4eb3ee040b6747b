package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

// ErrEmptyInput is the cause of the error returned for a table without
// rows.
var ErrEmptyInput = errors.New("wide table has no rows")

// ViolationsError carries all violations found by Validate.
type ViolationsError struct {
	Violations []Violation
}

func (e *ViolationsError) Error() string {
	return fmt.Sprintf("validation failed with %d violations", len(e.Violations))
}

// EmptyInputError creates an error for a table without rows.
func EmptyInputError() error {
	msg := `Nothing to validate

<em>The wide table has no rows.</em>

<em>Possible causes:</em>
  - Raw data file is empty
  - Extraction step has not run yet`

	return &gn.Error{
		Code: errcode.ValidateEmptyInputError,
		Msg:  msg,
		Vars: nil,
		Err:  ErrEmptyInput,
	}
}

// SchemaError creates an error for a table that violates the schema.
func SchemaError(vs []Violation) error {
	msg := `Data validation failed with <em>%d</em> violations

%s`

	summary := Summary(vs)
	for i := range summary {
		summary[i] = "  - " + summary[i]
	}
	vars := []any{len(vs), strings.Join(summary, "\n")}

	return &gn.Error{
		Code: errcode.ValidateSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  &ViolationsError{Violations: vs},
	}
}

// Violations extracts the violations from an error returned by Validate.
// It returns nil if the error was not caused by schema violations.
func Violations(err error) []Violation {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		err = gnErr.Err
	}
	var vErr *ViolationsError
	if errors.As(err, &vErr) {
		return vErr.Violations
	}
	return nil
}

// IsEmptyInput is true if the error was caused by an empty table.
func IsEmptyInput(err error) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		err = gnErr.Err
	}
	return errors.Is(err, ErrEmptyInput)
}
