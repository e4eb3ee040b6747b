package ioextract

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

// NoDataError is returned when none of the indicators produced records.
func NoDataError(indicators, entities int) error {
	msg := `No data was retrieved for <em>%d</em> indicators and <em>%d</em> countries

<em>Possible causes:</em>
  - The API is not reachable
  - Year range has no observations
  - Indicator codes are unknown to the API

<em>How to fix:</em>
  1. Check the log for per-indicator errors
  2. Check extract.base_url and the year range in config.yaml`
	vars := []any{indicators, entities}
	return &gn.Error{
		Code: errcode.ExtractNoDataError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("no records for %d indicators and %d entities",
			indicators, entities),
	}
}

func CancelledError(err error) error {
	msg := "Extraction was cancelled"
	return &gn.Error{
		Code: errcode.ExtractCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("extraction cancelled: %w", err),
	}
}

// statusError is a per-indicator HTTP failure. It is logged, never
// returned by Extract.
type statusError struct {
	status int
	url    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP status %d from %s", e.status, e.url)
}
