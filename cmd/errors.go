package cmd

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

// ScheduleError is returned for cron expressions that cannot be parsed.
func ScheduleError(expr string, err error) error {
	msg := `Cannot parse schedule <em>%s</em>

<em>How to fix:</em>
  Use a 5-field cron expression ("0 3 * * *") or a descriptor
  (@daily, @hourly, @every 6h) in run.schedule or --cron`
	return &gn.Error{
		Code: errcode.ScheduleError,
		Msg:  msg,
		Vars: []any{expr},
		Err:  fmt.Errorf("bad schedule %q: %w", expr, err),
	}
}
