package dag

import (
	"errors"
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

// ErrTaskFailed is the cause of every error returned by Run.
var ErrTaskFailed = errors.New("task failed")

// TaskFailedError creates an error for a task that used up its attempts.
func TaskFailedError(dagID, taskID string, attempts int, err error) error {
	msg := `Task <em>%s</em> of <em>%s</em> failed after %d attempt(s)

<em>How to fix:</em>
  1. Check the log file for the cause
  2. Fix the problem and run the pipeline again`

	vars := []any{taskID, dagID, attempts}

	return &gn.Error{
		Code: errcode.DAGTaskFailedError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("%w: %s.%s after %d attempts: %w",
			ErrTaskFailed, dagID, taskID, attempts, err),
	}
}
