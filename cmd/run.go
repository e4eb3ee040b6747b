/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/agrietl/internal/ioalert"
	"github.com/gnames/agrietl/internal/iologger"
	"github.com/gnames/agrietl/internal/iostage"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

var timeNow = time.Now

// getRunCmd returns the run command.
func getRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline once",
		Long: `Run extract, validate, create and load tasks in order.

Every task is retried run.retries times with run.retry_delay between
attempts. When a task fails all attempts the remaining tasks are skipped
and an alert is sent to alert.receivers (or logged when SMTP is not
configured).

Examples:
  agrietl run
  agrietl run --retries 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPipeline(cmd.Context())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runPipeline(ctx context.Context) error {
	alerter := ioalert.New(cfg.Alert)
	d := iostage.New(cfg, cat).DAG(alerter.Notify, logRef(cfg))

	start := timeNow()
	runID, err := d.Run(ctx)
	if err != nil {
		return err
	}

	dur := timeNow().Sub(start)
	slog.Info("Pipeline finished", "run", runID, "duration", dur.String())
	gn.Info("Pipeline <em>%s</em> finished in %s",
		d.ID, gnfmt.TimeString(dur.Seconds()))
	return nil
}

// logRef points alerts to the log viewer if it is configured, otherwise
// to the log file.
func logRef(c *config.Config) string {
	if c.Run.LogURL != "" {
		return c.Run.LogURL
	}
	if c.Log.Destination == "file" {
		return iologger.LogPath(config.LogDir(c.HomeDir))
	}
	return c.Log.Destination
}
