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

	"github.com/gnames/gn"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// getScheduleCmd returns the schedule command.
func getScheduleCmd() *cobra.Command {
	var (
		schedule string
		now      bool
	)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline periodically",
		Long: `Run the pipeline on a cron schedule until interrupted.

The schedule is a cron expression or a descriptor such as @daily or
@every 6h (default from run.schedule). Missed runs are not caught up,
and a run is skipped if the previous one is still in progress.

Examples:
  agrietl schedule
  agrietl schedule --cron "0 3 * * *"
  agrietl schedule --now`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("cron") {
				cfg.Run.Schedule = schedule
			}
			err := runSchedule(cmd.Context(), cfg.Run.Schedule, now)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	scheduleCmd.Flags().StringVarP(&schedule, "cron", "c", "",
		"cron expression, overrides run.schedule")
	scheduleCmd.Flags().BoolVarP(&now, "now", "n", false,
		"run the pipeline once right away")

	return scheduleCmd
}

func runSchedule(ctx context.Context, expr string, now bool) error {
	c, err := newScheduler(ctx, expr, func(ctx context.Context) {
		if err := runPipeline(ctx); err != nil {
			slog.Error("Scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	if now {
		if err := runPipeline(ctx); err != nil {
			slog.Error("Run failed", "error", err)
		}
	}

	c.Start()
	entries := c.Entries()
	if len(entries) > 0 {
		gn.Info("Next run at <em>%s</em>", entries[0].Next.Format(time.RFC1123))
	}

	<-ctx.Done()
	gn.Info("Stopping scheduler...")
	<-c.Stop().Done()
	return nil
}

// newScheduler creates a cron scheduler with a single job. Overlapping runs
// are skipped.
func newScheduler(
	ctx context.Context,
	expr string,
	job func(context.Context),
) (*cron.Cron, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := c.AddFunc(expr, func() { job(ctx) })
	if err != nil {
		return nil, ScheduleError(expr, err)
	}
	slog.Info("Pipeline scheduled", "schedule", expr)
	return c, nil
}

// cronLogger sends cron messages to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
