package cmd

import (
	"fmt"
	"os"

	agrietl "github.com/gnames/agrietl/pkg"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/spf13/cobra"
)

type funcFlag func(cmd *cobra.Command) []config.Option

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", agrietl.Version, agrietl.Build)
		os.Exit(0)
	}
}

// persistentFlags adds flags that override configuration for every
// sub-command.
func persistentFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("table", "t", "", "destination table, can be schema-qualified")
	pf.Int("year-start", 0, "first year of observations")
	pf.Int("year-end", 0, "last year of observations")
	pf.String("artifact-dir", "", "directory for intermediate files")
	pf.IntP("retries", "r", 0, "retries of a failed task")
	pf.Duration("retry-delay", 0, "delay between attempts of a task (e.g. 30s)")
	pf.String("log-level", "", "log level (debug/info/warn/error)")
}

// flagOptions converts flags that were set on the command line to config
// options. Unset flags do not override other configuration sources.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	for _, fn := range []funcFlag{
		tableFlag, yearsFlag, artifactDirFlag, retriesFlag, logLevelFlag,
	} {
		res = append(res, fn(cmd)...)
	}
	return res
}

func tableFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("table") {
		return nil
	}
	s, _ := cmd.Flags().GetString("table")
	return []config.Option{config.OptLoadTable(s)}
}

func yearsFlag(cmd *cobra.Command) []config.Option {
	var start, end int
	if cmd.Flags().Changed("year-start") {
		start, _ = cmd.Flags().GetInt("year-start")
	}
	if cmd.Flags().Changed("year-end") {
		end, _ = cmd.Flags().GetInt("year-end")
	}
	if start == 0 && end == 0 {
		return nil
	}
	return []config.Option{config.OptExtractYears(start, end)}
}

func artifactDirFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("artifact-dir") {
		return nil
	}
	s, _ := cmd.Flags().GetString("artifact-dir")
	return []config.Option{config.OptExtractArtifactDir(s)}
}

func retriesFlag(cmd *cobra.Command) []config.Option {
	var res []config.Option
	if cmd.Flags().Changed("retries") {
		i, _ := cmd.Flags().GetInt("retries")
		res = append(res, config.OptRunRetries(i))
	}
	if cmd.Flags().Changed("retry-delay") {
		d, _ := cmd.Flags().GetDuration("retry-delay")
		res = append(res, config.OptRunRetryDelay(d))
	}
	return res
}

func logLevelFlag(cmd *cobra.Command) []config.Option {
	if !cmd.Flags().Changed("log-level") {
		return nil
	}
	s, _ := cmd.Flags().GetString("log-level")
	return []config.Option{config.OptLogLevel(s)}
}
