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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/agrietl/internal/iocatalog"
	"github.com/gnames/agrietl/internal/ioconfig"
	"github.com/gnames/agrietl/internal/iofs"
	"github.com/gnames/agrietl/internal/iologger"
	app "github.com/gnames/agrietl/pkg"
	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	cfgFile string
	opts    []config.Option
	cfg     *config.Config
	cat     *catalog.Catalog
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
	Use:     "agrietl",
	Short:   "Agricultural indicators ETL for West African countries",
	Long: `agrietl downloads agricultural, trade and population indicators of
ECOWAS countries from the World Bank API, reshapes them into one row per
country and year, validates the result and merges it into PostgreSQL.

The pipeline has four tasks that can run one by one or as a whole:
  - extract: download raw observations
  - validate: transform to the wide form and validate
  - create: create the destination table if it does not exist
  - load: merge validated rows into the destination table

'agrietl run' executes all tasks with retries and a failure alert,
'agrietl schedule' runs them periodically.

Configuration precedence (highest to lowest):
  1. CLI flags (--table, --year-start, etc.)
  2. Environment variables (AGRIETL_*)
  3. Config file (~/.config/agrietl/config.yaml)
  4. Built-in defaults

Environment variables use underscores for nested fields
(database.host -> AGRIETL_DATABASE_HOST).`,
	PersistentPreRunE: bootstrap,
	RunE:              runRoot,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureCatalogFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	path := cfgFile
	if path == "" {
		path = config.ConfigFilePath(homeDir)
	}
	res, err := ioconfig.Load(path)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = res.Config.ToOptions()
	opts = append(opts, flagOptions(cmd)...)
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cat, err = iocatalog.Load(config.CatalogFilePath(homeDir))
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"source", res.Source,
		"config_file", res.SourcePath,
		"indicators", len(cat.Indicators),
		"entities", len(cat.Entities),
	)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Remove the automatic "agrietl version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for agrietl")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/agrietl/config.yaml)")
	persistentFlags(rootCmd)

	rootCmd.AddCommand(
		getExtractCmd(),
		getValidateCmd(),
		getCreateCmd(),
		getLoadCmd(),
		getRunCmd(),
		getScheduleCmd(),
	)
}
