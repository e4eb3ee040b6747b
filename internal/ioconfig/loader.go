// Package ioconfig loads configuration from config.yaml and AGRIETL_*
// environment variables. This is an impure package that handles file
// system and environment access.
package ioconfig

import (
	"errors"
	"os"
	"strings"

	"github.com/gnames/agrietl/internal/iofs"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables.
const EnvPrefix = "AGRIETL"

// LoadResult contains the loaded configuration and metadata about the
// source.
type LoadResult struct {
	Config *config.Config
	// SourcePath is the config file used, or empty if there was none.
	SourcePath string
	// Source is "file", "defaults" or "defaults+env".
	Source string
}

// Load reads configuration from a YAML file, overrides it with
// environment variables, and applies the result to default configuration
// through options. A missing file is not an error, defaults and
// environment are used instead.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	initEnvVars(v)

	var usedPath string
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err = v.ReadInConfig(); err != nil {
				return nil, iofs.ReadFileError(configPath, err)
			}
			usedPath = v.ConfigFileUsed()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, iofs.ReadFileError(configPath, err)
		}
	}

	var parsed config.Config
	if err := v.Unmarshal(&parsed); err != nil {
		return nil, iofs.ReadFileError(configPath, err)
	}

	cfg := config.New()
	cfg.Update(parsed.ToOptions())

	source := "defaults"
	if usedPath != "" {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     cfg,
		SourcePath: usedPath,
		Source:     source,
	}, nil
}

// EnvKeys lists configuration keys that can be set by environment
// variables, for example database.host is AGRIETL_DATABASE_HOST.
// These match the fields included in config.ToOptions().
func EnvKeys() []string {
	return []string{
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",

		"extract.base_url",
		"extract.year_start",
		"extract.year_end",
		"extract.per_page",
		"extract.request_delay",
		"extract.timeout",
		"extract.artifact_dir",

		"load.table",

		"run.dag_id",
		"run.owner",
		"run.retries",
		"run.retry_delay",
		"run.schedule",
		"run.log_url",

		"alert.smtp_host",
		"alert.smtp_port",
		"alert.sender",
		"alert.password",
		"alert.receivers",

		"log.level",
		"log.format",
		"log.destination",
	}
}

// EnvName converts a configuration key to its environment variable.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func initEnvVars(v *viper.Viper) {
	// Variables are bound one by one so it is clear which ones are allowed.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range EnvKeys() {
		_ = v.BindEnv(key, EnvName(key))
	}
}

// setDefaults registers default values so that keys absent from the file
// keep their defaults. Zero retries would be indistinguishable from a
// missing key otherwise.
func setDefaults(v *viper.Viper) {
	d := config.New()
	v.SetDefault("run.retries", d.Run.Retries)
	v.SetDefault("extract.year_start", d.Extract.YearStart)
	v.SetDefault("extract.year_end", d.Extract.YearEnd)
}

func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			return true
		}
	}
	return false
}
