// Package config provides configuration management for agrietl.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode
//   - Extract: base_url, year_start, year_end, per_page, request_delay,
//     timeout, artifact_dir
//   - Load: table
//   - Run: dag_id, owner, retries, retry_delay, schedule, log_url
//   - Alert: smtp_host, smtp_port, sender, password, receivers
//   - Log: level, format, destination
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use AGRIETL_ prefix with underscores for nesting:
//
//	AGRIETL_DATABASE_HOST=localhost
//	AGRIETL_EXTRACT_YEAR_END=2023
//	AGRIETL_LOAD_TABLE=west_african_agri_metrics_wide
//	AGRIETL_ALERT_RECEIVERS=ops@example.org
//
// See .envrc.example for complete list with defaults.
package config

import "time"

// Config represents the complete agrietl configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Extract contains settings of the remote indicator API.
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`

	// Load contains settings of the destination table.
	Load LoadConfig `mapstructure:"load" yaml:"load"`

	// Run contains retry and scheduling settings of the pipeline.
	Run RunConfig `mapstructure:"run" yaml:"run"`

	// Alert contains settings of failure e-mails.
	Alert AlertConfig `mapstructure:"alert" yaml:"alert"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// ExtractConfig contains settings of requests to the indicator API.
type ExtractConfig struct {
	// BaseURL of the API, without a trailing slash.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// YearStart is the first year of the inclusive range of observations.
	YearStart int `mapstructure:"year_start" yaml:"year_start"`

	// YearEnd is the last year of the inclusive range of observations.
	YearEnd int `mapstructure:"year_end" yaml:"year_end"`

	// PerPage is the page size requested from the API.
	PerPage int `mapstructure:"per_page" yaml:"per_page"`

	// RequestDelay is a pause between requests of different indicators.
	RequestDelay time.Duration `mapstructure:"request_delay" yaml:"request_delay"`

	// Timeout limits every single HTTP request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// ArtifactDir keeps intermediate files between pipeline stages.
	// If empty, the cache directory is used.
	ArtifactDir string `mapstructure:"artifact_dir" yaml:"artifact_dir"`
}

// LoadConfig contains settings of the destination table.
type LoadConfig struct {
	// Table is the name of the wide destination table. It can be prefixed
	// with a schema name, for example "public.metrics".
	Table string `mapstructure:"table" yaml:"table"`
}

// RunConfig contains settings of the task runner.
type RunConfig struct {
	// DagID identifies the pipeline in logs and alerts.
	DagID string `mapstructure:"dag_id" yaml:"dag_id"`

	// Owner is reported in alerts.
	Owner string `mapstructure:"owner" yaml:"owner"`

	// Retries is the number of extra attempts of a failed task.
	Retries int `mapstructure:"retries" yaml:"retries"`

	// RetryDelay is a fixed pause between attempts.
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`

	// Schedule is a cron expression or a descriptor like "@daily".
	Schedule string `mapstructure:"schedule" yaml:"schedule"`

	// LogURL is a base URL of a log viewer. If empty, alerts point to the
	// log file.
	LogURL string `mapstructure:"log_url" yaml:"log_url"`
}

// AlertConfig contains SMTP settings of failure alerts. Alerts are only
// written to the log when SMTPHost or Receivers are empty.
type AlertConfig struct {
	SMTPHost  string   `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort  int      `mapstructure:"smtp_port" yaml:"smtp_port"`
	Sender    string   `mapstructure:"sender"    yaml:"sender"`
	Password  string   `mapstructure:"password"  yaml:"password"`
	Receivers []string `mapstructure:"receivers" yaml:"receivers"`
}

// Enabled is true if alerts can be sent by e-mail.
func (a AlertConfig) Enabled() bool {
	return a.SMTPHost != "" && len(a.Receivers) > 0
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "agri",
			SSLMode:  "disable",
		},
		Extract: ExtractConfig{
			BaseURL:      "https://api.worldbank.org/v2",
			YearStart:    1999,
			YearEnd:      2022,
			PerPage:      1000,
			RequestDelay: 500 * time.Millisecond,
			Timeout:      30 * time.Second,
		},
		Load: LoadConfig{
			Table: "west_african_agri_metrics_wide",
		},
		Run: RunConfig{
			DagID:      "agri_metrics_etl",
			Owner:      "DE Team",
			Retries:    2,
			RetryDelay: time.Minute,
			Schedule:   "@daily",
		},
		Alert: AlertConfig{
			SMTPPort: 587,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}
