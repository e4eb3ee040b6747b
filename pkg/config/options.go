package config

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gnames/gn"
)

var tableRe = regexp.MustCompile(
	`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`,
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptExtractBaseURL sets the base URL of the indicator API.
// Only http and https URLs are accepted.
func OptExtractBaseURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidURL("Extract Base URL", s) {
			c.Extract.BaseURL = s
		}
	}
}

// OptExtractYears sets the inclusive range of years. Zero keeps the
// current value of that end of the range. Ranges where the start is
// after the end are ignored.
func OptExtractYears(start, end int) Option {
	return func(c *Config) {
		if start == 0 {
			start = c.Extract.YearStart
		}
		if end == 0 {
			end = c.Extract.YearEnd
		}
		if !isValidInt("Extract Year Start", start) ||
			!isValidInt("Extract Year End", end) {
			return
		}
		if start > end {
			gn.Warn(
				"<em>Extract Year Start</em> %d is after <em>Year End</em> %d, ignoring",
				start, end,
			)
			return
		}
		c.Extract.YearStart = start
		c.Extract.YearEnd = end
	}
}

// OptExtractPerPage sets the page size of API requests.
func OptExtractPerPage(i int) Option {
	return func(c *Config) {
		if isValidInt("Extract Per Page", i) {
			c.Extract.PerPage = i
		}
	}
}

// OptExtractRequestDelay sets the pause between indicator requests.
// Zero disables the pause.
func OptExtractRequestDelay(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Extract Request Delay", d, true) {
			c.Extract.RequestDelay = d
		}
	}
}

// OptExtractTimeout sets the timeout of a single HTTP request.
func OptExtractTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Extract Timeout", d, false) {
			c.Extract.Timeout = d
		}
	}
}

// OptExtractArtifactDir sets the directory for intermediate files.
func OptExtractArtifactDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Extract Artifact Dir", s) {
			c.Extract.ArtifactDir = s
		}
	}
}

// OptLoadTable sets the destination table name.
func OptLoadTable(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if !isValidString("Load Table", s) {
			return
		}
		if !tableRe.MatchString(s) {
			gn.Warn("<em>Load Table</em> '%s' is not a valid table name, ignoring", s)
			return
		}
		c.Load.Table = s
	}
}

// OptRunDagID sets the pipeline identifier.
func OptRunDagID(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Run DAG ID", s) {
			c.Run.DagID = s
		}
	}
}

// OptRunOwner sets the pipeline owner reported in alerts.
func OptRunOwner(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Run Owner", s) {
			c.Run.Owner = s
		}
	}
}

// OptRunRetries sets the number of retries of a failed task.
// Zero disables retries.
func OptRunRetries(i int) Option {
	return func(c *Config) {
		if i < 0 {
			gn.Warn("<em>Run Retries</em> cannot be negative, ignoring %d", i)
			return
		}
		c.Run.Retries = i
	}
}

// OptRunRetryDelay sets the pause between attempts of a task.
func OptRunRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Run Retry Delay", d, true) {
			c.Run.RetryDelay = d
		}
	}
}

// OptRunSchedule sets the cron expression of the scheduler.
// The expression is parsed by the scheduler itself.
func OptRunSchedule(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Run Schedule", s) {
			c.Run.Schedule = s
		}
	}
}

// OptRunLogURL sets the base URL of a log viewer used in alerts.
func OptRunLogURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidURL("Run Log URL", s) {
			c.Run.LogURL = s
		}
	}
}

// OptAlertSMTPHost sets the SMTP server used for alerts.
func OptAlertSMTPHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Alert SMTP Host", s) {
			c.Alert.SMTPHost = s
		}
	}
}

// OptAlertSMTPPort sets the SMTP server port.
func OptAlertSMTPPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Alert SMTP Port", i) {
			c.Alert.SMTPPort = i
		}
	}
}

// OptAlertSender sets the sender address, it is also the SMTP user.
func OptAlertSender(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEmail("Alert Sender", s) {
			c.Alert.Sender = s
		}
	}
}

// OptAlertPassword sets the SMTP password.
func OptAlertPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Alert Password", s) {
			c.Alert.Password = s
		}
	}
}

// OptAlertReceivers sets the recipients of alerts. Invalid addresses are
// dropped with a warning.
func OptAlertReceivers(ss []string) Option {
	var res []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if isValidEmail("Alert Receiver", v) {
			res = append(res, v)
		}
	}
	return func(c *Config) {
		if len(res) > 0 {
			c.Alert.Receivers = res
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func isValidURL(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		gn.Warn("<em>%s</em> '%s' is not a valid http(s) URL, ignoring", name, s)
		return false
	}
	return true
}

func isValidEmail(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	if _, err := mail.ParseAddress(s); err != nil {
		gn.Warn("<em>%s</em> '%s' is not a valid e-mail address, ignoring", name, s)
		return false
	}
	return true
}

func isValidDuration(name string, d time.Duration, allowZero bool) bool {
	if d < 0 || (d == 0 && !allowZero) {
		gn.Warn("<em>%s</em> has to be a positive duration, ignoring %s", name, d)
		return false
	}
	return true
}
