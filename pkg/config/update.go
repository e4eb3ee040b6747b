package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.Extract.BaseURL
	if s != "" {
		res = append(res, OptExtractBaseURL(s))
	}
	if c.Extract.YearStart > 0 || c.Extract.YearEnd > 0 {
		res = append(res, OptExtractYears(c.Extract.YearStart, c.Extract.YearEnd))
	}
	i = c.Extract.PerPage
	if i > 0 {
		res = append(res, OptExtractPerPage(i))
	}
	if d := c.Extract.RequestDelay; d > 0 {
		res = append(res, OptExtractRequestDelay(d))
	}
	if d := c.Extract.Timeout; d > 0 {
		res = append(res, OptExtractTimeout(d))
	}
	s = c.Extract.ArtifactDir
	if s != "" {
		res = append(res, OptExtractArtifactDir(s))
	}

	s = c.Load.Table
	if s != "" {
		res = append(res, OptLoadTable(s))
	}

	s = c.Run.DagID
	if s != "" {
		res = append(res, OptRunDagID(s))
	}
	s = c.Run.Owner
	if s != "" {
		res = append(res, OptRunOwner(s))
	}
	// zero retries is a valid setting, so retries are always passed
	res = append(res, OptRunRetries(c.Run.Retries))
	if d := c.Run.RetryDelay; d > 0 {
		res = append(res, OptRunRetryDelay(d))
	}
	s = c.Run.Schedule
	if s != "" {
		res = append(res, OptRunSchedule(s))
	}
	s = c.Run.LogURL
	if s != "" {
		res = append(res, OptRunLogURL(s))
	}

	s = c.Alert.SMTPHost
	if s != "" {
		res = append(res, OptAlertSMTPHost(s))
	}
	i = c.Alert.SMTPPort
	if i > 0 {
		res = append(res, OptAlertSMTPPort(i))
	}
	s = c.Alert.Sender
	if s != "" {
		res = append(res, OptAlertSender(s))
	}
	s = c.Alert.Password
	if s != "" {
		res = append(res, OptAlertPassword(s))
	}
	if len(c.Alert.Receivers) > 0 {
		res = append(res, OptAlertReceivers(c.Alert.Receivers))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
