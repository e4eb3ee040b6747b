// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"testing"

	"github.com/gnames/agrietl/internal/ioconfig"
	"github.com/gnames/agrietl/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "agrietl_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// It loads the standard config (from the user's config file, environment
// or defaults) and overrides the database name to TestDatabaseName.
func GetTestConfig() *config.Config {
	var cfg *config.Config
	home, err := os.UserHomeDir()
	if err == nil {
		var res *ioconfig.LoadResult
		res, err = ioconfig.Load(config.ConfigFilePath(home))
		if err == nil {
			cfg = res.Config
		}
	}
	if cfg == nil {
		cfg = config.New()
	}

	// Always use test database for safety
	cfg.Database.Database = TestDatabaseName

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// TempHomeConfig returns a test configuration whose home directory is a
// temporary directory, so artifacts and logs never touch the real home.
func TempHomeConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := GetTestConfig()
	home := t.TempDir()
	cfg.Update([]config.Option{config.OptHomeDir(home)})
	cfg.Extract.ArtifactDir = ""
	if err := os.MkdirAll(config.CacheDir(home), 0755); err != nil {
		t.Fatalf("Failed to create temp cache dir: %v", err)
	}
	return cfg
}
