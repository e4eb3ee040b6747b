package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "agrietl"

	// RawArtifactFile keeps extracted records between stages.
	RawArtifactFile = "raw_indicators.json"

	// WideArtifactFile keeps the validated wide table between stages.
	WideArtifactFile = "validated_wide.json"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/agrietl by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/agrietl by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/agrietl/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/agrietl/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// CatalogFilePath returns the full path to the catalog.yaml file with
// entities and indicators.
func CatalogFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "catalog.yaml")
}

// ArtifactDir returns the directory of intermediate files.
func (c *Config) ArtifactDir() string {
	if c.Extract.ArtifactDir != "" {
		return c.Extract.ArtifactDir
	}
	return CacheDir(c.HomeDir)
}

// RawArtifactPath returns the path of the extracted records file.
func (c *Config) RawArtifactPath() string {
	return filepath.Join(c.ArtifactDir(), RawArtifactFile)
}

// WideArtifactPath returns the path of the validated wide table file.
func (c *Config) WideArtifactPath() string {
	return filepath.Join(c.ArtifactDir(), WideArtifactFile)
}
