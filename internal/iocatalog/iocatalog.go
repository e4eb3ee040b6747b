// Package iocatalog reads the catalog of entities and indicators from
// the file system.
package iocatalog

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gnames/agrietl/pkg/catalog"
	"gopkg.in/yaml.v3"
)

// Load reads catalog.yaml at the given path. If the file does not exist
// the default catalog is returned.
func Load(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("Catalog file not found, using default catalog", "path", path)
		return catalog.Default(), nil
	}
	if err != nil {
		return nil, CatalogReadError(path, err)
	}

	return Parse(path, data)
}

// Parse decodes and validates catalog YAML. The path is used in error
// messages only.
func Parse(path string, data []byte) (*catalog.Catalog, error) {
	var res catalog.Catalog
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, CatalogReadError(path, err)
	}

	if err := res.Validate(); err != nil {
		return nil, CatalogInvalidError(path, err)
	}

	slog.Debug("Catalog loaded",
		"path", path,
		"entities", len(res.Entities),
		"indicators", len(res.Indicators),
	)
	return &res, nil
}
