// Package ioartifact keeps intermediate results between pipeline stages
// as JSON files. Stages run as separate tasks, so extracted records and
// the validated wide table are handed over through the file system.
package ioartifact

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/agrietl/pkg/record"
	"github.com/gnames/gnfmt"
)

var enc = gnfmt.GNjson{Pretty: true}

// WriteRaw saves extracted records, replacing a previous file.
func WriteRaw(path string, entries []record.RawEntry) error {
	if entries == nil {
		entries = []record.RawEntry{}
	}
	return write(path, entries)
}

// ReadRaw loads extracted records. A missing or empty file gives an empty
// slice.
func ReadRaw(path string) ([]record.RawEntry, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []record.RawEntry{}, nil
	}

	var res []record.RawEntry
	if err = enc.Decode(data, &res); err != nil {
		return nil, ArtifactReadError(path, err)
	}
	if res == nil {
		res = []record.RawEntry{}
	}
	return res, nil
}

// WriteWide saves a validated wide table.
func WriteWide(path string, table *record.WideTable) error {
	if table == nil {
		table = &record.WideTable{}
	}
	return write(path, table)
}

// ReadWide loads a validated wide table. A missing or empty file gives an
// empty table.
func ReadWide(path string) (*record.WideTable, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &record.WideTable{}, nil
	}

	var res record.WideTable
	if err = enc.Decode(data, &res); err != nil {
		return nil, ArtifactReadError(path, err)
	}
	return &res, nil
}

// Remove deletes artifacts. Failures are logged and never returned,
// the result is the number of removed files.
func Remove(paths ...string) int {
	var count int
	for _, v := range paths {
		err := os.Remove(v)
		switch {
		case err == nil:
			count++
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("Cannot remove artifact", "path", v, "error", err)
		}
	}
	return count
}

func write(path string, v any) error {
	data, err := enc.Encode(v)
	if err != nil {
		return ArtifactWriteError(path, err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ArtifactWriteError(path, err)
	}

	if err = os.WriteFile(path, data, 0644); err != nil {
		return ArtifactWriteError(path, err)
	}
	slog.Debug("Artifact written", "path", path, "bytes", len(data))
	return nil
}

// read returns nil data without error for a missing or blank file.
func read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Artifact not found", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, ArtifactReadError(path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return data, nil
}
