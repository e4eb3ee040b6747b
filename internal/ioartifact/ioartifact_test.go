package ioartifact_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/agrietl/internal/ioartifact"
	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/agrietl/pkg/record"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "raw.json")
	entries := []record.RawEntry{
		{
			Indicator:       record.IDValue{ID: "SP.POP.TOTL", Value: "Population, total"},
			Country:         record.IDValue{ID: "NG", Value: "Nigeria"},
			CountryISO3Code: "NGA",
			Date:            "2020",
			Value:           208327405.0,
		},
		{
			Indicator:       record.IDValue{ID: "SP.POP.TOTL", Value: "Population, total"},
			Country:         record.IDValue{ID: "GH", Value: "Ghana"},
			CountryISO3Code: "GHA",
			Date:            "2020",
		},
	}

	require.NoError(t, ioartifact.WriteRaw(path, entries))
	res, err := ioartifact.ReadRaw(path)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "NGA", res[0].CountryISO3Code)
	assert.Equal(t, 208327405.0, res[0].Value)
	assert.Nil(t, res[1].Value)

	// overwrite with fewer records
	require.NoError(t, ioartifact.WriteRaw(path, entries[1:]))
	res, err = ioartifact.ReadRaw(path)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestReadRawMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()

	res, err := ioartifact.ReadRaw(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	path := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))
	res, err = ioartifact.ReadRaw(path)
	require.NoError(t, err)
	assert.Empty(t, res)

	require.NoError(t, ioartifact.WriteRaw(path, nil))
	res, err = ioartifact.ReadRaw(path)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestReadRawMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0644))

	_, err := ioartifact.ReadRaw(path)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArtifactReadError, gnErr.Code)
}

func TestWideTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.json")
	table := &record.WideTable{
		Columns: []string{"population_total", "cereal_yield_kg_per_hectare"},
		Rows: []record.WideRow{
			{
				EntityName: sql.NullString{String: "Nigeria", Valid: true},
				EntityCode: "NGA",
				Year:       sql.NullInt64{Int64: 2020, Valid: true},
				Values: map[string]sql.NullFloat64{
					"population_total":            {Float64: 208327405, Valid: true},
					"cereal_yield_kg_per_hectare": {},
				},
			},
		},
	}

	require.NoError(t, ioartifact.WriteWide(path, table))
	res, err := ioartifact.ReadWide(path)
	require.NoError(t, err)
	assert.Equal(t, table, res)

	res, err = ioartifact.ReadWide(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
}

func TestWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := ioartifact.WriteRaw(filepath.Join(blocker, "raw.json"), nil)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArtifactWriteError, gnErr.Code)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.json")
	wide := filepath.Join(dir, "wide.json")
	require.NoError(t, ioartifact.WriteRaw(raw, nil))
	require.NoError(t, ioartifact.WriteWide(wide, nil))

	n := ioartifact.Remove(raw, wide, filepath.Join(dir, "missing.json"))
	assert.Equal(t, 2, n)
	assert.NoFileExists(t, raw)
	assert.NoFileExists(t, wide)

	// removing again is not an error
	assert.Equal(t, 0, ioartifact.Remove(raw, wide))
}
