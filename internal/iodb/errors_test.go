package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "agri", "postgres", originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Equal(t,
		[]any{"agri", "agri", "localhost", 5432, "postgres"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestNotConnectedError_Structure verifies error structure.
func TestNotConnectedError_Structure(t *testing.T) {
	err := NotConnectedError()

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.Nil(t, gnErr.Vars)
}

// TestTableExistsCheckError_Structure verifies error structure.
func TestTableExistsCheckError_Structure(t *testing.T) {
	originalErr := errors.New("query failed")

	err := TableExistsCheckError("metrics", originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBTableExistsCheckError, gnErr.Code)
	assert.Equal(t, []any{"metrics"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestSplitTable(t *testing.T) {
	tests := []struct {
		in, schema, table string
	}{
		{"metrics", "public", "metrics"},
		{"analytics.metrics", "analytics", "metrics"},
	}

	for _, v := range tests {
		schema, table := splitTable(v.in)
		assert.Equal(t, v.schema, schema, v.in)
		assert.Equal(t, v.table, table, v.in)
	}
}
