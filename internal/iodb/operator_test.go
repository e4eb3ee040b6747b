package iodb_test

import (
	"context"
	"testing"

	"github.com/gnames/agrietl/internal/iodb"
	"github.com/gnames/agrietl/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: These are integration tests that require PostgreSQL.
//
// Configuration comes from AGRIETL_DATABASE_* environment variables and
// built-in defaults. The database name is always forced to "agrietl_test".
//
//   docker run -d --name agrietl-test -e POSTGRES_PASSWORD=postgres \
//     -e POSTGRES_DB=agrietl_test -p 5432:5432 postgres:16
//
// Skip these tests with:
//   go test -short

func TestPgxOperator_NotConnected(t *testing.T) {
	op := iodb.NewPgxOperator()
	assert.Nil(t, op.Pool())

	_, err := op.TableExists(context.Background(), "anything")
	assert.Error(t, err)
	assert.NoError(t, op.Close())
}

func TestPgxOperator_Connect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err, "Connect should succeed with valid config")
	defer op.Close()

	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err, "Should be able to execute commands after Connect")
	assert.False(t, exists)
}

func TestPgxOperator_Connect_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	err := op.Connect(ctx, cfg)
	assert.Error(t, err, "Connect should fail with invalid host")
}

func TestPgxOperator_TableExists(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	_, _ = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS test_table_exists CASCADE")

	exists, err := op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.False(t, exists, "Table should not exist initially")

	_, err = op.Pool().Exec(ctx, "CREATE TABLE test_table_exists (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)

	exists, err = op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.True(t, exists, "Table should exist after creation")

	exists, err = op.TableExists(ctx, "public.test_table_exists")
	require.NoError(t, err)
	assert.True(t, exists, "Schema prefix is supported")

	_, _ = op.Pool().Exec(ctx, "DROP TABLE test_table_exists")
}
