package ioschema_test

import (
	"context"
	"testing"

	"github.com/gnames/agrietl/internal/iodb"
	"github.com/gnames/agrietl/internal/ioschema"
	"github.com/gnames/agrietl/internal/iotesting"
	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/agrietl/pkg/schema"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureTableNotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewPgxOperator(), catalog.Default(), "metrics")

	err := mgr.EnsureTable(context.Background())
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestEnsureTableIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer op.Close()

	table := "agrietl_schema_test"
	_, err = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS "+schema.Ident(table))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = op.Pool().Exec(context.Background(),
			"DROP TABLE IF EXISTS "+schema.Ident(table))
	})

	mgr := ioschema.NewManager(op, catalog.Default(), table)
	require.NoError(t, mgr.EnsureTable(ctx))
	// idempotent
	require.NoError(t, mgr.EnsureTable(ctx))

	for _, v := range []string{table, schema.RunLog{}.TableName()} {
		exists, err := op.TableExists(ctx, v)
		require.NoError(t, err)
		assert.True(t, exists, v)
	}

	var count int
	err = op.Pool().QueryRow(ctx,
		`SELECT count(*) FROM information_schema.columns WHERE table_name = $1`,
		table,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(schema.Columns(catalog.Default())), count)
}
