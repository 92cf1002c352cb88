package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
)

// newTestDB creates a database file under the test's temp directory
// and returns its config.
func newTestDB(t *testing.T) core.Config {
	t.Helper()
	cfg := core.DefaultConfig("duckdb")
	cfg.Database = filepath.Join(t.TempDir(), "weewx.duckdb")
	require.NoError(t, driver.CreateDatabase(context.Background(), cfg, nil))
	return cfg
}

func mustConnect(t *testing.T, cfg core.Config) driver.Conn {
	t.Helper()
	conn, err := driver.Connect(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestDriverRegistered(t *testing.T) {
	assert.True(t, driver.IsRegistered("duckdb"), "duckdb driver should be registered")

	d, ok := driver.Get("duckdb")
	require.True(t, ok, "should be able to get duckdb driver")
	assert.Equal(t, "duckdb", d.Name())
}

func TestDialect(t *testing.T) {
	assert.Equal(t, core.PlaceholderQuestion, duckdbDialect.Placeholder)
	assert.Equal(t, core.FoldNone, duckdbDialect.Folding)
	assert.True(t, duckdbDialect.TransactionalDDL)
	assert.False(t, duckdbDialect.MultiDropColumn)
	assert.Equal(t, "DOUBLE", duckdbDialect.DoubleType)
}

func TestOpenNonexistentDatabase(t *testing.T) {
	cfg := core.DefaultConfig("duckdb")
	cfg.Database = filepath.Join(t.TempDir(), "missing.duckdb")

	_, err := driver.Connect(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrNoDatabase)
}

func TestCreateAndOpen(t *testing.T) {
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)

	assert.Equal(t, cfg.Database, conn.DatabaseName())
	assert.Equal(t, "duckdb", conn.DriverName())
	assert.True(t, conn.HasMath())
}

func TestCreateExistingDatabase(t *testing.T) {
	cfg := newTestDB(t)

	err := driver.CreateDatabase(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrDatabaseExists)
}

func TestDropDatabase(t *testing.T) {
	cfg := newTestDB(t)

	require.NoError(t, driver.DropDatabase(context.Background(), cfg, nil))
	_, err := os.Stat(cfg.Database)
	assert.True(t, os.IsNotExist(err))
}

func TestDropNonexistentDatabase(t *testing.T) {
	cfg := core.DefaultConfig("duckdb")
	cfg.Database = filepath.Join(t.TempDir(), "missing.duckdb")

	err := driver.DropDatabase(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrNoDatabase)
}

func TestMemoryDatabase(t *testing.T) {
	cfg := core.DefaultConfig("duckdb")
	cfg.Database = ":memory:"

	conn := mustConnect(t, cfg)
	cur := conn.Cursor()
	defer cur.Close()

	require.NoError(t, cur.Execute(context.Background(), "CREATE TABLE t (v INTEGER)"))
	require.NoError(t, cur.Execute(context.Background(), "INSERT INTO t (v) VALUES (?)", 42))

	require.NoError(t, cur.Execute(context.Background(), "SELECT v FROM t"))
	row, err := cur.Fetch()
	require.NoError(t, err)
	require.Len(t, row, 1)
	assert.EqualValues(t, 42, row[0])
}

func TestVariable(t *testing.T) {
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)

	value, ok, err := conn.Variable(context.Background(), "memory_limit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, value)

	_, ok, err = conn.Variable(context.Background(), "no_such_setting")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTablesAndColumns(t *testing.T) {
	ctx := context.Background()
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)
	cur := conn.Cursor()
	defer cur.Close()

	require.NoError(t, cur.CreateTable(ctx, "archive", []core.ColumnSpec{
		{Name: "dateTime", Type: "INTEGER NOT NULL PRIMARY KEY"},
		{Name: "outTemp", Type: "REAL"},
	}))

	tables, err := conn.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"archive"}, tables)

	// No folding: the declared mixed-case names survive in the catalog.
	columns, err := conn.ColumnsOf(ctx, "archive")
	require.NoError(t, err)
	assert.Equal(t, []string{"dateTime", "outTemp"}, columns)
}

func TestSchemaOfWidenedReal(t *testing.T) {
	ctx := context.Background()
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)
	cur := conn.Cursor()
	defer cur.Close()

	require.NoError(t, cur.CreateTable(ctx, "archive", []core.ColumnSpec{
		{Name: "dateTime", Type: "INTEGER NOT NULL PRIMARY KEY"},
		{Name: "outTemp", Type: "REAL"},
	}))

	it, err := conn.SchemaOf(ctx, "archive")
	require.NoError(t, err)
	descs, err := driver.CollectDescriptors(it)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, "dateTime", descs[0].Name)
	assert.Equal(t, "INTEGER", descs[0].Type)
	assert.True(t, descs[0].PrimaryKey)
	assert.False(t, descs[0].Nullable)

	// REAL was widened to DOUBLE on create; both normalize to REAL.
	assert.Equal(t, "outTemp", descs[1].Name)
	assert.Equal(t, "REAL", descs[1].Type)
	assert.False(t, descs[1].PrimaryKey)
}
