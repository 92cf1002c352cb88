package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackishdb/brackish/internal/testutil"
	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
)

// newTestDB creates a database file under the test's temp directory
// and returns its config.
func newTestDB(t *testing.T) core.Config {
	t.Helper()
	cfg := core.DefaultConfig("sqlite")
	cfg.Database = filepath.Join(t.TempDir(), "weewx.sdb")
	require.NoError(t, driver.CreateDatabase(context.Background(), cfg, nil))
	return cfg
}

func mustConnect(t *testing.T, cfg core.Config) driver.Conn {
	t.Helper()
	conn, err := driver.Connect(context.Background(), cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestDriverRegistered(t *testing.T) {
	assert.True(t, driver.IsRegistered("sqlite"), "sqlite driver should be registered")

	d, ok := driver.Get("sqlite")
	require.True(t, ok, "should be able to get sqlite driver")
	assert.Equal(t, "sqlite", d.Name())
}

func TestDialect(t *testing.T) {
	assert.Equal(t, core.PlaceholderQuestion, sqliteDialect.Placeholder)
	assert.Equal(t, core.FoldNone, sqliteDialect.Folding)
	assert.True(t, sqliteDialect.TransactionalDDL)
	assert.False(t, sqliteDialect.MultiDropColumn)
}

func TestOpenNonexistentDatabase(t *testing.T) {
	cfg := core.DefaultConfig("sqlite")
	cfg.Database = filepath.Join(t.TempDir(), "missing.sdb")

	_, err := driver.Connect(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrNoDatabase)
}

func TestCreateAndOpen(t *testing.T) {
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)

	assert.Equal(t, cfg.Database, conn.DatabaseName())
	assert.Equal(t, "sqlite", conn.DriverName())
}

func TestCreateExistingDatabase(t *testing.T) {
	cfg := newTestDB(t)

	err := driver.CreateDatabase(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrDatabaseExists)
}

func TestCreateMakesParentDirectories(t *testing.T) {
	cfg := core.DefaultConfig("sqlite")
	cfg.Database = filepath.Join(t.TempDir(), "a", "b", "weewx.sdb")

	require.NoError(t, driver.CreateDatabase(context.Background(), cfg, nil))
	_, err := os.Stat(cfg.Database)
	assert.NoError(t, err)
}

func TestDropDatabase(t *testing.T) {
	cfg := newTestDB(t)

	require.NoError(t, driver.DropDatabase(context.Background(), cfg, nil))
	_, err := os.Stat(cfg.Database)
	assert.True(t, os.IsNotExist(err))
}

func TestDropNonexistentDatabase(t *testing.T) {
	cfg := core.DefaultConfig("sqlite")
	cfg.Database = filepath.Join(t.TempDir(), "missing.sdb")

	err := driver.DropDatabase(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, core.ErrNoDatabase)
}

func TestMemoryDatabase(t *testing.T) {
	cfg := core.DefaultConfig("sqlite")
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

func TestPragmaOptions(t *testing.T) {
	cfg := newTestDB(t)
	cfg.Options = map[string]string{"synchronous": "OFF"}
	conn := mustConnect(t, cfg)

	value, ok, err := conn.Variable(context.Background(), "synchronous")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", value)
}

func TestVariable(t *testing.T) {
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)

	value, ok, err := conn.Variable(context.Background(), "journal_mode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, value)

	_, ok, err = conn.Variable(context.Background(), "no_such_pragma")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasMathIsStable(t *testing.T) {
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)

	first := conn.HasMath()
	assert.Equal(t, first, conn.HasMath())
}

func TestRowCount(t *testing.T) {
	ctx := context.Background()
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)
	cur := conn.Cursor()
	defer cur.Close()

	require.NoError(t, cur.Execute(ctx, "CREATE TABLE t (v INTEGER)"))
	require.NoError(t, cur.Execute(ctx, "INSERT INTO t (v) VALUES (?), (?)", 1, 2))
	assert.EqualValues(t, 2, cur.RowCount())

	require.NoError(t, cur.Execute(ctx, "UPDATE t SET v = v + 1"))
	assert.EqualValues(t, 2, cur.RowCount())

	require.NoError(t, cur.Execute(ctx, "SELECT v FROM t"))
	assert.EqualValues(t, -1, cur.RowCount())
}

func TestFetchSentinel(t *testing.T) {
	ctx := context.Background()
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)
	cur := conn.Cursor()
	defer cur.Close()

	require.NoError(t, cur.Execute(ctx, "CREATE TABLE t (v INTEGER)"))
	require.NoError(t, cur.Execute(ctx, "INSERT INTO t (v) VALUES (?), (?)", 1, 2))
	require.NoError(t, cur.Execute(ctx, "SELECT v FROM t ORDER BY v"))

	for want := 1; want <= 2; want++ {
		row, err := cur.Fetch()
		require.NoError(t, err)
		require.Len(t, row, 1)
		assert.EqualValues(t, want, row[0])
	}

	// Exhaustion is a sentinel, repeatably.
	for i := 0; i < 2; i++ {
		row, err := cur.Fetch()
		require.NoError(t, err)
		assert.Nil(t, row)
	}
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	cfg := newTestDB(t)
	conn := mustConnect(t, cfg)
	cur := conn.Cursor()
	defer cur.Close()

	require.NoError(t, cur.Execute(ctx, "CREATE TABLE t (v INTEGER PRIMARY KEY)"))

	require.NoError(t, conn.Begin(ctx))
	require.NoError(t, cur.Execute(ctx, "INSERT INTO t (v) VALUES (?)", 1))
	require.NoError(t, conn.Rollback(ctx))

	require.NoError(t, cur.Execute(ctx, "SELECT COUNT(*) FROM t"))
	row, err := cur.Fetch()
	require.NoError(t, err)
	assert.EqualValues(t, 0, row[0])

	require.NoError(t, conn.Begin(ctx))
	require.NoError(t, cur.Execute(ctx, "INSERT INTO t (v) VALUES (?)", 2))
	require.NoError(t, conn.Commit(ctx))

	require.NoError(t, cur.Execute(ctx, "SELECT COUNT(*) FROM t"))
	row, err = cur.Fetch()
	require.NoError(t, err)
	assert.EqualValues(t, 1, row[0])
}

func TestAutocommitOff(t *testing.T) {
	ctx := context.Background()
	cfg := newTestDB(t)
	cfg.Autocommit = false
	conn := mustConnect(t, cfg)
	cur := conn.Cursor()
	defer cur.Close()

	require.NoError(t, cur.Execute(ctx, "CREATE TABLE t (v INTEGER)"))
	require.NoError(t, cur.Execute(ctx, "INSERT INTO t (v) VALUES (?)", 1))

	// The implicit transaction opened before the first statement; the
	// insert vanishes with it.
	require.NoError(t, conn.Rollback(ctx))
	require.NoError(t, cur.Execute(ctx, "SELECT COUNT(*) FROM t"))
	row, err := cur.Fetch()
	require.NoError(t, err)
	assert.EqualValues(t, 0, row[0])
}
