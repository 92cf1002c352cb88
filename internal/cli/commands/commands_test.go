package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackishdb/brackish/internal/cli/config"
)

// loadSQLiteTarget points the loaded configuration at a sqlite database
// file under dir, the way the root command's PersistentPreRunE would.
func loadSQLiteTarget(t *testing.T, dbPath string) {
	t.Helper()
	config.ResetConfig()
	t.Setenv("BRACKISH_TARGET_DRIVER", "sqlite")
	t.Setenv("BRACKISH_TARGET_DATABASE", dbPath)

	cfgPath := filepath.Join(t.TempDir(), "brackish.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(""), 0o644))

	_, err := config.LoadConfig(cfgPath, nil)
	require.NoError(t, err)
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestCreateDBQueryTablesRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weather.db")
	loadSQLiteTarget(t, dbPath)

	out := runCommand(t, NewCreateDBCommand())
	assert.Contains(t, out, "Created database")
	assert.FileExists(t, dbPath)

	out = runCommand(t, NewQueryCommand(),
		"CREATE TABLE archive (dateTime INTEGER NOT NULL PRIMARY KEY, outTemp REAL)")
	assert.Contains(t, out, "rows affected")

	out = runCommand(t, NewTablesCommand())
	assert.Contains(t, out, "archive")

	out = runCommand(t, NewQueryCommand(), "--format", "csv",
		"SELECT dateTime, outTemp FROM archive")
	assert.Contains(t, out, "dateTime,outTemp")
}

func TestSchemaCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weather.db")
	loadSQLiteTarget(t, dbPath)

	runCommand(t, NewCreateDBCommand())
	runCommand(t, NewQueryCommand(),
		"CREATE TABLE archive (dateTime INTEGER NOT NULL PRIMARY KEY, outTemp REAL)")

	out := runCommand(t, NewSchemaCommand(), "archive")
	assert.Contains(t, out, "dateTime")
	assert.Contains(t, out, "INTEGER")
	assert.Contains(t, out, "outTemp")
}

func TestDropDBWithConfirmation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weather.db")
	loadSQLiteTarget(t, dbPath)
	runCommand(t, NewCreateDBCommand())

	// Declined prompt leaves the database in place.
	cmd := NewDropDBCommand()
	cmd.SetIn(bytes.NewBufferString("n\n"))
	out := runCommand(t, cmd)
	assert.Contains(t, out, "Aborted")
	assert.FileExists(t, dbPath)

	out = runCommand(t, NewDropDBCommand(), "--yes")
	assert.Contains(t, out, "Dropped database")
	assert.NoFileExists(t, dbPath)
}

func TestDriftCleanDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weather.db")
	loadSQLiteTarget(t, dbPath)
	runCommand(t, NewCreateDBCommand())
	runCommand(t, NewQueryCommand(), "CREATE TABLE archive (dateTime INTEGER)")

	out := runCommand(t, NewDriftCommand(), "--format", "json")
	assert.Contains(t, out, `"clean": true`)
	assert.Contains(t, out, `"driver": "sqlite"`)
}

func TestResolveTargetRequiresDriver(t *testing.T) {
	config.ResetConfig()
	cfgPath := filepath.Join(t.TempDir(), "brackish.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(""), 0o644))
	_, err := config.LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	_, err = resolveTarget()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver is required")
}
