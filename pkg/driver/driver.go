// Package driver defines the uniform connection contract every engine
// implements, the driver registry, and the shared database/sql session
// base that engine connections embed.
//
// This package contains the public contract; concrete engine
// implementations live in pkg/drivers/ subdirectories and register
// themselves in init, so callers import them for side effect:
//
//	import _ "github.com/brackishdb/brackish/pkg/drivers/postgres"
//
// Statements use ? as the positional parameter marker regardless of
// engine; each session rewrites markers to the engine's native form.
// Every backend fault surfaces as a *core.Error carrying one of the
// canonical kinds.
package driver

import (
	"context"
	"log/slog"

	"github.com/brackishdb/brackish/pkg/core"
)

// Conn is one open session against one database. A Conn is not safe for
// concurrent use; open one Conn per goroutine instead.
type Conn interface {
	// Cursor returns a new cursor bound to this connection's session.
	Cursor() *Cursor

	// Tables returns the application table names known to the
	// connection, in their true case. The identifier shadow table, when
	// the engine has one, is never listed.
	Tables(ctx context.Context) ([]string, error)

	// PhysicalTables lists table names straight from the engine's
	// catalog, bypassing the shadow bookkeeping. Diagnostic use only.
	PhysicalTables(ctx context.Context) ([]string, error)

	// SchemaOf produces a lazy, single-pass sequence of column
	// descriptors for table, in ordinal order.
	SchemaOf(ctx context.Context, table string) (SchemaIter, error)

	// ColumnsOf returns the ordered true-case column names of table.
	// Fails with a NoTable fault when the connection knows nothing
	// about the table.
	ColumnsOf(ctx context.Context, table string) ([]string, error)

	// Variable fetches a backend session parameter, best-effort: false
	// when the backend rejects the name.
	Variable(ctx context.Context, name string) (string, bool, error)

	// Begin, Commit, Rollback issue the standard transaction-control
	// statements on the session.
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// HasMath reports whether the engine provides SQL math functions
	// (sqrt and friends).
	HasMath() bool

	// DatabaseName returns the connected database's name (the file path
	// for embedded engines).
	DatabaseName() string

	// DriverName returns the registered engine name.
	DriverName() string

	// Close ends the session, closing any cursors still attached.
	// Idempotent.
	Close() error
}

// Driver opens connections and performs database administration for one
// registered engine.
type Driver interface {
	// Name returns the registry name ("postgres", "sqlite", ...).
	Name() string

	// Open establishes one session to cfg.Database. A nil logger means
	// discard.
	Open(ctx context.Context, cfg core.Config, logger *slog.Logger) (Conn, error)

	// CreateDatabase creates cfg.Database, failing with DatabaseExists
	// when it is already there. Server engines work through the
	// maintenance database.
	CreateDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error

	// DropDatabase removes cfg.Database, failing with NoDatabase when
	// it does not exist.
	DropDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error
}

// Connect opens a session using the engine named by cfg.Driver.
func Connect(ctx context.Context, cfg core.Config, logger *slog.Logger) (Conn, error) {
	d, err := lookup(cfg)
	if err != nil {
		return nil, err
	}
	return d.Open(ctx, cfg, logger)
}

// CreateDatabase creates cfg.Database using the engine named by
// cfg.Driver.
func CreateDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	d, err := lookup(cfg)
	if err != nil {
		return err
	}
	return d.CreateDatabase(ctx, cfg, logger)
}

// DropDatabase removes cfg.Database using the engine named by
// cfg.Driver.
func DropDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	d, err := lookup(cfg)
	if err != nil {
		return err
	}
	return d.DropDatabase(ctx, cfg, logger)
}
