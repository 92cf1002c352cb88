// Package shadow maintains the identifier shadow table: the true-case
// record of every table and column created through the layer on a
// case-folding engine. The engine's catalog keeps only the folded names;
// the shadow rows keep what the caller actually wrote, and table/column
// listings answer from them.
//
// Engines that preserve identifier case mount Passthrough instead, which
// answers listings straight from the engine's own catalog.
package shadow

import (
	"context"
	"database/sql"
)

// DefaultTable is the physical name of the shadow table. Lowercase on
// purpose: it must survive the engine's folding unchanged.
const DefaultTable = "ident_shadow"

// Execer runs statements on the session that owns the catalog. *sql.Conn
// satisfies it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Catalog records identifier bookkeeping and answers table and column
// listings. All statements run on the caller's session so bookkeeping
// joins whatever transaction the caller has open.
type Catalog interface {
	// Init creates the backing storage if the catalog has any.
	Init(ctx context.Context, x Execer) error

	// TrackTable records a freshly created table and its columns, in
	// schema order.
	TrackTable(ctx context.Context, x Execer, table string, columns []string) error

	// ForgetTable removes every row for table. Zero rows is not an error.
	ForgetTable(ctx context.Context, x Execer, table string) error

	// TrackColumn records a column appended to an existing table.
	TrackColumn(ctx context.Context, x Execer, table, column string) error

	// RenameColumn updates the matching row in place, preserving its
	// auxiliary bookkeeping.
	RenameColumn(ctx context.Context, x Execer, table, oldName, newName string) error

	// ForgetColumns removes the named columns in one statement. A nil or
	// empty list is a no-op.
	ForgetColumns(ctx context.Context, x Execer, table string, columns []string) error

	// Tables returns the distinct tracked table names, sorted.
	Tables(ctx context.Context, x Execer) ([]string, error)

	// Columns returns the tracked column names for table in schema
	// order. An empty result means the table is unknown to the catalog;
	// the caller decides what that implies.
	Columns(ctx context.Context, x Execer, table string) ([]string, error)

	// TableName is the physical name of the backing table, empty when
	// the catalog has none.
	TableName() string
}
