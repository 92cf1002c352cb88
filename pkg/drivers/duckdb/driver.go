// Package duckdb implements the DuckDB engine. DuckDB preserves
// identifier case, so listings pass through to information_schema
// instead of a shadow registry, and the database is a file path (or
// :memory:) rather than a served catalog.
//
// Import this package with a blank identifier to register the driver:
//
//	import _ "github.com/brackishdb/brackish/pkg/drivers/duckdb"
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	// Registers the duckdb database/sql driver.
	_ "github.com/marcboeker/go-duckdb"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
	"github.com/brackishdb/brackish/pkg/shadow"
)

var duckdbDialect = core.Dialect{
	Name:             "duckdb",
	Placeholder:      core.PlaceholderQuestion,
	Folding:          core.FoldNone,
	Quote:            `"`,
	DoubleType:       "DOUBLE",
	TransactionalDDL: true,
	MultiDropColumn:  false,
}

func init() {
	driver.Register(duckdbDialect.Name, &Driver{})
}

// Driver opens DuckDB sessions and manages database files.
type Driver struct{}

// Name returns the registry name.
func (d *Driver) Name() string { return duckdbDialect.Name }

// Open establishes one session to the database file named by
// cfg.Database. A missing file is a NoDatabase fault: databases are
// created through CreateDatabase, never as a side effect of connecting.
// Use ":memory:" for an in-memory database.
func (d *Driver) Open(ctx context.Context, cfg core.Config, logger *slog.Logger) (driver.Conn, error) {
	op := "duckdb.connect"
	if cfg.Database == "" {
		return nil, core.NewError(core.KindProgramming, op, errors.New("database path is empty"))
	}
	path := cfg.Database
	if path == ":memory:" {
		path = ""
	} else if _, err := os.Stat(path); err != nil {
		return nil, core.NewError(core.KindNoDatabase, op,
			fmt.Errorf("attempt to open a non-existent database %s", cfg.Database))
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, classify(op, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(op, err)
	}

	sess, err := driver.NewSession(ctx, db, cfg, duckdbDialect, newCatalog(), classify, logger)
	if err != nil {
		return nil, err
	}
	return &Conn{Session: sess}, nil
}

// newCatalog answers listings from information_schema: the engine keeps
// identifier case, so there is nothing to shadow.
func newCatalog() *shadow.Passthrough {
	return &shadow.Passthrough{
		ListTables: func(ctx context.Context, x shadow.Execer) ([]string, error) {
			rows, err := x.QueryContext(ctx,
				"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name")
			if err != nil {
				return nil, err
			}
			defer rows.Close()
			var tables []string
			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					return nil, err
				}
				tables = append(tables, name)
			}
			return tables, rows.Err()
		},
		ListColumns: func(ctx context.Context, x shadow.Execer, table string) ([]string, error) {
			rows, err := x.QueryContext(ctx,
				"SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
			if err != nil {
				return nil, err
			}
			defer rows.Close()
			var columns []string
			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					return nil, err
				}
				columns = append(columns, name)
			}
			return columns, rows.Err()
		},
	}
}

// Conn is one DuckDB session.
type Conn struct {
	*driver.Session
}

// HasMath reports true: DuckDB ships its math functions
// unconditionally.
func (c *Conn) HasMath() bool { return true }

// Variable reads one setting via current_setting. An unknown setting
// raises a catalog fault, which is reported as absent rather than
// propagated.
func (c *Conn) Variable(ctx context.Context, name string) (string, bool, error) {
	op := c.Op("variable")
	rows, err := c.Query(ctx, op, "SELECT current_setting(?)", name)
	if err != nil {
		var ce *core.Error
		if errors.As(err, &ce) && ce.Kind == core.KindDisconnected {
			return "", false, err
		}
		return "", false, nil
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, nil
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, classify(op, err)
	}
	return value, true, nil
}

// Ensure Conn implements the driver.Conn interface
var _ driver.Conn = (*Conn)(nil)
