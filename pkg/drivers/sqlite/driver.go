// Package sqlite implements the SQLite engine over the pure-Go driver.
// SQLite preserves identifier case, so listings pass through to
// sqlite_master instead of a shadow registry, and the database is a
// file path (or :memory:) rather than a served catalog.
//
// Import this package with a blank identifier to register the driver:
//
//	import _ "github.com/brackishdb/brackish/pkg/drivers/sqlite"
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	// Registers the modernc database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
	"github.com/brackishdb/brackish/pkg/shadow"
)

var sqliteDialect = core.Dialect{
	Name:             "sqlite",
	Placeholder:      core.PlaceholderQuestion,
	Folding:          core.FoldNone,
	Quote:            `"`,
	DoubleType:       "DOUBLE",
	TransactionalDDL: true,
	MultiDropColumn:  false,
}

func init() {
	driver.Register(sqliteDialect.Name, &Driver{})
}

// Driver opens SQLite sessions and manages database files.
type Driver struct{}

// Name returns the registry name.
func (d *Driver) Name() string { return sqliteDialect.Name }

// Open establishes one session to the database file named by
// cfg.Database. A missing file is a NoDatabase fault: databases are
// created through CreateDatabase, never as a side effect of connecting.
// Entries in cfg.Options are applied as PRAGMA settings on the session.
func (d *Driver) Open(ctx context.Context, cfg core.Config, logger *slog.Logger) (driver.Conn, error) {
	op := "sqlite.connect"
	if cfg.Database == "" {
		return nil, core.NewError(core.KindProgramming, op, errors.New("database path is empty"))
	}
	if cfg.Database != ":memory:" {
		if _, err := os.Stat(cfg.Database); err != nil {
			return nil, core.NewError(core.KindNoDatabase, op,
				fmt.Errorf("attempt to open a non-existent database %s", cfg.Database))
		}
	}

	db, err := sql.Open("sqlite", cfg.Database)
	if err != nil {
		return nil, classify(op, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(op, err)
	}

	sess, err := driver.NewSession(ctx, db, cfg, sqliteDialect, newCatalog(), classify, logger)
	if err != nil {
		return nil, err
	}
	c := &Conn{Session: sess}
	if err := c.applyPragmas(ctx, cfg.Options); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// newCatalog answers listings straight from sqlite_master: the engine
// keeps identifier case, so there is nothing to shadow.
func newCatalog() *shadow.Passthrough {
	return &shadow.Passthrough{
		ListTables: func(ctx context.Context, x shadow.Execer) ([]string, error) {
			rows, err := x.QueryContext(ctx,
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
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

// Conn is one SQLite session.
type Conn struct {
	*driver.Session

	mathOnce sync.Once
	hasMath  bool
}

// applyPragmas runs the configured PRAGMA settings directly on the
// session, before any lazy transaction can open: journal settings
// cannot change inside a transaction.
func (c *Conn) applyPragmas(ctx context.Context, options map[string]string) error {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("PRAGMA %s=%s", k, options[k])
		if _, err := c.Sess.ExecContext(ctx, stmt); err != nil {
			return classify(c.Op("pragma"), err)
		}
	}
	return nil
}

// HasMath probes for SQL math functions once per connection: they are a
// compile-time option of the engine, not a given.
func (c *Conn) HasMath() bool {
	c.mathOnce.Do(func() {
		rows, err := c.Sess.QueryContext(context.Background(), "SELECT sqrt(4)")
		if err != nil {
			return
		}
		rows.Close()
		c.hasMath = true
	})
	return c.hasMath
}

// Variable reads one PRAGMA value. An unknown pragma yields no rows,
// which is reported as absent rather than a fault.
func (c *Conn) Variable(ctx context.Context, name string) (string, bool, error) {
	op := c.Op("variable")
	rows, err := c.Query(ctx, op, "PRAGMA "+name)
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
