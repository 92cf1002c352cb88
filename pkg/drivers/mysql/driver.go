// Package mysql implements the MySQL engine. On the platforms this
// layer targets MySQL stores identifiers in the case the caller wrote,
// so listings pass through to information_schema instead of a shadow
// registry. DDL does not participate in transactions; schema mutations
// run as plain statement sequences.
//
// Import this package with a blank identifier to register the driver:
//
//	import _ "github.com/brackishdb/brackish/pkg/drivers/mysql"
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
	"github.com/brackishdb/brackish/pkg/shadow"
)

const defaultPort = 3306

var mysqlDialect = core.Dialect{
	Name:             "mysql",
	Placeholder:      core.PlaceholderQuestion,
	Folding:          core.FoldNone,
	Quote:            "`",
	DoubleType:       "DOUBLE",
	TransactionalDDL: false,
	MultiDropColumn:  true,
}

func init() {
	driver.Register(mysqlDialect.Name, &Driver{})
}

// Driver opens MySQL sessions and manages whole databases through the
// maintenance database.
type Driver struct{}

// Name returns the registry name.
func (d *Driver) Name() string { return mysqlDialect.Name }

// Open establishes one session to cfg.Database.
func (d *Driver) Open(ctx context.Context, cfg core.Config, logger *slog.Logger) (driver.Conn, error) {
	db, err := open(ctx, cfg, cfg.Database)
	if err != nil {
		return nil, err
	}
	sess, err := driver.NewSession(ctx, db, cfg, mysqlDialect, newCatalog(), classify, logger)
	if err != nil {
		return nil, err
	}
	return &Conn{Session: sess}, nil
}

// open dials one database and verifies the session is usable before
// handing the handle back. An empty database name connects without a
// default schema, which is how the admin operations reach the server.
func open(ctx context.Context, cfg core.Config, database string) (*sql.DB, error) {
	db, err := sql.Open("mysql", buildDSN(cfg, database))
	if err != nil {
		return nil, classify("mysql.connect", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify("mysql.connect", err)
	}
	return db, nil
}

// buildDSN builds a MySQL connection string through the driver's own
// config type rather than string concatenation, so credentials with
// reserved characters survive.
func buildDSN(cfg core.Config, database string) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", host, port)
	mc.DBName = database
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// newCatalog answers listings from information_schema scoped to the
// session's default schema.
func newCatalog() *shadow.Passthrough {
	return &shadow.Passthrough{
		ListTables: func(ctx context.Context, x shadow.Execer) ([]string, error) {
			rows, err := x.QueryContext(ctx,
				"SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name")
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
				"SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position", table)
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

// Conn is one MySQL session.
type Conn struct {
	*driver.Session
}

// HasMath reports true: MySQL ships its math functions unconditionally.
func (c *Conn) HasMath() bool { return true }

// Variable reads one server variable via SHOW VARIABLES LIKE. An
// unknown variable yields no rows, which is reported as absent rather
// than a fault.
func (c *Conn) Variable(ctx context.Context, name string) (string, bool, error) {
	op := c.Op("variable")
	rows, err := c.Query(ctx, op, "SHOW VARIABLES LIKE ?", name)
	if err != nil {
		var ce *core.Error
		if errors.As(err, &ce) && (ce.Kind == core.KindDisconnected || ce.Kind == core.KindCannotConnect) {
			return "", false, err
		}
		return "", false, nil
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, nil
	}
	var varName, value string
	if err := rows.Scan(&varName, &value); err != nil {
		return "", false, classify(op, err)
	}
	return value, true, nil
}

// Ensure Conn implements the driver.Conn interface
var _ driver.Conn = (*Conn)(nil)
