// Package postgres implements the PostgreSQL engine: a case-folding
// backend whose true-case identifiers live in the shadow registry.
//
// Import this package with a blank identifier to register the driver:
//
//	import _ "github.com/brackishdb/brackish/pkg/drivers/postgres"
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
	"github.com/brackishdb/brackish/pkg/shadow"
)

// postgresDialect captures how PostgreSQL differs from the other
// engines: dollar placeholders, lowercase folding of unquoted
// identifiers, DDL that participates in transactions, and multi-column
// drops in one ALTER.
var postgresDialect = core.Dialect{
	Name:             "postgres",
	Placeholder:      core.PlaceholderDollar,
	Folding:          core.FoldLower,
	Quote:            `"`,
	DoubleType:       "DOUBLE PRECISION",
	TransactionalDDL: true,
	MultiDropColumn:  true,
}

func init() {
	driver.Register(postgresDialect.Name, &Driver{})
}

// Driver opens PostgreSQL sessions and manages whole databases through
// the maintenance database.
type Driver struct{}

// Name returns the registry name.
func (d *Driver) Name() string { return postgresDialect.Name }

// Open establishes one session to cfg.Database. Because PostgreSQL
// folds unquoted identifiers to lowercase, the session mounts the
// shadow registry as its catalog.
func (d *Driver) Open(ctx context.Context, cfg core.Config, logger *slog.Logger) (driver.Conn, error) {
	db, err := open(ctx, cfg, cfg.Database)
	if err != nil {
		return nil, err
	}
	sess, err := driver.NewSession(ctx, db, cfg, postgresDialect,
		shadow.NewRegistry(core.PlaceholderDollar), classify, logger)
	if err != nil {
		return nil, err
	}
	return &Conn{Session: sess}, nil
}

// open dials one database and verifies the session is usable before
// handing the handle back.
func open(ctx context.Context, cfg core.Config, database string) (*sql.DB, error) {
	db, err := sql.Open("pgx", buildDSN(cfg, database))
	if err != nil {
		return nil, classify("postgres.connect", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify("postgres.connect", err)
	}
	return db, nil
}

// buildDSN builds a PostgreSQL connection string from the configuration.
func buildDSN(cfg core.Config, database string) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := cfg.Options["sslmode"]
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, database, sslmode)
	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}

// Conn is one PostgreSQL session.
type Conn struct {
	*driver.Session
}

// HasMath reports true: PostgreSQL ships its math functions
// unconditionally.
func (c *Conn) HasMath() bool { return true }

// Variable reads one server parameter via SHOW. An unknown parameter is
// reported as absent rather than a fault; losing the session still
// propagates.
func (c *Conn) Variable(ctx context.Context, name string) (string, bool, error) {
	op := c.Op("variable")
	rows, err := c.Query(ctx, op, "SHOW "+name)
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
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, classify(op, err)
	}
	return value, true, nil
}

// Ensure Conn implements the driver.Conn interface
var _ driver.Conn = (*Conn)(nil)
