package driver

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/shadow"
	"github.com/brackishdb/brackish/pkg/sqltext"
)

// GuardFunc translates a backend-native error into a canonical
// *core.Error. Each engine supplies its own; nil errors pass through.
type GuardFunc func(op string, err error) error

// Session is the shared base for engine connections: one database/sql
// handle with exactly one checked-out backend session that every
// statement runs on. Engine Conn types embed *Session and add their
// introspection and capability methods on top.
type Session struct {
	DB      *sql.DB   // owning handle, closed with the session
	Sess    *sql.Conn // the single backend session
	Dialect core.Dialect
	Catalog shadow.Catalog
	Guard   GuardFunc
	Logger  *slog.Logger
	ID      string // short correlation id for log records

	database   string
	autocommit bool
	widenReal  bool
	inTxn      bool
	closed     bool
	cursors    []*Cursor
}

// NewSession checks one session out of db and wires the engine pieces
// around it. On failure db is closed. A nil logger means discard.
func NewSession(ctx context.Context, db *sql.DB, cfg core.Config, dialect core.Dialect, catalog shadow.Catalog, guard GuardFunc, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sess, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, guard(dialect.Name+".connect", err)
	}
	s := &Session{
		DB:         db,
		Sess:       sess,
		Dialect:    dialect,
		Catalog:    catalog,
		Guard:      guard,
		Logger:     logger,
		ID:         uuid.New().String()[:8],
		database:   cfg.Database,
		autocommit: cfg.Autocommit,
		widenReal:  cfg.WidenReal,
	}
	s.Logger.Debug("session opened",
		"driver", dialect.Name,
		"database", cfg.Database,
		"session", s.ID)
	return s, nil
}

// Op qualifies an operation name with the engine for fault messages.
func (s *Session) Op(name string) string {
	return s.Dialect.Name + "." + name
}

// ensureTxn lazily opens the implicit transaction when autocommit is
// off, mirroring how client libraries with autocommit disabled start a
// transaction before the first statement.
func (s *Session) ensureTxn(ctx context.Context) error {
	if s.autocommit || s.inTxn {
		return nil
	}
	if _, err := s.Sess.ExecContext(ctx, "BEGIN"); err != nil {
		return s.Guard(s.Op("begin"), err)
	}
	s.inTxn = true
	return nil
}

// Exec runs one statement on the session: placeholder expansion, lazy
// transaction start, fault translation.
func (s *Session) Exec(ctx context.Context, op, stmt string, args ...any) (sql.Result, error) {
	if err := s.ensureTxn(ctx); err != nil {
		return nil, err
	}
	res, err := s.Sess.ExecContext(ctx, sqltext.Expand(stmt, s.Dialect.Placeholder), args...)
	if err != nil {
		return nil, s.Guard(op, err)
	}
	return res, nil
}

// Query runs one row-returning statement on the session.
func (s *Session) Query(ctx context.Context, op, stmt string, args ...any) (*sql.Rows, error) {
	if err := s.ensureTxn(ctx); err != nil {
		return nil, err
	}
	rows, err := s.Sess.QueryContext(ctx, sqltext.Expand(stmt, s.Dialect.Placeholder), args...)
	if err != nil {
		return nil, s.Guard(op, err)
	}
	return rows, nil
}

// Begin opens an explicit transaction. Inside an already-open
// transaction the statement is passed through and the engine decides.
func (s *Session) Begin(ctx context.Context) error {
	if _, err := s.Sess.ExecContext(ctx, "BEGIN"); err != nil {
		return s.Guard(s.Op("begin"), err)
	}
	s.inTxn = true
	return nil
}

// Commit commits the open transaction.
func (s *Session) Commit(ctx context.Context) error {
	if _, err := s.Sess.ExecContext(ctx, "COMMIT"); err != nil {
		return s.Guard(s.Op("commit"), err)
	}
	s.inTxn = false
	return nil
}

// Rollback abandons the open transaction.
func (s *Session) Rollback(ctx context.Context) error {
	if _, err := s.Sess.ExecContext(ctx, "ROLLBACK"); err != nil {
		return s.Guard(s.Op("rollback"), err)
	}
	s.inTxn = false
	return nil
}

// mutate runs a schema mutation: the DDL and its shadow bookkeeping as
// one unit. When the engine supports transactional DDL and no caller
// transaction is open, both are wrapped in BEGIN/COMMIT and rolled back
// together on failure; inside a caller transaction they join it.
func (s *Session) mutate(ctx context.Context, op string, fn func() error) error {
	wrap := s.Dialect.TransactionalDDL && s.autocommit && !s.inTxn
	if !wrap {
		return fn()
	}
	if _, err := s.Sess.ExecContext(ctx, "BEGIN"); err != nil {
		return s.Guard(op, err)
	}
	s.inTxn = true
	if err := fn(); err != nil {
		if _, rbErr := s.Sess.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
			s.Logger.Debug("rollback after failed schema mutation failed",
				"op", op, "error", rbErr)
		}
		s.inTxn = false
		return err
	}
	s.inTxn = false
	if _, err := s.Sess.ExecContext(ctx, "COMMIT"); err != nil {
		return s.Guard(op, err)
	}
	return nil
}

// Cursor returns a new cursor bound to this session. The cursor picks up
// the connection's per-cursor dialect flags at creation.
func (s *Session) Cursor() *Cursor {
	c := &Cursor{sess: s, widenReal: s.widenReal, rowCount: -1}
	s.cursors = append(s.cursors, c)
	return c
}

// Tables answers from the catalog: tracked true-case names on folding
// engines, the physical listing elsewhere.
func (s *Session) Tables(ctx context.Context) ([]string, error) {
	if err := s.ensureTxn(ctx); err != nil {
		return nil, err
	}
	tables, err := s.Catalog.Tables(ctx, s.Sess)
	if err != nil {
		return nil, s.Guard(s.Op("tables"), err)
	}
	return tables, nil
}

// ColumnsOf answers from the catalog. No recorded columns means the
// table does not exist at this layer, whatever the physical catalog
// may hold.
func (s *Session) ColumnsOf(ctx context.Context, table string) ([]string, error) {
	if err := s.ensureTxn(ctx); err != nil {
		return nil, err
	}
	columns, err := s.Catalog.Columns(ctx, s.Sess, table)
	if err != nil {
		return nil, s.Guard(s.Op("columns_of"), err)
	}
	if len(columns) == 0 {
		return nil, core.NewError(core.KindNoTable, s.Op("columns_of"),
			fmt.Errorf("table %q is unknown", table))
	}
	return columns, nil
}

// DatabaseName returns the connected database's name.
func (s *Session) DatabaseName() string { return s.database }

// DriverName returns the engine name.
func (s *Session) DriverName() string { return s.Dialect.Name }

// Close ends the session. Cursors still attached are closed first.
// Idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, c := range s.cursors {
		c.Close()
	}
	s.cursors = nil
	if s.Sess != nil {
		s.Sess.Close()
	}
	s.Logger.Debug("session closed", "driver", s.Dialect.Name, "session", s.ID)
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
