package postgres

import (
	"database/sql"
	sqldriver "database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brackishdb/brackish/pkg/core"
)

// sqlstateKinds is the first classification tier: the fixed SQLSTATE to
// canonical-kind table. A server fault whose code misses this table is
// a generic database fault; the message rules below only apply to
// faults that carry no code at all.
var sqlstateKinds = map[string]core.Kind{
	"42P04": core.KindDatabaseExists, // duplicate_database
	"3D000": core.KindNoDatabase,     // invalid_catalog_name
	"42501": core.KindPermission,     // insufficient_privilege
	"28P01": core.KindBadPassword,    // invalid_password
	"42P01": core.KindNoTable,        // undefined_table
	"42P07": core.KindTableExists,    // duplicate_table
	"42703": core.KindNoColumn,       // undefined_column
	"23505": core.KindIntegrity,      // unique_violation
	"08001": core.KindCannotConnect,  // sqlclient_unable_to_establish_sqlconnection
	"08006": core.KindDisconnected,   // connection_failure
	"08003": core.KindDisconnected,   // connection_does_not_exist
}

// classify translates one backend fault into a canonical *core.Error.
// It is the session's guard: every backend call funnels its fault
// through here exactly once. Already-canonical faults pass through
// unchanged; nil passes through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind, ok := sqlstateKinds[pgErr.Code]
		if !ok {
			kind = core.KindDatabase
		}
		return core.NewError(kind, op, err)
	}

	if kind, ok := messageKind(err.Error()); ok {
		return core.NewError(kind, op, err)
	}

	if isTransport(err) {
		return core.NewError(core.KindDisconnected, op, err)
	}
	return core.NewError(core.KindDatabase, op, err)
}

// messageKind is the second tier: ordered message rules for faults that
// carry no SQLSTATE, which is how transport problems during connect
// usually surface. First match wins.
func messageKind(msg string) (core.Kind, bool) {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no such host"),
		strings.Contains(lower, "could not translate host name"):
		return core.KindCannotConnect, true
	case strings.Contains(lower, "password authentication failed"):
		return core.KindBadPassword, true
	case strings.Contains(lower, "database") && strings.Contains(lower, "does not exist"):
		return core.KindNoDatabase, true
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "failed to connect"):
		return core.KindCannotConnect, true
	}
	return 0, false
}

// isTransport reports whether err is a connectivity fault below the
// protocol layer.
func isTransport(err error) bool {
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, sqldriver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
