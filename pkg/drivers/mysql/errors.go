package mysql

import (
	"database/sql"
	sqldriver "database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/brackishdb/brackish/pkg/core"
)

// errnoKinds is the first classification tier: the fixed server error
// number to canonical-kind table.
var errnoKinds = map[uint16]core.Kind{
	1007: core.KindDatabaseExists, // ER_DB_CREATE_EXISTS
	1008: core.KindNoDatabase,     // ER_DB_DROP_EXISTS
	1044: core.KindPermission,     // ER_DBACCESS_DENIED_ERROR
	1045: core.KindBadPassword,    // ER_ACCESS_DENIED_ERROR
	1049: core.KindNoDatabase,     // ER_BAD_DB_ERROR
	1050: core.KindTableExists,    // ER_TABLE_EXISTS_ERROR
	1051: core.KindNoTable,        // ER_BAD_TABLE_ERROR
	1054: core.KindNoColumn,       // ER_BAD_FIELD_ERROR
	1062: core.KindIntegrity,      // ER_DUP_ENTRY
	1064: core.KindProgramming,    // ER_PARSE_ERROR
	1091: core.KindNoColumn,       // ER_CANT_DROP_FIELD_OR_KEY
	1142: core.KindPermission,     // ER_TABLEACCESS_DENIED_ERROR
	1146: core.KindNoTable,        // ER_NO_SUCH_TABLE
	1227: core.KindPermission,     // ER_SPECIFIC_ACCESS_DENIED_ERROR
	1451: core.KindIntegrity,      // ER_ROW_IS_REFERENCED_2
	1452: core.KindIntegrity,      // ER_NO_REFERENCED_ROW_2
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

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		kind, ok := errnoKinds[myErr.Number]
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
// carry no server error number, which is how transport problems during
// connect usually surface. First match wins.
func messageKind(msg string) (core.Kind, bool) {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no such host"):
		return core.KindCannotConnect, true
	case strings.Contains(lower, "access denied"):
		return core.KindBadPassword, true
	case strings.Contains(lower, "unknown database"):
		return core.KindNoDatabase, true
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "i/o timeout"):
		return core.KindCannotConnect, true
	}
	return 0, false
}

// isTransport reports whether err is a connectivity fault below the
// protocol layer.
func isTransport(err error) bool {
	if errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, sqldriver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
