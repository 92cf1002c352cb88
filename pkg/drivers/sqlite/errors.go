package sqlite

import (
	"database/sql"
	sqldriver "database/sql/driver"
	"errors"
	"io/fs"
	"strings"

	sqlite3 "modernc.org/sqlite"

	"github.com/brackishdb/brackish/pkg/core"
)

// Primary result codes the classification keys on. The driver reports
// extended codes; masking to the low byte recovers the primary.
const (
	codeReadOnly   = 8  // SQLITE_READONLY
	codeCantOpen   = 14 // SQLITE_CANTOPEN
	codeConstraint = 19 // SQLITE_CONSTRAINT
	codeAuth       = 23 // SQLITE_AUTH
)

var resultKinds = map[int]core.Kind{
	codeReadOnly:   core.KindPermission,
	codeCantOpen:   core.KindNoDatabase,
	codeConstraint: core.KindIntegrity,
	codeAuth:       core.KindPermission,
}

// classify translates one engine fault into a canonical *core.Error.
// Unlike the server engines, SQLite reports every schema fault under
// the one generic SQLITE_ERROR code, so a code-table miss falls through
// to the message rules rather than straight to the generic kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}

	var se *sqlite3.Error
	if errors.As(err, &se) {
		if kind, ok := resultKinds[se.Code()&0xff]; ok {
			return core.NewError(kind, op, err)
		}
	}

	if kind, ok := messageKind(err.Error()); ok {
		return core.NewError(kind, op, err)
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return core.NewError(core.KindPermission, op, err)
	case errors.Is(err, fs.ErrNotExist):
		return core.NewError(core.KindNoDatabase, op, err)
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, sqldriver.ErrBadConn):
		return core.NewError(core.KindDisconnected, op, err)
	}
	return core.NewError(core.KindDatabase, op, err)
}

// messageKind carries the SQLITE_ERROR discrimination: schema faults
// are told apart only by their message text. First match wins.
func messageKind(msg string) (core.Kind, bool) {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no such table"):
		return core.KindNoTable, true
	case strings.Contains(lower, "no such column"),
		strings.Contains(lower, "has no column"):
		return core.KindNoColumn, true
	case strings.Contains(lower, "already exists"):
		return core.KindTableExists, true
	case strings.Contains(lower, "unable to open database file"):
		return core.KindNoDatabase, true
	case strings.Contains(lower, "syntax error"):
		return core.KindProgramming, true
	case strings.Contains(lower, "attempt to write a readonly database"):
		return core.KindPermission, true
	}
	return 0, false
}
