package duckdb

import (
	"database/sql"
	sqldriver "database/sql/driver"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/brackishdb/brackish/pkg/core"
)

// classify translates one engine fault into a canonical *core.Error.
// DuckDB surfaces faults as prefixed text ("Catalog Error: ...") with
// no stable numeric code reaching database/sql, so here the message
// tier carries the whole classification; the structured tier of the
// server engines has no counterpart.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}

	if kind, ok := messageKind(err.Error()); ok {
		return core.NewError(kind, op, err)
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return core.NewError(core.KindPermission, op, err)
	case errors.Is(err, fs.ErrNotExist):
		return core.NewError(core.KindNoDatabase, op, err)
	case errors.Is(err, io.EOF),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, sqldriver.ErrBadConn):
		return core.NewError(core.KindDisconnected, op, err)
	}
	return core.NewError(core.KindDatabase, op, err)
}

// messageKind matches the engine's error-text conventions. First match
// wins; the table/column rules come before the generic catalog rules so
// "Table ... does not exist" never lands on the database rule.
func messageKind(msg string) (core.Kind, bool) {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "table") && strings.Contains(lower, "does not exist"):
		return core.KindNoTable, true
	case strings.Contains(lower, "table") && strings.Contains(lower, "already exists"):
		return core.KindTableExists, true
	case strings.Contains(lower, "column") && strings.Contains(lower, "not found"),
		strings.Contains(lower, "column") && strings.Contains(lower, "does not exist"),
		strings.Contains(lower, "referenced column"):
		return core.KindNoColumn, true
	case strings.Contains(lower, "constraint error"),
		strings.Contains(lower, "violates primary key"),
		strings.Contains(lower, "duplicate key"):
		return core.KindIntegrity, true
	case strings.Contains(lower, "parser error"),
		strings.Contains(lower, "syntax error"):
		return core.KindProgramming, true
	case strings.Contains(lower, "cannot open file"),
		strings.Contains(lower, "database") && strings.Contains(lower, "does not exist"):
		return core.KindNoDatabase, true
	case strings.Contains(lower, "read-only"),
		strings.Contains(lower, "permission denied"):
		return core.KindPermission, true
	}
	return 0, false
}
