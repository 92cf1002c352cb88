package core

import (
	"database/sql"
	"strings"
)

// Row is one result row as delivered by Cursor.Fetch. Values carry
// whatever database/sql produced for the engine.
type Row []any

// ColumnSpec names a column and its SQL type for DDL generation. Type is
// free text and may carry constraints ("INTEGER NOT NULL PRIMARY KEY").
type ColumnSpec struct {
	Name string
	Type string
}

// ColumnDescriptor describes one column of a physical table as reported
// by Conn.SchemaOf.
type ColumnDescriptor struct {
	// Ordinal is a dense zero-based position, regardless of how the
	// engine numbers columns.
	Ordinal int

	// Name is the column name as stored by the engine's catalog.
	Name string

	// Type is the normalized vocabulary form: REAL, INTEGER, STR, or
	// the raw upper-cased engine type for anything else.
	Type string

	Nullable   bool
	Default    sql.NullString
	PrimaryKey bool
}

// NormalizeType maps an engine-reported column type into the portable
// vocabulary: approximate-numeric families become REAL, anything with
// INT in the name becomes INTEGER, character and text families become
// STR, and everything else passes through upper-cased.
func NormalizeType(raw string) string {
	dt := strings.ToUpper(strings.TrimSpace(raw))
	base := dt
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	switch base {
	case "DOUBLE PRECISION", "REAL", "NUMERIC", "DECIMAL", "FLOAT", "DOUBLE", "FLOAT4", "FLOAT8":
		return "REAL"
	}
	if strings.Contains(dt, "INT") {
		return "INTEGER"
	}
	if strings.Contains(dt, "CHAR") || base == "TEXT" {
		return "STR"
	}
	return dt
}
