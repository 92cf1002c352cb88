package core

import (
	"strconv"
	"strings"
)

// Dialect holds the static per-engine parameters the layer needs to emit
// SQL. This is pure data; engine behavior lives in pkg/drivers.
type Dialect struct {
	// Name is the engine identifier (e.g. "postgres", "sqlite").
	Name string

	// Placeholder defines how positional parameters are formatted.
	Placeholder PlaceholderStyle

	// Folding is what the engine does to unquoted identifiers.
	Folding Folding

	// Quote and QuoteEnd delimit quoted identifiers (usually the same
	// character; differs for bracket-quoting engines).
	Quote    string
	QuoteEnd string

	// DoubleType is the SQL type substituted for REAL-family column
	// types when a connection widens reals.
	DoubleType string

	// TransactionalDDL reports whether DDL statements can run inside a
	// transaction and be rolled back.
	TransactionalDDL bool

	// MultiDropColumn reports whether one ALTER TABLE can carry several
	// DROP COLUMN clauses. Engines without it drop one column per
	// statement.
	MultiDropColumn bool
}

// PlaceholderStyle defines how positional query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (SQLite, MySQL, DuckDB).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. (PostgreSQL).
	PlaceholderDollar
)

// Format renders the placeholder for a 1-based parameter index.
func (s PlaceholderStyle) Format(index int) string {
	if s == PlaceholderDollar {
		return "$" + strconv.Itoa(index)
	}
	return "?"
}

// Folding defines what the engine does to unquoted identifiers in DDL and
// catalog entries.
type Folding int

const (
	// FoldNone preserves identifier case exactly (SQLite, MySQL columns).
	FoldNone Folding = iota
	// FoldLower folds unquoted identifiers to lowercase (PostgreSQL).
	FoldLower
	// FoldUpper folds unquoted identifiers to uppercase (Oracle-style).
	FoldUpper
)

// Apply folds an identifier the way the engine's catalog will store it.
func (f Folding) Apply(ident string) string {
	switch f {
	case FoldLower:
		return strings.ToLower(ident)
	case FoldUpper:
		return strings.ToUpper(ident)
	default:
		return ident
	}
}

// FormatPlaceholder renders the placeholder for a 1-based parameter index.
func (d Dialect) FormatPlaceholder(index int) string {
	return d.Placeholder.Format(index)
}

// FoldIdentifier returns the catalog form of an unquoted identifier.
func (d Dialect) FoldIdentifier(ident string) string {
	return d.Folding.Apply(ident)
}

// QuoteIdentifier wraps an identifier in the dialect's quote characters,
// doubling any embedded end-quote.
func (d Dialect) QuoteIdentifier(ident string) string {
	quote := d.Quote
	end := d.QuoteEnd
	if quote == "" {
		quote = `"`
	}
	if end == "" {
		end = quote
	}
	escaped := strings.ReplaceAll(ident, end, end+end)
	return quote + escaped + end
}

// WidenColumnType rewrites a REAL-family leading type token to the
// dialect's double-precision type, preserving any trailing constraint
// text ("REAL NOT NULL" becomes "DOUBLE PRECISION NOT NULL"). Exact
// numerics (NUMERIC, DECIMAL) are left alone; widening them would change
// their semantics.
func (d Dialect) WidenColumnType(typ string) string {
	if d.DoubleType == "" {
		return typ
	}
	trimmed := strings.TrimLeft(typ, " \t")
	lead := trimmed
	rest := ""
	if i := strings.IndexAny(trimmed, " \t("); i >= 0 {
		lead, rest = trimmed[:i], trimmed[i:]
	}
	switch strings.ToUpper(lead) {
	case "REAL", "FLOAT", "FLOAT4":
		if strings.HasPrefix(rest, "(") {
			// FLOAT(n) keeps its declared precision.
			return typ
		}
		return d.DoubleType + rest
	}
	return typ
}
