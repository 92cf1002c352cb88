package core

import "strings"

// =============================================================================
// Kind
// =============================================================================

// Kind classifies a backend fault into the layer's canonical taxonomy.
// Callers branch on kinds, never on backend-native error codes.
type Kind int

// Canonical fault kinds. KindDatabase is the residual classification for
// anything no more specific kind claims.
const (
	// KindDatabase is a generic backend fault.
	KindDatabase Kind = iota
	// KindCannotConnect means the backend could not be reached at all.
	KindCannotConnect
	// KindDisconnected means an established session was lost.
	KindDisconnected
	// KindBadPassword means authentication was rejected.
	KindBadPassword
	// KindPermission means the authenticated role lacks a privilege.
	KindPermission
	// KindNoDatabase means the named database does not exist.
	KindNoDatabase
	// KindDatabaseExists means a database of that name already exists.
	KindDatabaseExists
	// KindNoTable means the referenced table does not exist.
	KindNoTable
	// KindTableExists means a table of that name already exists.
	KindTableExists
	// KindNoColumn means the referenced column does not exist.
	KindNoColumn
	// KindIntegrity means a constraint (unique, primary key, foreign key,
	// not-null) was violated.
	KindIntegrity
	// KindProgramming means the statement itself is malformed or misuses
	// the interface.
	KindProgramming
)

// String returns the display form of the kind.
func (k Kind) String() string {
	switch k {
	case KindDatabase:
		return "database error"
	case KindCannotConnect:
		return "cannot connect"
	case KindDisconnected:
		return "disconnected"
	case KindBadPassword:
		return "bad password"
	case KindPermission:
		return "permission denied"
	case KindNoDatabase:
		return "no such database"
	case KindDatabaseExists:
		return "database exists"
	case KindNoTable:
		return "no such table"
	case KindTableExists:
		return "table exists"
	case KindNoColumn:
		return "no such column"
	case KindIntegrity:
		return "integrity violation"
	case KindProgramming:
		return "programming error"
	default:
		return "unknown"
	}
}

// =============================================================================
// Error
// =============================================================================

// Error is a backend fault translated into the canonical taxonomy. The
// original backend error is preserved in Err and reachable through
// errors.Unwrap, so callers keep full diagnostics while branching only
// on Kind.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "postgres.connect"
	Err  error  // underlying backend error, nil for synthesized faults
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying backend error to errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare sentinel of the same kind. This is
// what makes errors.Is(err, ErrNoTable) work on wrapped faults.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// NewError builds a canonical fault. A nil err is allowed for faults the
// layer synthesizes itself (for example NoTable from an empty shadow
// lookup).
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the canonical kind from anywhere in err's chain.
// The second return is false when err carries no canonical classification.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if ce, ok := err.(*Error); ok {
			return ce.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindDatabase, false
		}
		err = u.Unwrap()
	}
	return KindDatabase, false
}

// Sentinels for errors.Is matching. Never returned directly; backend
// faults wrap the native error with the matching kind.
var (
	ErrDatabase       = &Error{Kind: KindDatabase}
	ErrCannotConnect  = &Error{Kind: KindCannotConnect}
	ErrDisconnected   = &Error{Kind: KindDisconnected}
	ErrBadPassword    = &Error{Kind: KindBadPassword}
	ErrPermission     = &Error{Kind: KindPermission}
	ErrNoDatabase     = &Error{Kind: KindNoDatabase}
	ErrDatabaseExists = &Error{Kind: KindDatabaseExists}
	ErrNoTable        = &Error{Kind: KindNoTable}
	ErrTableExists    = &Error{Kind: KindTableExists}
	ErrNoColumn       = &Error{Kind: KindNoColumn}
	ErrIntegrity      = &Error{Kind: KindIntegrity}
	ErrProgramming    = &Error{Kind: KindProgramming}
)
