package core

// Config is the full parameter set for opening a connection or running an
// administrative operation. One Config names one database on one backend.
//
// Zero values defer to engine defaults where one exists (Port, and
// MaintenanceDB on server backends). Autocommit and WidenReal default to
// true in the contract; build configs with DefaultConfig to get them.
type Config struct {
	// Driver selects the registered engine ("postgres", "sqlite",
	// "mysql", "duckdb").
	Driver string

	Host     string
	Port     int // engine default when zero (5432 for postgres)
	User     string
	Password string

	// Database is the database name for server backends, the file path
	// for embedded ones.
	Database string

	// MaintenanceDB is the administrative database used to issue
	// CREATE DATABASE / DROP DATABASE ("postgres" when empty, on
	// backends that have the concept).
	MaintenanceDB string

	// Autocommit controls whether statements outside an explicit Begin
	// commit immediately. When false the session opens a transaction
	// lazily before the first statement.
	Autocommit bool

	// WidenReal rewrites REAL-family column types to the backend's
	// double-precision type in generated DDL.
	WidenReal bool

	// Options carries engine-specific connection options verbatim
	// (for example sslmode for postgres).
	Options map[string]string
}

// DefaultConfig returns a Config for the named driver with the contract
// defaults applied: autocommit on, REAL widening on.
func DefaultConfig(driver string) Config {
	return Config{
		Driver:     driver,
		Autocommit: true,
		WidenReal:  true,
	}
}

// Redacted returns a copy safe for logging: the password is masked when
// present.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "****"
	}
	return c
}
