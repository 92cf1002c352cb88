package shadow

import "context"

// Passthrough is the Catalog for engines that preserve identifier case:
// the engine's own catalog already holds true-case names, so bookkeeping
// is unnecessary and listings delegate to engine-supplied queries.
type Passthrough struct {
	// ListTables answers Tables from the engine's catalog.
	ListTables func(ctx context.Context, x Execer) ([]string, error)

	// ListColumns answers Columns from the engine's catalog, in schema
	// order. Empty result for an unknown table.
	ListColumns func(ctx context.Context, x Execer, table string) ([]string, error)
}

var _ Catalog = (*Passthrough)(nil)

// TableName returns empty: there is no backing table.
func (p *Passthrough) TableName() string { return "" }

// Init is a no-op.
func (p *Passthrough) Init(ctx context.Context, x Execer) error { return nil }

// TrackTable is a no-op.
func (p *Passthrough) TrackTable(ctx context.Context, x Execer, table string, columns []string) error {
	return nil
}

// ForgetTable is a no-op.
func (p *Passthrough) ForgetTable(ctx context.Context, x Execer, table string) error { return nil }

// TrackColumn is a no-op.
func (p *Passthrough) TrackColumn(ctx context.Context, x Execer, table, column string) error {
	return nil
}

// RenameColumn is a no-op.
func (p *Passthrough) RenameColumn(ctx context.Context, x Execer, table, oldName, newName string) error {
	return nil
}

// ForgetColumns is a no-op.
func (p *Passthrough) ForgetColumns(ctx context.Context, x Execer, table string, columns []string) error {
	return nil
}

// Tables delegates to the engine's listing.
func (p *Passthrough) Tables(ctx context.Context, x Execer) ([]string, error) {
	return p.ListTables(ctx, x)
}

// Columns delegates to the engine's listing.
func (p *Passthrough) Columns(ctx context.Context, x Execer, table string) ([]string, error) {
	return p.ListColumns(ctx, x, table)
}
