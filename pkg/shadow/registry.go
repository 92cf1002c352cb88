package shadow

import (
	"context"
	"fmt"
	"strings"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/sqltext"
)

// Registry is the SQL-backed Catalog for case-folding engines. Rows are
// (table_name, column_name, ordinal); ordinal keeps schema order so
// column listings round-trip declaration order. The composite primary
// key enforces that every tracked identifier pair is recorded exactly
// once.
type Registry struct {
	table string
	style core.PlaceholderStyle
}

// NewRegistry builds a Registry over DefaultTable, emitting placeholders
// in the engine's style.
func NewRegistry(style core.PlaceholderStyle) *Registry {
	return &Registry{table: DefaultTable, style: style}
}

var _ Catalog = (*Registry)(nil)

// TableName returns the physical shadow table name.
func (r *Registry) TableName() string { return r.table }

func (r *Registry) expand(q string) string {
	return sqltext.Expand(q, r.style)
}

// Init creates the shadow table when absent. Issued directly, never
// through the tracked DDL path: the shadow table does not track itself.
func (r *Registry) Init(ctx context.Context, x Execer) error {
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (table_name VARCHAR(255) NOT NULL, column_name VARCHAR(255) NOT NULL, ordinal INTEGER NOT NULL, PRIMARY KEY (table_name, column_name))",
		r.table)
	if _, err := x.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to initialize shadow table: %w", err)
	}
	return nil
}

// TrackTable records one row per column, ordinals dense from zero.
func (r *Registry) TrackTable(ctx context.Context, x Execer, table string, columns []string) error {
	q := r.expand(fmt.Sprintf(
		"INSERT INTO %s (table_name, column_name, ordinal) VALUES (?, ?, ?)", r.table))
	for i, col := range columns {
		if _, err := x.ExecContext(ctx, q, table, col, i); err != nil {
			return fmt.Errorf("failed to record column %s.%s: %w", table, col, err)
		}
	}
	return nil
}

// ForgetTable removes every row for table.
func (r *Registry) ForgetTable(ctx context.Context, x Execer, table string) error {
	q := r.expand(fmt.Sprintf("DELETE FROM %s WHERE table_name = ?", r.table))
	if _, err := x.ExecContext(ctx, q, table); err != nil {
		return fmt.Errorf("failed to forget table %s: %w", table, err)
	}
	return nil
}

// TrackColumn appends one row with the next free ordinal.
func (r *Registry) TrackColumn(ctx context.Context, x Execer, table, column string) error {
	q := r.expand(fmt.Sprintf(
		"INSERT INTO %s (table_name, column_name, ordinal) SELECT ?, ?, COALESCE(MAX(ordinal) + 1, 0) FROM %s WHERE table_name = ?",
		r.table, r.table))
	if _, err := x.ExecContext(ctx, q, table, column, table); err != nil {
		return fmt.Errorf("failed to record column %s.%s: %w", table, column, err)
	}
	return nil
}

// RenameColumn updates the matching row in place; the ordinal stays.
func (r *Registry) RenameColumn(ctx context.Context, x Execer, table, oldName, newName string) error {
	q := r.expand(fmt.Sprintf(
		"UPDATE %s SET column_name = ? WHERE table_name = ? AND column_name = ?", r.table))
	if _, err := x.ExecContext(ctx, q, newName, table, oldName); err != nil {
		return fmt.Errorf("failed to rename column %s.%s: %w", table, oldName, err)
	}
	return nil
}

// ForgetColumns deletes the named columns with a single parameterized
// IN-list statement.
func (r *Registry) ForgetColumns(ctx context.Context, x Execer, table string, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	markers := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	q := r.expand(fmt.Sprintf(
		"DELETE FROM %s WHERE table_name = ? AND column_name IN (%s)", r.table, markers))
	args := make([]any, 0, len(columns)+1)
	args = append(args, table)
	for _, col := range columns {
		args = append(args, col)
	}
	if _, err := x.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("failed to forget columns of %s: %w", table, err)
	}
	return nil
}

// Tables lists the distinct tracked table names.
func (r *Registry) Tables(ctx context.Context, x Execer) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT table_name FROM %s ORDER BY table_name", r.table)
	rows, err := x.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracked tables: %w", err)
	}
	return tables, nil
}

// Columns lists the tracked columns of table in schema order.
func (r *Registry) Columns(ctx context.Context, x Execer, table string) ([]string, error) {
	q := r.expand(fmt.Sprintf(
		"SELECT column_name FROM %s WHERE table_name = ? ORDER BY ordinal", r.table))
	rows, err := x.QueryContext(ctx, q, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tracked columns: %w", err)
	}
	return columns, nil
}
