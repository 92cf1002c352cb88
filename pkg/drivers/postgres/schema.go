package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
)

// PhysicalTables lists relation names straight from pg_catalog: folded
// case, shadow table included. Diagnostic counterpart to Tables.
func (c *Conn) PhysicalTables(ctx context.Context) ([]string, error) {
	op := c.Op("physical_tables")
	rows, err := c.Query(ctx, op, `
		SELECT tablename
		FROM pg_catalog.pg_tables
		WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
		ORDER BY tablename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classify(op, err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return tables, nil
}

// SchemaOf walks table's columns in ordinal order. The physical catalog
// stores folded names, so the requested name is folded before lookup.
func (c *Conn) SchemaOf(ctx context.Context, table string) (driver.SchemaIter, error) {
	op := c.Op("schema_of")
	folded := c.Dialect.FoldIdentifier(table)

	pk, err := c.primaryKeyColumns(ctx, op, folded)
	if err != nil {
		return nil, err
	}

	rows, err := c.Query(ctx, op, `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_name = ?
		ORDER BY ordinal_position`, folded)
	if err != nil {
		return nil, err
	}

	return driver.NewSchemaIter(rows, classify, op, func(rows *sql.Rows, ordinal int) (core.ColumnDescriptor, error) {
		var (
			name     string
			rawType  string
			nullable string
			def      sql.NullString
		)
		if err := rows.Scan(&name, &rawType, &nullable, &def); err != nil {
			return core.ColumnDescriptor{}, err
		}
		return core.ColumnDescriptor{
			Ordinal:    ordinal,
			Name:       name,
			Type:       core.NormalizeType(rawType),
			Nullable:   strings.EqualFold(nullable, "YES"),
			Default:    def,
			PrimaryKey: pk[name],
		}, nil
	}), nil
}

// primaryKeyColumns resolves the primary-index column-name set by
// joining the index, attribute, and relation catalogs.
func (c *Conn) primaryKeyColumns(ctx context.Context, op, table string) (map[string]bool, error) {
	rows, err := c.Query(ctx, op, `
		SELECT a.attname
		FROM pg_index i
		JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		JOIN pg_class c ON c.oid = i.indrelid
		WHERE i.indisprimary = TRUE AND c.relname = ?`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pk := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classify(op, err)
		}
		pk[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return pk, nil
}
