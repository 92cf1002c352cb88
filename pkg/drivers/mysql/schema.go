package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
)

// PhysicalTables lists table names straight from information_schema.
// With no folding and no shadow bookkeeping this matches Tables; it
// exists so drift checks read the same way against every engine.
func (c *Conn) PhysicalTables(ctx context.Context) ([]string, error) {
	op := c.Op("physical_tables")
	rows, err := c.Query(ctx, op,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name")
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

// SchemaOf walks table's columns in ordinal order. Primary-key
// membership comes from the index catalog rather than column_key, and
// is joined by column name.
func (c *Conn) SchemaOf(ctx context.Context, table string) (driver.SchemaIter, error) {
	op := c.Op("schema_of")

	pk, err := c.primaryKeyColumns(ctx, op, table)
	if err != nil {
		return nil, err
	}

	rows, err := c.Query(ctx, op, `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position`, table)
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

// primaryKeyColumns resolves the PRIMARY index column-name set from the
// statistics catalog.
func (c *Conn) primaryKeyColumns(ctx context.Context, op, table string) (map[string]bool, error) {
	rows, err := c.Query(ctx, op, `
		SELECT column_name
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ? AND index_name = 'PRIMARY'`, table)
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
