package duckdb

import (
	"context"
	"database/sql"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
)

// PhysicalTables lists table names straight from information_schema.
// With no folding and no shadow bookkeeping this matches Tables; it
// exists so drift checks read the same way against every engine.
func (c *Conn) PhysicalTables(ctx context.Context) ([]string, error) {
	op := c.Op("physical_tables")
	rows, err := c.Query(ctx, op,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = 'main' ORDER BY table_name")
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

// SchemaOf walks table's columns in ordinal order through the
// table_info pragma, which DuckDB exposes as a table function so the
// name binds as a parameter.
func (c *Conn) SchemaOf(ctx context.Context, table string) (driver.SchemaIter, error) {
	op := c.Op("schema_of")
	rows, err := c.Query(ctx, op,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, err
	}

	return driver.NewSchemaIter(rows, classify, op, func(rows *sql.Rows, ordinal int) (core.ColumnDescriptor, error) {
		var (
			name    string
			rawType string
			notNull bool
			def     sql.NullString
			pk      bool
		)
		if err := rows.Scan(&name, &rawType, &notNull, &def, &pk); err != nil {
			return core.ColumnDescriptor{}, err
		}
		return core.ColumnDescriptor{
			Ordinal:    ordinal,
			Name:       name,
			Type:       core.NormalizeType(rawType),
			Nullable:   !notNull,
			Default:    def,
			PrimaryKey: pk,
		}, nil
	}), nil
}
