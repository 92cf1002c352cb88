package sqlite

import (
	"context"
	"database/sql"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
)

// PhysicalTables lists table names from sqlite_master. With no folding
// and no shadow bookkeeping this matches Tables; it exists so drift
// checks read the same way against every engine.
func (c *Conn) PhysicalTables(ctx context.Context) ([]string, error) {
	op := c.Op("physical_tables")
	rows, err := c.Query(ctx, op,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
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

// SchemaOf walks table's columns in ordinal order, reading the
// table_info pragma through its table-valued form so the name binds as
// a parameter.
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
			notNull int
			def     sql.NullString
			pk      int
		)
		if err := rows.Scan(&name, &rawType, &notNull, &def, &pk); err != nil {
			return core.ColumnDescriptor{}, err
		}
		return core.ColumnDescriptor{
			Ordinal:    ordinal,
			Name:       name,
			Type:       core.NormalizeType(rawType),
			Nullable:   notNull == 0,
			Default:    def,
			PrimaryKey: pk > 0,
		}, nil
	}), nil
}
