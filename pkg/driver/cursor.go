package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/sqltext"
)

var errClosedCursor = errors.New("cursor is closed")

// queryHeads are the statement keywords routed through Query; everything
// else goes through Exec and reports affected rows.
var queryHeads = map[string]bool{
	"SELECT":   true,
	"VALUES":   true,
	"WITH":     true,
	"SHOW":     true,
	"PRAGMA":   true,
	"EXPLAIN":  true,
	"DESCRIBE": true,
	"TABLE":    true,
}

// Cursor executes statements on its connection's session and walks
// result rows one at a time. Cursors are created by Conn.Cursor and
// inherit the connection's per-cursor dialect flags at creation.
type Cursor struct {
	sess      *Session
	rows      *sql.Rows
	cols      []string
	rowCount  int64
	widenReal bool
	closed    bool
}

// Execute runs one statement with ? positional parameters. Row-returning
// statements leave their results readable through Fetch; everything else
// records the affected row count.
func (c *Cursor) Execute(ctx context.Context, stmt string, args ...any) error {
	op := c.sess.Op("execute")
	if c.closed {
		return core.NewError(core.KindProgramming, op, errClosedCursor)
	}
	c.discardRows()
	c.cols = nil
	c.rowCount = -1

	if queryHeads[sqltext.Head(stmt)] {
		rows, err := c.sess.Query(ctx, op, stmt, args...)
		if err != nil {
			return err
		}
		c.rows = rows
		if cols, err := rows.Columns(); err == nil {
			c.cols = cols
		}
		return nil
	}

	res, err := c.sess.Exec(ctx, op, stmt, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		c.rowCount = n
	}
	return nil
}

// Fetch returns the next result row, or (nil, nil) once the results are
// exhausted. Calling past exhaustion keeps returning the sentinel; a
// closed cursor faults instead.
func (c *Cursor) Fetch() (core.Row, error) {
	op := c.sess.Op("fetch")
	if c.closed {
		return nil, core.NewError(core.KindProgramming, op, errClosedCursor)
	}
	if c.rows == nil {
		return nil, nil
	}
	if !c.rows.Next() {
		err := c.rows.Err()
		c.discardRows()
		if err != nil {
			return nil, c.sess.Guard(op, err)
		}
		return nil, nil
	}
	cols, err := c.rows.Columns()
	if err != nil {
		return nil, c.sess.Guard(op, err)
	}
	row := make(core.Row, len(cols))
	ptrs := make([]any, len(cols))
	for i := range row {
		ptrs[i] = &row[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, c.sess.Guard(op, err)
	}
	return row, nil
}

// RowCount returns the affected-row count of the last non-query
// statement, -1 when unknown or after a query.
func (c *Cursor) RowCount() int64 { return c.rowCount }

// Columns returns the result column names of the last row-returning
// statement. The names stay readable after the results are exhausted
// and until the next Execute.
func (c *Cursor) Columns() []string { return c.cols }

// CreateTable issues CREATE TABLE from an ordered column specification
// and records one shadow row per column. REAL-family types are widened
// to the engine's double-precision type when the connection asks for it.
func (c *Cursor) CreateTable(ctx context.Context, table string, schema []core.ColumnSpec) error {
	op := c.sess.Op("create_table")
	if c.closed {
		return core.NewError(core.KindProgramming, op, errClosedCursor)
	}
	if len(schema) == 0 {
		return core.NewError(core.KindProgramming, op,
			fmt.Errorf("empty schema for table %q", table))
	}

	defs := make([]string, 0, len(schema))
	columns := make([]string, 0, len(schema))
	for _, spec := range schema {
		defs = append(defs, spec.Name+" "+c.columnType(spec.Type))
		columns = append(columns, spec.Name)
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))

	return c.sess.mutate(ctx, op, func() error {
		if _, err := c.sess.Exec(ctx, op, ddl); err != nil {
			return err
		}
		if err := c.sess.Catalog.TrackTable(ctx, c.sess.Sess, table, columns); err != nil {
			return c.sess.Guard(op, err)
		}
		return nil
	})
}

// DropTable issues DROP TABLE and forgets the table's shadow rows.
// Zero shadow rows is not an error.
func (c *Cursor) DropTable(ctx context.Context, table string) error {
	op := c.sess.Op("drop_table")
	if c.closed {
		return core.NewError(core.KindProgramming, op, errClosedCursor)
	}
	ddl := fmt.Sprintf("DROP TABLE %s", table)
	return c.sess.mutate(ctx, op, func() error {
		if _, err := c.sess.Exec(ctx, op, ddl); err != nil {
			return err
		}
		if err := c.sess.Catalog.ForgetTable(ctx, c.sess.Sess, table); err != nil {
			return c.sess.Guard(op, err)
		}
		return nil
	})
}

// AddColumn appends a column and records its shadow row.
func (c *Cursor) AddColumn(ctx context.Context, table string, spec core.ColumnSpec) error {
	op := c.sess.Op("add_column")
	if c.closed {
		return core.NewError(core.KindProgramming, op, errClosedCursor)
	}
	ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, spec.Name, c.columnType(spec.Type))
	return c.sess.mutate(ctx, op, func() error {
		if _, err := c.sess.Exec(ctx, op, ddl); err != nil {
			return err
		}
		if err := c.sess.Catalog.TrackColumn(ctx, c.sess.Sess, table, spec.Name); err != nil {
			return c.sess.Guard(op, err)
		}
		return nil
	})
}

// RenameColumn renames a column and updates its shadow row in place.
func (c *Cursor) RenameColumn(ctx context.Context, table, oldName, newName string) error {
	op := c.sess.Op("rename_column")
	if c.closed {
		return core.NewError(core.KindProgramming, op, errClosedCursor)
	}
	ddl := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", table, oldName, newName)
	return c.sess.mutate(ctx, op, func() error {
		if _, err := c.sess.Exec(ctx, op, ddl); err != nil {
			return err
		}
		if err := c.sess.Catalog.RenameColumn(ctx, c.sess.Sess, table, oldName, newName); err != nil {
			return c.sess.Guard(op, err)
		}
		return nil
	})
}

// DropColumns removes the named columns and their shadow rows: one
// multi-clause ALTER on engines that support it, one ALTER per column
// elsewhere, and always a single shadow delete. An empty list is a
// clean no-op.
func (c *Cursor) DropColumns(ctx context.Context, table string, columns []string) error {
	op := c.sess.Op("drop_columns")
	if c.closed {
		return core.NewError(core.KindProgramming, op, errClosedCursor)
	}
	if len(columns) == 0 {
		return nil
	}

	var stmts []string
	if c.sess.Dialect.MultiDropColumn {
		clauses := make([]string, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, "DROP COLUMN "+col)
		}
		stmts = []string{fmt.Sprintf("ALTER TABLE %s %s", table, strings.Join(clauses, ", "))}
	} else {
		for _, col := range columns {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, col))
		}
	}

	return c.sess.mutate(ctx, op, func() error {
		for _, ddl := range stmts {
			if _, err := c.sess.Exec(ctx, op, ddl); err != nil {
				return err
			}
		}
		if err := c.sess.Catalog.ForgetColumns(ctx, c.sess.Sess, table, columns); err != nil {
			return c.sess.Guard(op, err)
		}
		return nil
	})
}

// Close releases the cursor's pending results. Idempotent; the owning
// connection stays usable.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.discardRows()
	return nil
}

// columnType applies the connection's REAL widening flag.
func (c *Cursor) columnType(typ string) string {
	if c.widenReal {
		return c.sess.Dialect.WidenColumnType(typ)
	}
	return typ
}

func (c *Cursor) discardRows() {
	if c.rows != nil {
		c.rows.Close()
		c.rows = nil
	}
}
