package driver

import (
	"database/sql"

	"github.com/brackishdb/brackish/pkg/core"
)

// SchemaIter walks the column descriptors of one table, lazily and
// exactly once. The sequence closes itself on exhaustion; Close early to
// abandon it.
//
//	it, err := conn.SchemaOf(ctx, "archive")
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next() {
//		d := it.Descriptor()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type SchemaIter interface {
	Next() bool
	Descriptor() core.ColumnDescriptor
	Err() error
	Close() error
}

// ScanFunc maps the current engine catalog row to a descriptor. ordinal
// is the dense zero-based position the layer assigns, regardless of the
// engine's own numbering.
type ScanFunc func(rows *sql.Rows, ordinal int) (core.ColumnDescriptor, error)

// NewSchemaIter wraps an engine catalog result set into a SchemaIter.
// Faults surface through guard under the given op.
func NewSchemaIter(rows *sql.Rows, guard GuardFunc, op string, scan ScanFunc) SchemaIter {
	return &schemaRows{rows: rows, guard: guard, op: op, scan: scan}
}

type schemaRows struct {
	rows   *sql.Rows
	guard  GuardFunc
	op     string
	scan   ScanFunc
	idx    int
	cur    core.ColumnDescriptor
	err    error
	closed bool
}

func (it *schemaRows) Next() bool {
	if it.closed || it.err != nil {
		return false
	}
	if !it.rows.Next() {
		if err := it.rows.Err(); err != nil {
			it.err = it.guard(it.op, err)
		}
		it.Close()
		return false
	}
	d, err := it.scan(it.rows, it.idx)
	if err != nil {
		it.err = it.guard(it.op, err)
		it.Close()
		return false
	}
	it.idx++
	it.cur = d
	return true
}

func (it *schemaRows) Descriptor() core.ColumnDescriptor { return it.cur }

func (it *schemaRows) Err() error { return it.err }

func (it *schemaRows) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.rows.Close()
}

// CollectDescriptors drains an iterator into a slice, closing it.
func CollectDescriptors(it SchemaIter) ([]core.ColumnDescriptor, error) {
	defer it.Close()
	var out []core.ColumnDescriptor
	for it.Next() {
		out = append(out, it.Descriptor())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
