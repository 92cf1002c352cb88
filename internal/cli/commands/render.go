package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/brackishdb/brackish/pkg/driver"
)

// renderResults drains a cursor's pending results and writes them in the
// requested format. Statements without a result set report the affected
// row count instead. Rows stay positional so duplicate result column
// names render each value.
func renderResults(w io.Writer, cur *driver.Cursor, format string) error {
	cols := cur.Columns()
	if cols == nil {
		if n := cur.RowCount(); n >= 0 {
			_, _ = fmt.Fprintf(w, "(%d rows affected)\n", n)
		} else {
			_, _ = fmt.Fprintln(w, "OK")
		}
		return nil
	}

	var results [][]any
	for {
		row, err := cur.Fetch()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		values := make([]any, len(row))
		for i, val := range row {
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			} else {
				values[i] = val
			}
		}
		results = append(results, values)
	}

	switch format {
	case "json":
		return renderJSON(w, cols, results)
	case "csv":
		return renderCSV(w, cols, results)
	case "md", "markdown":
		return renderMarkdown(w, cols, results)
	default:
		return renderTable(w, cols, results)
	}
}

func renderTable(w io.Writer, cols []string, results [][]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, result := range results {
		row := make(table.Row, len(result))
		for i, val := range result {
			row[i] = formatValue(val)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

// renderJSON emits one object per row. JSON objects cannot carry
// duplicate keys, so a repeated column name keeps its last value.
func renderJSON(w io.Writer, cols []string, results [][]any) error {
	objects := make([]map[string]any, 0, len(results))
	for _, result := range results {
		obj := make(map[string]any, len(cols))
		for i, col := range cols {
			obj[col] = result[i]
		}
		objects = append(objects, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func renderCSV(w io.Writer, cols []string, results [][]any) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))
	for _, result := range results {
		values := make([]string, len(result))
		for i, val := range result {
			values[i] = escapeCSV(formatValue(val))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, cols []string, results [][]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, result := range results {
		values := make([]string, len(result))
		for i, val := range result {
			values[i] = formatValue(val)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
