package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brackishdb/brackish/pkg/driver"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against the target database",
		Long: `Run SQL against the target database.

Statements use ? as the positional parameter marker regardless of the
engine. Output formats suit both reading and scripting.

When invoked without arguments on a terminal, enters interactive REPL
mode.`,
		Example: `  # Execute SQL directly
  brackish query "SELECT * FROM archive LIMIT 5"

  # Read SQL from a file
  brackish query -i report.sql

  # Piped input
  echo "SELECT count(*) FROM archive" | brackish query

  # Output as JSON
  brackish query "SELECT * FROM archive" --format json

  # Interactive mode
  brackish query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	format := opts.Format
	if format == "" {
		format = outputFormat(cmd)
	}

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, format)
	}

	conn, err := openConn(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	return executeAndRender(cmd.Context(), cmd, conn, sqlQuery, format)
}

func executeAndRender(ctx context.Context, cmd *cobra.Command, conn driver.Conn, sqlQuery, format string) error {
	cur := conn.Cursor()
	defer func() { _ = cur.Close() }()

	if err := cur.Execute(ctx, sqlQuery); err != nil {
		return err
	}
	return renderResults(cmd.OutOrStdout(), cur, format)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
