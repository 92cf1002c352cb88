package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/brackishdb/brackish/pkg/driver"
	"github.com/brackishdb/brackish/pkg/shadow"
)

// DriftOptions holds options for the drift command.
type DriftOptions struct {
	Format string // Output format: text, json
}

// NewDriftCommand creates the drift command.
func NewDriftCommand() *cobra.Command {
	opts := &DriftOptions{}
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Check identifier bookkeeping against the engine catalog",
		Long: `Compare the tables the connection believes exist with what the
engine catalog physically holds.

On case-folding engines the identifier bookkeeping can drift from the
catalog when tables are created or dropped outside this tool. The report
lists tables known but physically missing, and physical tables that are
untracked. Internal bookkeeping tables are excluded.`,
		Example: `  # Run drift check
  brackish drift

  # Output as JSON
  brackish drift --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDrift(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DriftOutput is the JSON output for the drift command.
type DriftOutput struct {
	Driver        string   `json:"driver"`
	Database      string   `json:"database"`
	ServerVersion string   `json:"server_version,omitempty"`
	Tracked       int      `json:"tracked"`
	Physical      int      `json:"physical"`
	Missing       []string `json:"missing"`
	Untracked     []string `json:"untracked"`
	Clean         bool     `json:"clean"`
}

func runDrift(cmd *cobra.Command, opts *DriftOptions) error {
	conn, err := openConn(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	out, err := buildDriftOutput(cmd.Context(), conn)
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		format = outputFormat(cmd)
	}
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return renderDriftText(cmd, out)
}

func buildDriftOutput(ctx context.Context, conn driver.Conn) (*DriftOutput, error) {
	tracked, err := conn.Tables(ctx)
	if err != nil {
		return nil, err
	}
	physical, err := conn.PhysicalTables(ctx)
	if err != nil {
		return nil, err
	}

	// Compare case-insensitively: case-folding engines store lowercase
	// physical names while the tracked list carries true case.
	trackedSet := make(map[string]string, len(tracked))
	for _, name := range tracked {
		trackedSet[strings.ToLower(name)] = name
	}
	physicalSet := make(map[string]string, len(physical))
	for _, name := range physical {
		if strings.EqualFold(name, shadow.DefaultTable) {
			continue
		}
		physicalSet[strings.ToLower(name)] = name
	}

	var missing, untracked []string
	for folded, name := range trackedSet {
		if _, ok := physicalSet[folded]; !ok {
			missing = append(missing, name)
		}
	}
	for folded, name := range physicalSet {
		if _, ok := trackedSet[folded]; !ok {
			untracked = append(untracked, name)
		}
	}
	sort.Strings(missing)
	sort.Strings(untracked)

	out := &DriftOutput{
		Driver:    conn.DriverName(),
		Database:  conn.DatabaseName(),
		Tracked:   len(trackedSet),
		Physical:  len(physicalSet),
		Missing:   missing,
		Untracked: untracked,
		Clean:     len(missing) == 0 && len(untracked) == 0,
	}
	out.ServerVersion = serverVersion(ctx, conn)
	return out, nil
}

// serverVersion probes the backend's version variable, best-effort. The
// variable name differs per engine.
func serverVersion(ctx context.Context, conn driver.Conn) string {
	for _, name := range []string{"server_version", "version"} {
		if v, ok, err := conn.Variable(ctx, name); err == nil && ok {
			return v
		}
	}
	return ""
}

func renderDriftText(cmd *cobra.Command, out *DriftOutput) error {
	w := cmd.OutOrStdout()
	titleCaser := cases.Title(language.English)

	_, _ = fmt.Fprintf(w, "%s Drift Report (database: %s)\n", titleCaser.String(out.Driver), out.Database)
	if out.ServerVersion != "" {
		_, _ = fmt.Fprintf(w, "Server version: %s\n", out.ServerVersion)
	}
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(w, "Tracked tables:  %d\n", out.Tracked)
	_, _ = fmt.Fprintf(w, "Physical tables: %d\n", out.Physical)
	_, _ = fmt.Fprintln(w)

	if out.Clean {
		_, _ = fmt.Fprintln(w, "No drift detected")
		return nil
	}

	if len(out.Missing) > 0 {
		_, _ = fmt.Fprintln(w, "Tracked but physically missing:")
		for _, name := range out.Missing {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(out.Untracked) > 0 {
		_, _ = fmt.Fprintln(w, "Physical but untracked:")
		for _, name := range out.Untracked {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}
	return nil
}
