package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/brackishdb/brackish/pkg/driver"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the schema of a table",
		Long: `Show the columns of a table as the engine catalog reports them:
ordinal position, name, normalized type, nullability, default, and
primary key membership.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openConn(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			it, err := conn.SchemaOf(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			descriptors, err := driver.CollectDescriptors(it)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Column", "Type", "Nullable", "Default", "PK"})
			for _, d := range descriptors {
				def := ""
				if d.Default.Valid {
					def = d.Default.String
				}
				t.AppendRow(table.Row{d.Ordinal, d.Name, d.Type, yesNo(d.Nullable), def, yesNo(d.PrimaryKey)})
			}
			t.Render()
			return nil
		},
	}
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
