package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var physical bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables in the target database",
		Long: `List the application tables of the target database in their true
case. With --physical the engine catalog is read directly, bypassing the
identifier bookkeeping, which also reveals internal tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := openConn(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer conn.Close()

			var names []string
			if physical {
				names, err = conn.PhysicalTables(cmd.Context())
			} else {
				names, err = conn.Tables(cmd.Context())
			}
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No tables found")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&physical, "physical", false, "Read the engine catalog directly")
	return cmd
}
