package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brackishdb/brackish/internal/cli/config"
	"github.com/brackishdb/brackish/pkg/driver"
)

// NewCreateDBCommand creates the createdb command.
func NewCreateDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createdb [name]",
		Short: "Create a database",
		Long: `Create the target database.

Server engines issue CREATE DATABASE through the maintenance database;
embedded engines create the database file, including missing parent
directories. The optional name argument overrides the target's database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := targetConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Database = args[0]
			}

			logger := config.GetLogger(cmd.Context())
			if err := driver.CreateDatabase(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created database %q (%s)\n", cfg.Database, cfg.Driver)
			return nil
		},
	}
	return cmd
}
