package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brackishdb/brackish/internal/cli/config"
	"github.com/brackishdb/brackish/pkg/driver"
)

// NewDropDBCommand creates the dropdb command.
func NewDropDBCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "dropdb [name]",
		Short: "Drop a database",
		Long: `Drop the target database. Asks for confirmation unless --yes is
given. The optional name argument overrides the target's database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := targetConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Database = args[0]
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Drop database %q (%s)? [y/N] ", cfg.Database, cfg.Driver)
				reader := bufio.NewReader(cmd.InOrStdin())
				line, _ := reader.ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(line)) {
				case "y", "yes":
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			logger := config.GetLogger(cmd.Context())
			if err := driver.DropDatabase(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped database %q\n", cfg.Database)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
