// Package commands implements the brackish subcommands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brackishdb/brackish/internal/cli/config"
	intconfig "github.com/brackishdb/brackish/internal/config"
	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"

	// Register every engine so any target in brackish.yaml resolves.
	_ "github.com/brackishdb/brackish/pkg/drivers/duckdb"
	_ "github.com/brackishdb/brackish/pkg/drivers/mysql"
	_ "github.com/brackishdb/brackish/pkg/drivers/postgres"
	_ "github.com/brackishdb/brackish/pkg/drivers/sqlite"
)

// resolveTarget returns the validated target selected by the loaded
// configuration (named target, config file, env, and flags already
// merged by the loader).
func resolveTarget() (*intconfig.Target, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil || cfg.Target == nil {
		return nil, fmt.Errorf("no target configured: set connection flags or define one in brackish.yaml")
	}
	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}
	return cfg.Target, nil
}

// targetConfig resolves the current target down to connection
// parameters.
func targetConfig() (core.Config, error) {
	t, err := resolveTarget()
	if err != nil {
		return core.Config{}, err
	}
	return t.ToCore(), nil
}

// openConn connects to the current target. The caller owns the
// connection and must Close it.
func openConn(ctx context.Context, cmd *cobra.Command) (driver.Conn, error) {
	cfg, err := targetConfig()
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	return driver.Connect(ctx, cfg, logger)
}

// outputFormat returns the effective output format: the command's own
// --format flag when set, the configured default otherwise.
func outputFormat(cmd *cobra.Command) string {
	if f, err := cmd.Flags().GetString("format"); err == nil && f != "" {
		return f
	}
	if cfg := config.GetCurrentConfig(); cfg != nil && cfg.Format != "" {
		return cfg.Format
	}
	return config.DefaultFormat
}
