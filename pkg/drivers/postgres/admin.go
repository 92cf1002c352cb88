package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/shadow"
)

// defaultMaintenanceDB is the administrative database used for
// database-level DDL, which cannot run against the database it targets.
const defaultMaintenanceDB = "postgres"

func maintenanceName(cfg core.Config) string {
	if cfg.MaintenanceDB != "" {
		return cfg.MaintenanceDB
	}
	return defaultMaintenanceDB
}

// CreateDatabase creates cfg.Database through the maintenance database,
// then opens the new database and plants the shadow registry table so
// schema operations can record true-case identifiers from the start.
// Database-level DDL runs outside any transaction.
func (d *Driver) CreateDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	op := "postgres.create_database"
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Database == "" {
		return core.NewError(core.KindProgramming, op, errors.New("database name is empty"))
	}

	maint, err := open(ctx, cfg, maintenanceName(cfg))
	if err != nil {
		return err
	}
	_, err = maint.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", cfg.Database))
	maint.Close()
	if err != nil {
		return classify(op, err)
	}
	logger.Debug("database created", "driver", postgresDialect.Name, "database", cfg.Database)

	db, err := open(ctx, cfg, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	sess, err := db.Conn(ctx)
	if err != nil {
		return classify(op, err)
	}
	defer sess.Close()
	if err := shadow.NewRegistry(core.PlaceholderDollar).Init(ctx, sess); err != nil {
		return classify(op, err)
	}
	return nil
}

// DropDatabase removes cfg.Database through the maintenance database.
func (d *Driver) DropDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	op := "postgres.drop_database"
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Database == "" {
		return core.NewError(core.KindProgramming, op, errors.New("database name is empty"))
	}

	maint, err := open(ctx, cfg, maintenanceName(cfg))
	if err != nil {
		return err
	}
	defer maint.Close()
	if _, err := maint.ExecContext(ctx, fmt.Sprintf("DROP DATABASE %s", cfg.Database)); err != nil {
		return classify(op, err)
	}
	logger.Debug("database dropped", "driver", postgresDialect.Name, "database", cfg.Database)
	return nil
}
