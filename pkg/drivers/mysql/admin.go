package mysql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/brackishdb/brackish/pkg/core"
)

// CreateDatabase creates cfg.Database through a session with no default
// schema; MySQL issues database-level DDL from any session. The engine
// preserves identifier case, so no shadow registry is planted in the
// new database. Database-level DDL runs outside any transaction.
func (d *Driver) CreateDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	op := "mysql.create_database"
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Database == "" {
		return core.NewError(core.KindProgramming, op, errors.New("database name is empty"))
	}

	maint, err := open(ctx, cfg, cfg.MaintenanceDB)
	if err != nil {
		return err
	}
	defer maint.Close()
	if _, err := maint.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", cfg.Database)); err != nil {
		return classify(op, err)
	}
	logger.Debug("database created", "driver", mysqlDialect.Name, "database", cfg.Database)
	return nil
}

// DropDatabase removes cfg.Database.
func (d *Driver) DropDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	op := "mysql.drop_database"
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Database == "" {
		return core.NewError(core.KindProgramming, op, errors.New("database name is empty"))
	}

	maint, err := open(ctx, cfg, cfg.MaintenanceDB)
	if err != nil {
		return err
	}
	defer maint.Close()
	if _, err := maint.ExecContext(ctx, fmt.Sprintf("DROP DATABASE %s", cfg.Database)); err != nil {
		return classify(op, err)
	}
	logger.Debug("database dropped", "driver", mysqlDialect.Name, "database", cfg.Database)
	return nil
}
