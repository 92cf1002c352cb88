package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/brackishdb/brackish/pkg/core"
)

// CreateDatabase creates the database file, with parent directories as
// needed. An existing file is a DatabaseExists fault. :memory: always
// succeeds; there is nothing to create.
func (d *Driver) CreateDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	op := "sqlite.create_database"
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Database == "" {
		return core.NewError(core.KindProgramming, op, errors.New("database path is empty"))
	}
	if cfg.Database == ":memory:" {
		return nil
	}
	if dir := filepath.Dir(cfg.Database); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return classify(op, err)
		}
	}

	// Exclusive create makes the existence check atomic; the engine
	// then initializes the empty file.
	f, err := os.OpenFile(cfg.Database, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return core.NewError(core.KindDatabaseExists, op,
				fmt.Errorf("database %s already exists", cfg.Database))
		}
		return classify(op, err)
	}
	if err := f.Close(); err != nil {
		return classify(op, err)
	}

	db, err := sql.Open("sqlite", cfg.Database)
	if err != nil {
		return classify(op, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return classify(op, err)
	}
	if err := db.Close(); err != nil {
		return classify(op, err)
	}
	logger.Debug("database created", "driver", sqliteDialect.Name, "database", cfg.Database)
	return nil
}

// DropDatabase removes the database file. A missing file is a
// NoDatabase fault.
func (d *Driver) DropDatabase(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	op := "sqlite.drop_database"
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Database == "" {
		return core.NewError(core.KindProgramming, op, errors.New("database path is empty"))
	}
	if err := os.Remove(cfg.Database); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.NewError(core.KindNoDatabase, op,
				fmt.Errorf("attempt to drop non-existent database %s", cfg.Database))
		}
		return classify(op, err)
	}
	logger.Debug("database dropped", "driver", sqliteDialect.Name, "database", cfg.Database)
	return nil
}
