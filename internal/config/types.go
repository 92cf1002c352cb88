// Package config provides the shared target-configuration types for
// brackish. This package is decoupled from CLI concerns so other tools
// can load a target without dragging cobra in.
package config

import (
	"fmt"
	"strings"

	"github.com/brackishdb/brackish/pkg/core"
	"github.com/brackishdb/brackish/pkg/driver"
)

// Default config file names searched in the working directory.
const (
	DefaultConfigFile    = "brackish.yaml"
	DefaultConfigFileAlt = "brackish.yml"
)

// Target names one database on one backend. It mirrors core.Config but
// carries koanf tags and tri-state booleans so a config file can omit
// the flags that default to true.
type Target struct {
	Driver string `koanf:"driver"` // postgres, sqlite, mysql, duckdb

	// Database is the database name for server backends, the file path
	// for embedded ones.
	Database string `koanf:"database"`

	// Network backends.
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// MaintenanceDB overrides the administrative database used for
	// CREATE DATABASE / DROP DATABASE.
	MaintenanceDB string `koanf:"maintenance_db"`

	// Autocommit and WidenReal default to true; nil means unset.
	Autocommit *bool `koanf:"autocommit"`
	WidenReal  *bool `koanf:"widen_real"`

	// Options carries engine-specific connection options verbatim.
	Options map[string]string `koanf:"options"`
}

// ToCore converts the target to the connection parameter set, applying
// the contract defaults for unset tri-state flags.
func (t *Target) ToCore() core.Config {
	cfg := core.DefaultConfig(t.Driver)
	cfg.Database = t.Database
	cfg.Host = t.Host
	cfg.Port = t.Port
	cfg.User = t.User
	cfg.Password = t.Password
	cfg.MaintenanceDB = t.MaintenanceDB
	if t.Autocommit != nil {
		cfg.Autocommit = *t.Autocommit
	}
	if t.WidenReal != nil {
		cfg.WidenReal = *t.WidenReal
	}
	if len(t.Options) > 0 {
		cfg.Options = make(map[string]string, len(t.Options))
		for k, v := range t.Options {
			cfg.Options[k] = v
		}
	}
	return cfg
}

// Validate checks the target against the driver registry, which is the
// single source of truth for available engines.
func (t *Target) Validate() error {
	if t.Driver == "" {
		return fmt.Errorf("target driver is required")
	}
	if !driver.IsRegistered(strings.ToLower(t.Driver)) {
		return &driver.UnknownDriverError{
			Name:      t.Driver,
			Available: driver.List(),
		}
	}
	if t.Database == "" {
		return fmt.Errorf("target database is required")
	}
	return nil
}
