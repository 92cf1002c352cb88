// Package config loads the brackish CLI configuration: a default
// target plus named targets, layered from defaults, brackish.yaml,
// BRACKISH_-prefixed environment variables, and command-line flags.
package config

import (
	intconfig "github.com/brackishdb/brackish/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	Target  *intconfig.Target            `koanf:"target"`
	Targets map[string]*intconfig.Target `koanf:"targets"`
	Verbose bool                         `koanf:"verbose"`
	Format  string                       `koanf:"format"`
}

// Default configuration values.
const (
	DefaultFormat = "table"
)
