package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/brackishdb/brackish/internal/config"
)

// loggerKey is used to store the logger in context. Shared with the cli
// package via LoggerKey.
type loggerKey struct{}

// Package-level config file tracking and the loaded config, for access
// by commands.
var (
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > brackish.yaml > brackish.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(intconfig.DefaultConfigFile); err == nil {
		return intconfig.DefaultConfigFile
	}
	if _, err := os.Stat(intconfig.DefaultConfigFileAlt); err == nil {
		return intconfig.DefaultConfigFileAlt
	}
	return ""
}

// ResetConfig clears the loaded state. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config
// file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadConfigWithTarget(cfgFile, "", flags)
}

// LoadConfigWithTarget loads configuration and resolves the effective
// target. A non-empty targetName selects an entry from the targets map;
// otherwise the top-level target block is used.
func LoadConfigWithTarget(cfgFile, targetName string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose": false,
		"format":  DefaultFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file.
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: BRACKISH_TARGET_HOST -> target.host.
	if err := k.Load(env.Provider("BRACKISH_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "BRACKISH_"))
		if rest, ok := strings.CutPrefix(key, "target_"); ok {
			return "target." + rest
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority). Connection flags land under the
	// effective target block.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch key {
			case "driver", "host", "port", "user", "password", "database", "maintenance_db":
				return "target." + key, posflag.FlagVal(flags, f)
			case "config", "target":
				// Consumed before loading; not config keys.
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Resolve the named target. Flag-level connection overrides sit in
	// cfg.Target; a named target replaces the base fields it sets.
	if targetName != "" {
		named, ok := cfg.Targets[targetName]
		if !ok {
			return nil, fmt.Errorf("target %q is not defined in %s", targetName, configFileUsed)
		}
		cfg.Target = mergeTarget(named, cfg.Target)
	}
	if cfg.Target == nil {
		cfg.Target = &intconfig.Target{}
	}

	expandTargetEnvVars(cfg.Target)

	currentConfig = &cfg
	return &cfg, nil
}

// mergeTarget overlays override's set fields onto base, returning a new
// target. Used so --host and friends still win over a named target.
func mergeTarget(base, override *intconfig.Target) *intconfig.Target {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}
	merged := *base
	if override.Driver != "" {
		merged.Driver = override.Driver
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.MaintenanceDB != "" {
		merged.MaintenanceDB = override.MaintenanceDB
	}
	if override.Autocommit != nil {
		merged.Autocommit = override.Autocommit
	}
	if override.WidenReal != nil {
		merged.WidenReal = override.WidenReal
	}
	if len(override.Options) > 0 {
		if merged.Options == nil {
			merged.Options = make(map[string]string)
		}
		for key, val := range override.Options {
			merged.Options[key] = val
		}
	}
	return &merged
}

// GetConfigFileUsed returns the path to the config file being used, if
// any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration. It is
// available after LoadConfig or LoadConfigWithTarget is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger. This
// lets the commands package retrieve the logger from context without
// an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// expandEnvVars expands ${VAR} patterns with environment variable
// values, leaving unknown variables untouched.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target
// fields, so credentials need not be written into brackish.yaml.
func expandTargetEnvVars(t *intconfig.Target) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}
