package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackishdb/brackish/pkg/driver"

	_ "github.com/brackishdb/brackish/pkg/drivers/sqlite"
)

func boolPtr(b bool) *bool { return &b }

func TestToCoreDefaults(t *testing.T) {
	target := &Target{
		Driver:   "sqlite",
		Database: "/tmp/test.db",
	}

	cfg := target.ToCore()
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database)
	assert.True(t, cfg.Autocommit, "autocommit defaults on when unset")
	assert.True(t, cfg.WidenReal, "widen_real defaults on when unset")
}

func TestToCoreTriState(t *testing.T) {
	target := &Target{
		Driver:     "sqlite",
		Database:   "x.db",
		Autocommit: boolPtr(false),
		WidenReal:  boolPtr(false),
	}

	cfg := target.ToCore()
	assert.False(t, cfg.Autocommit)
	assert.False(t, cfg.WidenReal)
}

func TestToCoreCopiesOptions(t *testing.T) {
	target := &Target{
		Driver:   "sqlite",
		Database: "x.db",
		Options:  map[string]string{"mode": "ro"},
	}

	cfg := target.ToCore()
	require.Equal(t, "ro", cfg.Options["mode"])

	// Mutating the config copy must not leak back into the target.
	cfg.Options["mode"] = "rw"
	assert.Equal(t, "ro", target.Options["mode"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr string
	}{
		{
			name:    "missing driver",
			target:  Target{Database: "x.db"},
			wantErr: "driver is required",
		},
		{
			name:    "missing database",
			target:  Target{Driver: "sqlite"},
			wantErr: "database is required",
		},
		{
			name:   "valid",
			target: Target{Driver: "sqlite", Database: "x.db"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateUnknownDriver(t *testing.T) {
	target := Target{Driver: "oracle", Database: "x"}
	err := target.Validate()
	require.Error(t, err)

	var unknown *driver.UnknownDriverError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Name)
	assert.Contains(t, unknown.Available, "sqlite")
}
