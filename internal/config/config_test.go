package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "norm", cfg.Engine.FitFunction)
	assert.Equal(t, 1000, cfg.Engine.BootSize)
	assert.Equal(t, 95, cfg.Engine.BootstrapCI)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BOOT_SIZE", "250")
	t.Setenv("DATABASE_URL", "postgres://localhost/climattr")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 250, cfg.Engine.BootSize)
	assert.True(t, cfg.Database.Enabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("BOOT_SIZE", "not-a-number")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("BOOT_SIZE", "0")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("BOOT_SIZE", "100")
	t.Setenv("BOOTSTRAP_CI", "150")
	_, err = Load()
	require.Error(t, err)
}
