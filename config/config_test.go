package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Database.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Dispatcher.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Dispatcher.CommandTimeout)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DISPATCHER_WORKERS", "8")
	t.Setenv("COMMAND_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGIN", "https://shell.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Dispatcher.Workers)
	assert.Equal(t, 30*time.Second, cfg.Dispatcher.CommandTimeout)
	assert.Equal(t, []string{"https://shell.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DISPATCHER_WORKERS", "not-a-number")
	t.Setenv("COMMAND_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Dispatcher.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Dispatcher.CommandTimeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:     ServerConfig{Port: "8080"},
		Dispatcher: DispatcherConfig{Workers: 4, CommandTimeout: time.Minute},
	}
	require.NoError(t, cfg.Validate())

	cfg.Dispatcher.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg.Dispatcher.Workers = 4
	cfg.Dispatcher.CommandTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg.Dispatcher.CommandTimeout = time.Minute
	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())
}
