package main

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 0, cfg.MaxConns)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.True(t, cfg.Seed)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ADMIN_ADDR", "127.0.0.1:9090")
	t.Setenv("ADMIN_MAX_CONNS", "64")
	t.Setenv("ADMIN_SEED", "false")
	t.Setenv("ADMIN_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := loadConfig()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9090", cfg.Addr)
	require.Equal(t, 64, cfg.MaxConns)
	require.False(t, cfg.Seed)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("ADMIN_MAX_CONNS", "lots")

	_, err := loadConfig()
	require.Error(t, err)
}

func TestNewLoggerLevel(t *testing.T) {
	log := newLogger(config{LogLevel: "debug"})
	require.Equal(t, zerolog.DebugLevel, log.GetLevel())

	// Unknown levels fall back to info.
	log = newLogger(config{LogLevel: "shout"})
	require.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
