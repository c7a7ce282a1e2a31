package main

import (
	"flag"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("friendzone", flag.ContinueOnError)
	cfg, err := parseConfig(fs, nil)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.False(t, cfg.Dev)
	assert.Equal(t, zerolog.InfoLevel, cfg.level())
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Empty(t, cfg.SessionDB)
	assert.Empty(t, cfg.NATSDir)
	assert.Empty(t, cfg.OTelEndpoint)
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("FRIENDZONE_ADDR", ":8080")
	t.Setenv("FRIENDZONE_DEV", "true")
	t.Setenv("FRIENDZONE_LOG_LEVEL", "debug")
	t.Setenv("FRIENDZONE_SESSION_LIFETIME", "30m")
	t.Setenv("FRIENDZONE_ADD_RATE", "2.5")
	t.Setenv("FRIENDZONE_ADD_BURST", "4")

	fs := flag.NewFlagSet("friendzone", flag.ContinueOnError)
	cfg, err := parseConfig(fs, nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.Dev)
	assert.Equal(t, zerolog.DebugLevel, cfg.level())
	assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
	assert.InDelta(t, 2.5, cfg.AddRate, 0.001)
	assert.Equal(t, 4, cfg.AddBurst)
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("FRIENDZONE_ADDR", ":8080")

	fs := flag.NewFlagSet("friendzone", flag.ContinueOnError)
	cfg, err := parseConfig(fs, []string{"-addr", "127.0.0.1:9000"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}

func TestParseConfigRejectsBadLogLevel(t *testing.T) {
	t.Setenv("FRIENDZONE_LOG_LEVEL", "loud")

	fs := flag.NewFlagSet("friendzone", flag.ContinueOnError)
	_, err := parseConfig(fs, nil)
	assert.Error(t, err)
}
