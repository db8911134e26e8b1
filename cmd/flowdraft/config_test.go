package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("FLOWDRAFT_LISTEN_ADDR", "")
	t.Setenv("FLOWDRAFT_DB_PATH", "")
	t.Setenv("FLOWDRAFT_LOG_LEVEL", "")
	t.Setenv("FLOWDRAFT_PURGE_SCHEDULE", "")
	t.Setenv("FLOWDRAFT_MCP", "")

	cfg := loadConfig()
	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Contains(t, cfg.DBPath, "flowdraft.db")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0 * * * *", cfg.PurgeSchedule)
	assert.False(t, cfg.MCP)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FLOWDRAFT_LISTEN_ADDR", ":9090")
	t.Setenv("FLOWDRAFT_DB_PATH", "file:/tmp/test.db")
	t.Setenv("FLOWDRAFT_LOG_LEVEL", "debug")
	t.Setenv("FLOWDRAFT_PURGE_SCHEDULE", "*/10 * * * *")
	t.Setenv("FLOWDRAFT_MCP", "true")

	cfg := loadConfig()
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "file:/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "*/10 * * * *", cfg.PurgeSchedule)
	assert.True(t, cfg.MCP)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("unknown"))
}
