package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Config holds all flowdraft server configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	ListenAddr    string `json:"listen_addr"`
	DBPath        string `json:"db_path"`
	LogLevel      string `json:"log_level"`
	PurgeSchedule string `json:"purge_schedule"`
	MCP           bool   `json:"mcp"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:    ":5000",
		DBPath:        "file:" + filepath.Join(flowdraftDir(), "flowdraft.db"),
		LogLevel:      "info",
		PurgeSchedule: "0 * * * *",
	}
}

func flowdraftDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowdraft"
	}
	return filepath.Join(home, ".flowdraft")
}

func settingsPath() string {
	return filepath.Join(flowdraftDir(), "settings.json")
}

func loadConfig() Config {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("FLOWDRAFT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("FLOWDRAFT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FLOWDRAFT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FLOWDRAFT_PURGE_SCHEDULE"); v != "" {
		cfg.PurgeSchedule = v
	}
	if v := os.Getenv("FLOWDRAFT_MCP"); v != "" {
		cfg.MCP = v == "true" || v == "1"
	}

	return cfg
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
