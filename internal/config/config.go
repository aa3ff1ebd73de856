// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ChannelSecret string
	ChannelToken  string
	ApexAPIKey    string
	ListenAddr    string
	DBPath        string
	PageSize      int
}

// Load reads configuration from environment variables and returns a validated
// Config. LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN are required; the
// bot cannot verify or answer webhooks without them. APEX_API_KEY is optional;
// without it the map-rotation command answers with its failure message.
// Optional variables with defaults: APEXBOT_LISTEN_ADDR (127.0.0.1:8080),
// APEXBOT_DB_PATH (apexbot.db), APEXBOT_PAGE_SIZE (10).
func Load() (*Config, error) {
	secret := os.Getenv("LINE_CHANNEL_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_SECRET is required")
	}

	token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is required")
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("APEXBOT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	pageSize := 10
	if v, ok := os.LookupEnv("APEXBOT_PAGE_SIZE"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("APEXBOT_PAGE_SIZE has invalid value %q", v)
		}
		pageSize = parsed
	}

	return &Config{
		ChannelSecret: secret,
		ChannelToken:  token,
		ApexAPIKey:    os.Getenv("APEX_API_KEY"),
		ListenAddr:    listenAddr,
		DBPath:        DBPath(),
		PageSize:      pageSize,
	}, nil
}

// DBPath returns the database path from APEXBOT_DB_PATH or its default.
// Separate from Load so the init-db command works without LINE credentials.
func DBPath() string {
	if v, ok := os.LookupEnv("APEXBOT_DB_PATH"); ok {
		return v
	}
	return "apexbot.db"
}
