// Package config loads agent settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Clipboard modes.
const (
	ClipboardSystem = "system"
	ClipboardTab    = "tab"
	ClipboardAuto   = "auto"
)

// Config holds all configuration for the linkclip agent.
type Config struct {
	// CDP connection settings
	CDPAddress string
	CDPPort    int

	// HTTP trigger settings
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// Tab matching and behavior
	TabURLFilter  string
	EvalTimeoutMS int
	ClipboardMode string

	// Browser launch
	LaunchBrowser bool
	ProfileDir    string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		CDPAddress:       getEnvOrDefault("CHROMIUM_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:          getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9222),
		BindAddr:         getEnvOrDefault("LINKCLIP_BIND_ADDR", "127.0.0.1:8199"),
		PortCandidates:   splitList(getEnvOrDefault("LINKCLIP_PORT_CANDIDATES", "")),
		PortAutoFallback: getEnvBoolOrDefault("LINKCLIP_PORT_AUTO_FALLBACK", true),
		TabURLFilter:     getEnvOrDefault("LINKCLIP_TAB_URL_FILTER", ""),
		EvalTimeoutMS:    getEnvIntOrDefault("LINKCLIP_EVAL_TIMEOUT_MS", 5000),
		ClipboardMode:    strings.ToLower(getEnvOrDefault("LINKCLIP_CLIPBOARD_MODE", ClipboardAuto)),
		LaunchBrowser:    getEnvBoolOrDefault("LINKCLIP_LAUNCH_BROWSER", false),
		ProfileDir:       getEnvOrDefault("LINKCLIP_PROFILE_DIR", "./browser_profile"),
		LogLevel:         strings.ToLower(getEnvOrDefault("LINKCLIP_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("LINKCLIP_LOG_FILE", "logs/linkclip.log"),
	}

	if cfg.EvalTimeoutMS < 1000 {
		cfg.EvalTimeoutMS = 1000
	}

	switch cfg.ClipboardMode {
	case ClipboardSystem, ClipboardTab, ClipboardAuto:
	default:
		return nil, fmt.Errorf("invalid LINKCLIP_CLIPBOARD_MODE %q (want system, tab, or auto)", cfg.ClipboardMode)
	}

	return cfg, nil
}

// CDPURL returns the CDP HTTP endpoint.
func (c *Config) CDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
