package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// NoteMaxChars is the maximum character count (runes) for note content.
	NoteMaxChars int `json:"note_max_chars"`

	// RateLimitPerSec is the token refill rate of each API key's bucket,
	// in tokens per second.
	RateLimitPerSec float64 `json:"rate_limit_per_sec"`

	// RateLimitBurst is the bucket capacity: the number of requests a key
	// may issue back-to-back before refill matters.
	RateLimitBurst int `json:"rate_limit_burst"`

	// DefaultAPIKey is the identity assigned to requests without an
	// X-API-Key header.
	DefaultAPIKey string `json:"default_api_key"`

	// MetricsWindow is the number of recent duration samples retained per
	// endpoint for percentile computation.
	MetricsWindow int `json:"metrics_window"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// The in-memory store defaults to 1 to serialize access; 0 means use the
	// sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use the sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NoteMaxChars:    240,
		RateLimitPerSec: 10.0,
		RateLimitBurst:  20,
		DefaultAPIKey:   "dev-key",
		MetricsWindow:   1000,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.tinynotes.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.NoteMaxChars = overlay.NoteMaxChars
	if result.NoteMaxChars == 0 {
		result.NoteMaxChars = base.NoteMaxChars
	}

	result.RateLimitPerSec = overlay.RateLimitPerSec
	if result.RateLimitPerSec == 0 {
		result.RateLimitPerSec = base.RateLimitPerSec
	}

	result.RateLimitBurst = overlay.RateLimitBurst
	if result.RateLimitBurst == 0 {
		result.RateLimitBurst = base.RateLimitBurst
	}

	result.DefaultAPIKey = overlay.DefaultAPIKey
	if result.DefaultAPIKey == "" {
		result.DefaultAPIKey = base.DefaultAPIKey
	}

	result.MetricsWindow = overlay.MetricsWindow
	if result.MetricsWindow == 0 {
		result.MetricsWindow = base.MetricsWindow
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
