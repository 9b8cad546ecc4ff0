package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-textbook/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "TEXTBOOK_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // TEXTBOOK_CONFIG: config file path
	ContentDir string // TEXTBOOK_CONTENT_DIR: course directory
	OutputDir  string // TEXTBOOK_OUTPUT_DIR: site output directory

	// Tier 2 - Rendering
	Index     string // TEXTBOOK_INDEX: structural index path
	Theme     string // TEXTBOOK_THEME: sidebar theme
	Language  string // TEXTBOOK_LANGUAGE: copy-enabled code language
	BaseURL   string // TEXTBOOK_BASE_URL: absolute link prefix
	AssetPath string // TEXTBOOK_ASSET_PATH: asset override directory

	// Tier 3 - Serve, PDF and logs
	Addr      string        // TEXTBOOK_ADDR: preview listen address
	Timeout   time.Duration // TEXTBOOK_TIMEOUT: per-chapter PDF timeout
	Workers   int           // TEXTBOOK_WORKERS: PDF browser pages
	LogLevel  string        // TEXTBOOK_LOG_LEVEL: debug, info, warn, error
	LogFormat string        // TEXTBOOK_LOG_FORMAT: console, json
}

// knownEnvVars lists valid TEXTBOOK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"TEXTBOOK_CONFIG":      true,
	"TEXTBOOK_CONTENT_DIR": true,
	"TEXTBOOK_OUTPUT_DIR":  true,
	// Tier 2 - Rendering
	"TEXTBOOK_INDEX":      true,
	"TEXTBOOK_THEME":      true,
	"TEXTBOOK_LANGUAGE":   true,
	"TEXTBOOK_BASE_URL":   true,
	"TEXTBOOK_ASSET_PATH": true,
	// Tier 3 - Serve, PDF and logs
	"TEXTBOOK_ADDR":       true,
	"TEXTBOOK_TIMEOUT":    true,
	"TEXTBOOK_WORKERS":    true,
	"TEXTBOOK_LOG_LEVEL":  true,
	"TEXTBOOK_LOG_FORMAT": true,
	// Read by doctor only
	"TEXTBOOK_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("TEXTBOOK_CONFIG"),
		ContentDir: os.Getenv("TEXTBOOK_CONTENT_DIR"),
		OutputDir:  os.Getenv("TEXTBOOK_OUTPUT_DIR"),
		Index:      os.Getenv("TEXTBOOK_INDEX"),
		Theme:      os.Getenv("TEXTBOOK_THEME"),
		Language:   os.Getenv("TEXTBOOK_LANGUAGE"),
		BaseURL:    os.Getenv("TEXTBOOK_BASE_URL"),
		AssetPath:  os.Getenv("TEXTBOOK_ASSET_PATH"),
		Addr:       os.Getenv("TEXTBOOK_ADDR"),
		LogLevel:   os.Getenv("TEXTBOOK_LOG_LEVEL"),
		LogFormat:  os.Getenv("TEXTBOOK_LOG_FORMAT"),
	}

	// Invalid numbers are ignored, matching an unset variable.
	if timeout := os.Getenv("TEXTBOOK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := os.Getenv("TEXTBOOK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized TEXTBOOK_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// Resulting precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Content.Dir, env.ContentDir)
	set(&cfg.Content.Index, env.Index)
	set(&cfg.Output.Dir, env.OutputDir)
	set(&cfg.Theme, env.Theme)
	set(&cfg.Code.Language, env.Language)
	set(&cfg.Site.BaseURL, env.BaseURL)
	set(&cfg.Assets.BasePath, env.AssetPath)
	set(&cfg.Serve.Addr, env.Addr)
	set(&cfg.Log.Level, env.LogLevel)
	set(&cfg.Log.Format, env.LogFormat)

	if env.Timeout > 0 {
		cfg.PDF.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.PDF.Workers = env.Workers
	}
}
