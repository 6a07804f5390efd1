package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-markcv/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MARKCV_CONFIG: config file name or path

	// Server
	Host string // MARKCV_HOST
	Port int    // MARKCV_PORT

	// Paths
	DataDir     string // MARKCV_DATA_DIR
	TemplateDir string // MARKCV_TEMPLATE_DIR
	ThemeDir    string // MARKCV_THEME_DIR
	StaticDir   string // MARKCV_STATIC_DIR

	// Converter
	Pandoc string // MARKCV_PANDOC
	Inline string // MARKCV_INLINE

	// Render defaults
	PaperSize    string // MARKCV_PAPER_SIZE
	ThemeColor   string // MARKCV_THEME_COLOR
	PrintDelayMs int    // MARKCV_PRINT_DELAY_MS, -1 when unset

	// Logging
	LogLevel  string // MARKCV_LOG_LEVEL
	LogFormat string // MARKCV_LOG_FORMAT
}

// knownEnvVars lists valid MARKCV_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MARKCV_CONFIG":         true,
	"MARKCV_HOST":           true,
	"MARKCV_PORT":           true,
	"MARKCV_DATA_DIR":       true,
	"MARKCV_TEMPLATE_DIR":   true,
	"MARKCV_THEME_DIR":      true,
	"MARKCV_STATIC_DIR":     true,
	"MARKCV_PANDOC":         true,
	"MARKCV_INLINE":         true,
	"MARKCV_PAPER_SIZE":     true,
	"MARKCV_THEME_COLOR":    true,
	"MARKCV_PRINT_DELAY_MS": true,
	"MARKCV_LOG_LEVEL":      true,
	"MARKCV_LOG_FORMAT":     true,
	"MARKCV_CONTAINER":      true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("MARKCV_CONFIG"),
		Host:         os.Getenv("MARKCV_HOST"),
		DataDir:      os.Getenv("MARKCV_DATA_DIR"),
		TemplateDir:  os.Getenv("MARKCV_TEMPLATE_DIR"),
		ThemeDir:     os.Getenv("MARKCV_THEME_DIR"),
		StaticDir:    os.Getenv("MARKCV_STATIC_DIR"),
		Pandoc:       os.Getenv("MARKCV_PANDOC"),
		Inline:       os.Getenv("MARKCV_INLINE"),
		PaperSize:    os.Getenv("MARKCV_PAPER_SIZE"),
		ThemeColor:   os.Getenv("MARKCV_THEME_COLOR"),
		LogLevel:     os.Getenv("MARKCV_LOG_LEVEL"),
		LogFormat:    os.Getenv("MARKCV_LOG_FORMAT"),
		PrintDelayMs: -1,
	}

	if port := os.Getenv("MARKCV_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.Port = p
		}
	}

	if delay := os.Getenv("MARKCV_PRINT_DELAY_MS"); delay != "" {
		if d, err := strconv.Atoi(delay); err == nil && d >= 0 {
			cfg.PrintDelayMs = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MARKCV_* variables.
// Helps catch typos like MARKCV_DATADIR instead of MARKCV_DATA_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MARKCV_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment variables over cfg.
// Config holds file values layered on defaults at this point, so any set
// variable wins. Flags are applied afterwards:
// CLI flags > env vars > config file > defaults
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Server.Host, env.Host)
	if env.Port > 0 {
		cfg.Server.Port = env.Port
	}

	setString(&cfg.Paths.DataDir, env.DataDir)
	setString(&cfg.Paths.TemplateDir, env.TemplateDir)
	setString(&cfg.Paths.ThemeDir, env.ThemeDir)
	setString(&cfg.Paths.StaticDir, env.StaticDir)

	setString(&cfg.Converter.Pandoc, env.Pandoc)
	setString(&cfg.Converter.Inline, env.Inline)

	setString(&cfg.Render.PaperSize, env.PaperSize)
	setString(&cfg.Render.ThemeColor, env.ThemeColor)
	if env.PrintDelayMs >= 0 {
		cfg.Render.PrintDelayMs = env.PrintDelayMs
	}

	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
