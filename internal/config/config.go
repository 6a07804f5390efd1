package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-markcv/internal/hints"
	"github.com/alnah/go-markcv/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxHostLength       = 253  // RFC 1035
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxOriginLength     = 2048 // Browser URL limit
	MaxPaperSizeLength  = 10   // "a4", "letter", "legal"
	MaxThemeColorLength = 30   // "blue", "#1a73e8"
	MaxPrintDelayMs     = 60_000
)

// Inline converter backends.
const (
	InlinePandoc   = "pandoc"
	InlineGoldmark = "goldmark"
)

// Log output formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var (
	inlineBackends = []string{InlinePandoc, InlineGoldmark}
	logLevels      = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{LogFormatJSON, LogFormatText}
)

// Config holds all configuration for the markcv server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Paths     PathsConfig     `yaml:"paths"`
	Converter ConverterConfig `yaml:"converter"`
	Render    RenderConfig    `yaml:"render"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"corsOrigins"` // empty = allow any origin
}

// PathsConfig locates the on-disk data and assets.
type PathsConfig struct {
	DataDir        string `yaml:"dataDir"`        // cv.md and images/
	TemplateDir    string `yaml:"templateDir"`    // one subdirectory per template
	ThemeDir       string `yaml:"themeDir"`       // <template-id>.css files
	StaticDir      string `yaml:"staticDir"`      // editor assets served under /static
	BaseStylesheet string `yaml:"baseStylesheet"` // default render path stylesheet
}

// ConverterConfig selects the conversion backends.
type ConverterConfig struct {
	Pandoc string `yaml:"pandoc"` // executable name or path
	Inline string `yaml:"inline"` // "pandoc" or "goldmark"
}

// RenderConfig holds render request defaults.
type RenderConfig struct {
	PaperSize    string `yaml:"paperSize"`
	ThemeColor   string `yaml:"themeColor"`
	PrintDelayMs int    `yaml:"printDelayMs"`
}

// LogConfig defines structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DocumentPath returns the résumé file location.
func (p PathsConfig) DocumentPath() string {
	return filepath.Join(p.DataDir, "cv.md")
}

// ImageDir returns the uploaded image directory.
func (p PathsConfig) ImageDir() string {
	return filepath.Join(p.DataDir, "images")
}

// ImageMetadataPath returns the image metadata list, kept beside the
// image directory.
func (p PathsConfig) ImageMetadataPath() string {
	return filepath.Join(p.DataDir, "images_metadata.json")
}

// PrintDelay returns the print trigger delay as a duration.
func (r RenderConfig) PrintDelay() time.Duration {
	return time.Duration(r.PrintDelayMs) * time.Millisecond
}

// Validate checks ranges, enumerations and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.host", c.Server.Host, MaxHostLength); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 1 and 65535, got %d", ErrInvalidValue, c.Server.Port)
	}
	for i, origin := range c.Server.CORSOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.corsOrigins[%d]", i), origin, MaxOriginLength); err != nil {
			return err
		}
	}

	paths := []struct{ name, value string }{
		{"paths.dataDir", c.Paths.DataDir},
		{"paths.templateDir", c.Paths.TemplateDir},
		{"paths.themeDir", c.Paths.ThemeDir},
		{"paths.staticDir", c.Paths.StaticDir},
		{"paths.baseStylesheet", c.Paths.BaseStylesheet},
		{"converter.pandoc", c.Converter.Pandoc},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("%w: paths.dataDir is required", ErrInvalidValue)
	}

	if err := validateEnum("converter.inline", c.Converter.Inline, inlineBackends); err != nil {
		return err
	}

	if err := validateFieldLength("render.paperSize", c.Render.PaperSize, MaxPaperSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.themeColor", c.Render.ThemeColor, MaxThemeColorLength); err != nil {
		return err
	}
	if c.Render.PrintDelayMs < 0 || c.Render.PrintDelayMs > MaxPrintDelayMs {
		return fmt.Errorf("%w: render.printDelayMs must be between 0 and %d, got %d",
			ErrInvalidValue, MaxPrintDelayMs, c.Render.PrintDelayMs)
	}

	if err := validateEnum("log.level", c.Log.Level, logLevels); err != nil {
		return err
	}
	return validateEnum("log.format", c.Log.Format, logFormats)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum accepts empty values and case-insensitive members of allowed.
func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 9876},
		Paths: PathsConfig{
			DataDir:        "data",
			TemplateDir:    "cv_templates",
			ThemeDir:       filepath.Join("static", "css", "themes"),
			StaticDir:      "static",
			BaseStylesheet: filepath.Join("static", "css", "pdf.css"),
		},
		Converter: ConverterConfig{Pandoc: "pandoc", Inline: InlinePandoc},
		Render:    RenderConfig{PaperSize: "a4", ThemeColor: "blue", PrintDelayMs: 500},
		Log:       LogConfig{Level: "info", Format: LogFormatJSON},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/markcv/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(home, ".config", "markcv", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound,
		strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
