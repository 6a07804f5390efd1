package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-markcv"
	"github.com/alnah/go-markcv/internal/assets"
	"github.com/alnah/go-markcv/internal/config"
	"github.com/alnah/go-markcv/internal/pipeline"
	"github.com/alnah/go-markcv/internal/store"
)

// app holds the wired collaborators shared by serve and render.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	docs    *store.FileDocumentStore
	images  *store.FileImageStore
	catalog *assets.Catalog
	service *markcv.Service
}

// loadConfig resolves the effective configuration.
// CLI flags > env vars > config file > defaults
func loadConfig(common commonFlags, env *envConfig) (*config.Config, error) {
	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// applyCommonFlags applies explicitly set shared flags.
func applyCommonFlags(set func(string) bool, common commonFlags, paths pathFlags, conv converterFlags, cfg *config.Config) {
	if set("log-level") {
		cfg.Log.Level = common.logLevel
	}
	if set("log-format") {
		cfg.Log.Format = common.logFormat
	}
	if common.verbose {
		cfg.Log.Level = "debug"
	}
	if set("data-dir") {
		cfg.Paths.DataDir = paths.dataDir
	}
	if set("template-dir") {
		cfg.Paths.TemplateDir = paths.templateDir
	}
	if set("theme-dir") {
		cfg.Paths.ThemeDir = paths.themeDir
	}
	if set("static-dir") {
		cfg.Paths.StaticDir = paths.staticDir
	}
	if set("pandoc") {
		cfg.Converter.Pandoc = conv.pandoc
	}
	if set("inline") {
		cfg.Converter.Inline = conv.inline
	}
}

// newLogger builds the structured logger described by cfg.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == config.LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// newApp validates cfg and wires stores, catalog and render service.
func newApp(cfg *config.Config, env *Environment) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(env.Stderr, cfg.Log)
	slog.SetDefault(logger)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		docs:    store.NewFileDocumentStore(cfg.Paths.DocumentPath()),
		images:  store.NewFileImageStore(cfg.Paths.ImageDir(), cfg.Paths.ImageMetadataPath()),
		catalog: assets.NewCatalog(cfg.Paths.TemplateDir, cfg.Paths.ThemeDir, logger),
	}

	converter := &pipeline.PandocConverter{Runner: env.Runner, Binary: cfg.Converter.Pandoc}

	var inline pipeline.FragmentConverter = converter
	if cfg.Converter.Inline == config.InlineGoldmark {
		inline = pipeline.NewGoldmarkConverter()
	}

	svc, err := markcv.NewService(a.docs, a.images,
		markcv.WithCatalog(a.catalog),
		markcv.WithDocumentConverter(converter),
		markcv.WithInlineRenderer(inline),
		markcv.WithBaseStylesheet(cfg.Paths.BaseStylesheet),
		markcv.WithPrintDelay(cfg.Render.PrintDelay()),
		markcv.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating render service: %w", err)
	}
	a.service = svc

	return a, nil
}
