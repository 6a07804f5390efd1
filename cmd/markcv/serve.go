package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-markcv/internal/server"
	"github.com/alnah/go-markcv/internal/yamlutil"
)

// Server timeouts. Renders shell out to pandoc, so writes get more headroom.
const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

// runServe starts the editor HTTP server and blocks until a signal arrives.
func runServe(args []string, env *Environment) error {
	flags, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	applyCommonFlags(flags.set, flags.common, flags.paths, flags.converter, cfg)
	if flags.set("host") {
		cfg.Server.Host = flags.host
	}
	if flags.set("port") {
		cfg.Server.Port = flags.port
	}

	if flags.printConfig {
		if err := cfg.Validate(); err != nil {
			return err
		}
		out, err := yamlutil.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = env.Stdout.Write(out)
		return err
	}

	a, err := newApp(cfg, env)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Deps{
		Documents: a.docs,
		Images:    a.images,
		Templates: a.catalog,
		Renderer:  a.service,
		Logger:    a.logger,
	}, server.Options{
		StaticDir:         cfg.Paths.StaticDir,
		TemplateDir:       cfg.Paths.TemplateDir,
		CORSOrigins:       cfg.Server.CORSOrigins,
		DefaultPaperSize:  cfg.Render.PaperSize,
		DefaultThemeColor: cfg.Render.ThemeColor,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server.start", "addr", srv.Addr, "version", Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	a.logger.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
