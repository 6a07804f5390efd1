package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-markcv"
	"github.com/alnah/go-markcv/internal/fileutil"
)

// ErrWriteOutput indicates the rendered page could not be written.
var ErrWriteOutput = errors.New("writing output failed")

// runRender renders the stored document to a file without starting a server.
func runRender(args []string, env *Environment) error {
	flags, err := parseRenderFlags(args)
	if err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	applyCommonFlags(flags.set, flags.common, flags.paths, flags.converter, cfg)
	if flags.set("paper-size") {
		cfg.Render.PaperSize = flags.paperSize
	}
	if flags.set("theme-color") {
		cfg.Render.ThemeColor = flags.themeColor
	}

	a, err := newApp(cfg, env)
	if err != nil {
		return err
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	art, err := a.service.Render(ctx, markcv.RenderRequest{
		TemplateID: flags.template,
		PaperSize:  cfg.Render.PaperSize,
		ThemeColor: cfg.Render.ThemeColor,
	})
	if err != nil {
		return err
	}

	if err := fileutil.AtomicWriteFile(flags.output, art.Content, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, flags.output, err)
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "template: %s (%s), path: %s\n",
			art.TemplateID, art.Template.Kind, art.Path)
		if art.InlineFallbacks > 0 {
			fmt.Fprintf(env.Stderr, "inline fallbacks: %d\n", art.InlineFallbacks)
		}
	}
	fmt.Fprintln(env.Stdout, flags.output)
	return nil
}
