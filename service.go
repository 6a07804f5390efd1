package markcv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alnah/go-markcv/internal/assets"
	"github.com/alnah/go-markcv/internal/fileutil"
	"github.com/alnah/go-markcv/internal/pipeline"
	"github.com/alnah/go-markcv/internal/sections"
)

// Default on-disk locations, relative to the working directory.
var (
	DefaultTemplateDir    = "cv_templates"
	DefaultThemeDir       = filepath.Join("static", "css", "themes")
	DefaultBaseStylesheet = filepath.Join("static", "css", "pdf.css")
)

// Staged file names.
const (
	stagedSourceName = "cv.md"
	stagedOutputName = "cv.html"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.DocumentConverter = (*pipeline.PandocConverter)(nil)
	_ pipeline.FragmentConverter = (*pipeline.PandocConverter)(nil)
	_ pipeline.FragmentConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.ImageOpener       = (ImageSource)(nil)
)

// Service orchestrates the résumé render pipeline.
// It holds no per-render state and is safe for concurrent use.
type Service struct {
	docs           DocumentStore
	images         ImageSource
	templates      *assets.Catalog
	converter      pipeline.DocumentConverter
	fragments      pipeline.FragmentConverter
	inline         *pipeline.InlineRenderer
	relocator      *pipeline.Relocator
	baseStylesheet string
	printDelay     time.Duration
	stagingRoot    string
	logger         *slog.Logger
}

// NewService creates a Service reading from docs and images.
// Without options it renders through the pandoc executable found in PATH.
func NewService(docs DocumentStore, images ImageSource, opts ...Option) (*Service, error) {
	if docs == nil {
		return nil, ErrNilDocumentStore
	}
	if images == nil {
		return nil, ErrNilImageStore
	}

	s := &Service{
		docs:           docs,
		images:         images,
		baseStylesheet: DefaultBaseStylesheet,
		printDelay:     pipeline.DefaultPrintDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.templates == nil {
		s.templates = assets.NewCatalog(DefaultTemplateDir, DefaultThemeDir, s.logger)
	}
	if s.converter == nil {
		s.converter = pipeline.NewPandocConverter(pipeline.DefaultPandocBinary)
	}
	if s.fragments == nil {
		fc, ok := s.converter.(pipeline.FragmentConverter)
		if !ok {
			fc = pipeline.NewPandocConverter(pipeline.DefaultPandocBinary)
		}
		s.fragments = fc
	}

	s.inline = pipeline.NewInlineRenderer(s.fragments, s.logger)
	s.relocator = pipeline.NewRelocator(s.images, s.logger)

	return s, nil
}

// Catalog returns the template catalog in use.
func (s *Service) Catalog() *Catalog {
	return s.templates
}

// Render produces the printable page for the current document.
//
// An unusable template falls back to the default template, and when that is
// unusable too, to a plain render of the raw document. Lines that fail inline
// rendering are passed through as written. Only document store failures and
// converter failures are returned as errors.
//
// A render runs to completion once started: cancellation of ctx is ignored,
// its values are kept.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*Artifact, error) {
	ctx = context.WithoutCancel(ctx)
	req = req.withDefaults()
	start := time.Now()

	resolution := s.templates.Resolve(req.TemplateID)

	markdown, err := s.docs.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentRead, err)
	}

	stagingDir, err := os.MkdirTemp(s.stagingRoot, "markcv-render-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStaging, err)
	}
	defer func() {
		if err := os.RemoveAll(stagingDir); err != nil {
			s.logger.Warn("staging directory not removed", "dir", stagingDir, "error", err)
		}
	}()

	art := &Artifact{
		Filename:  ArtifactFilename,
		MediaType: ArtifactMediaType,
		Template:  resolution,
	}

	var job pipeline.ConvertJob
	if resolution.Kind == pipeline.Fatal {
		s.logger.Warn("no usable template, rendering without layout",
			"template_id", req.TemplateID,
			"error", resolution.Err,
		)
		art.Path = PathDefault
		job, err = s.defaultJob(stagingDir, markdown)
	} else {
		art.Path = PathTemplate
		art.TemplateID = resolution.Value.ID
		job, art.InlineFallbacks, err = s.templateJob(ctx, stagingDir, markdown, req, resolution.Value)
	}
	if err != nil {
		return nil, err
	}
	art.Variables = job.Variables

	if err := s.converter.Convert(ctx, job); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(job.Output)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoOutput
		}
		return nil, fmt.Errorf("reading converter output: %w", err)
	}

	art.Content = pipeline.InjectPrintScript(content, s.printDelay)

	s.logger.Info("render.complete",
		"template_requested", req.TemplateID,
		"template_id", art.TemplateID,
		"template_outcome", resolution.Kind.String(),
		"path", string(art.Path),
		"inline_fallbacks", art.InlineFallbacks,
		"bytes", len(art.Content),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return art, nil
}

// templateJob extracts sections, renders them inline, relocates images and
// assembles the variable set for a resolved layout.
func (s *Service) templateJob(ctx context.Context, stagingDir, markdown string, req RenderRequest, desc assets.Descriptor) (pipeline.ConvertJob, int, error) {
	extracted := sections.Extract(markdown)

	contact, f1 := s.inline.RenderAll(ctx, extracted.Sections.ContactInfo)
	skills, f2 := s.inline.RenderAll(ctx, extracted.Sections.Skills)
	languages, f3 := s.inline.RenderAll(ctx, extracted.Sections.Languages)

	relocated, err := s.relocator.Relocate(ctx, extracted.Content, stagingDir)
	if err != nil {
		return pipeline.ConvertJob{}, 0, err
	}

	vars := &pipeline.Variables{}
	vars.Add(pipeline.VarPaperSize, req.PaperSize)
	vars.Add(pipeline.VarThemeColor, req.ThemeColor)

	if p := extracted.Profile; p != nil {
		staged, err := s.relocator.StageImage(ctx, p.ID, stagingDir)
		if err != nil {
			return pipeline.ConvertJob{}, 0, err
		}
		if staged {
			offsets, _ := extracted.ProfileOffsets()
			vars.Add(pipeline.VarFirstImage, p.Path)
			vars.Add(pipeline.VarImageXOffset, strconv.Itoa(offsets.X))
			vars.Add(pipeline.VarImageYOffset, strconv.Itoa(offsets.Y))
		}
	}

	vars.Add(pipeline.VarContactInfo, contact...)
	vars.Add(pipeline.VarSkills, skills...)
	vars.Add(pipeline.VarLanguages, languages...)

	input, err := stageSource(stagingDir, relocated)
	if err != nil {
		return pipeline.ConvertJob{}, 0, err
	}

	stylesheet, err := s.stylesheet(stagingDir, desc.StylesheetPath)
	if err != nil {
		return pipeline.ConvertJob{}, 0, err
	}

	return pipeline.ConvertJob{
		Input:        input,
		Output:       filepath.Join(stagingDir, stagedOutputName),
		Template:     absPath(desc.LayoutPath),
		Stylesheets:  []string{stylesheet},
		ResourcePath: stagingDir,
		Variables:    vars,
	}, f1 + f2 + f3, nil
}

// defaultJob converts the raw document with the base stylesheet only.
func (s *Service) defaultJob(stagingDir, markdown string) (pipeline.ConvertJob, error) {
	input, err := stageSource(stagingDir, markdown)
	if err != nil {
		return pipeline.ConvertJob{}, err
	}

	stylesheet, err := s.stylesheet(stagingDir, s.baseStylesheet)
	if err != nil {
		return pipeline.ConvertJob{}, err
	}

	return pipeline.ConvertJob{
		Input:        input,
		Output:       filepath.Join(stagingDir, stagedOutputName),
		Stylesheets:  []string{stylesheet},
		ResourcePath: stagingDir,
	}, nil
}

// stylesheet returns path when it exists, else stages the embedded stylesheet.
// Paths are made absolute because the converter resolves relative resources
// against the staging directory.
func (s *Service) stylesheet(stagingDir, path string) (string, error) {
	if path != "" && fileutil.FileExists(path) {
		return absPath(path), nil
	}

	s.logger.Debug("stylesheet missing, using embedded default", "path", path)
	staged := filepath.Join(stagingDir, assets.DefaultStylesheetName)
	if err := os.WriteFile(staged, assets.DefaultStylesheet(), 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStaging, err)
	}
	return staged, nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func stageSource(stagingDir, markdown string) (string, error) {
	path := filepath.Join(stagingDir, stagedSourceName)
	if err := os.WriteFile(path, []byte(markdown), 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStaging, err)
	}
	return path, nil
}
