package markcv

import (
	"log/slog"
	"time"
)

// Option configures a Service.
type Option func(*Service)

// WithCatalog sets the template catalog.
func WithCatalog(c *Catalog) Option {
	return func(s *Service) {
		s.templates = c
	}
}

// WithDocumentConverter sets the full-page converter.
func WithDocumentConverter(c DocumentConverter) Option {
	return func(s *Service) {
		s.converter = c
	}
}

// WithInlineRenderer sets the converter used for single extracted lines.
// It defaults to the document converter when that also renders fragments.
func WithInlineRenderer(c FragmentConverter) Option {
	return func(s *Service) {
		s.fragments = c
	}
}

// WithBaseStylesheet sets the stylesheet used on the default render path.
// When the file does not exist the embedded stylesheet is used.
func WithBaseStylesheet(path string) Option {
	return func(s *Service) {
		s.baseStylesheet = path
	}
}

// WithPrintDelay sets how long the page waits before opening the print dialog.
func WithPrintDelay(d time.Duration) Option {
	if d < 0 {
		panic("markcv: WithPrintDelay duration must not be negative")
	}
	return func(s *Service) {
		s.printDelay = d
	}
}

// WithLogger sets the structured logger. Nil discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithStagingRoot sets the parent of per-render staging directories.
// Empty uses the system temp directory.
func WithStagingRoot(dir string) Option {
	return func(s *Service) {
		s.stagingRoot = dir
	}
}
