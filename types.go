package markcv

import (
	"context"
	"io"

	"github.com/alnah/go-markcv/internal/assets"
)

// Render request defaults.
const (
	DefaultTemplateID = assets.DefaultTemplateID
	DefaultPaperSize  = "a4"
	DefaultThemeColor = "blue"
)

// Artifact constants. The filename does not depend on the template.
const (
	ArtifactFilename  = "cv.html"
	ArtifactMediaType = "text/html; charset=utf-8"
)

// DocumentStore holds the single résumé document.
type DocumentStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
}

// ImageSource gives read access to stored images.
type ImageSource interface {
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// ImageStore manages uploaded images.
type ImageStore interface {
	ImageSource
	Save(ctx context.Context, up Upload) (Image, error)
	List(ctx context.Context) ([]Image, error)
	UpdatePosition(ctx context.Context, id string, x, y int) (Image, error)
}

// RenderRequest selects the layout and its parameters.
type RenderRequest struct {
	TemplateID string
	PaperSize  string
	ThemeColor string
}

// withDefaults fills empty fields.
func (r RenderRequest) withDefaults() RenderRequest {
	if r.TemplateID == "" {
		r.TemplateID = DefaultTemplateID
	}
	if r.PaperSize == "" {
		r.PaperSize = DefaultPaperSize
	}
	if r.ThemeColor == "" {
		r.ThemeColor = DefaultThemeColor
	}
	return r
}

// RenderPath tells which pipeline produced an artifact.
type RenderPath string

const (
	// PathTemplate renders through a resolved layout with extracted variables.
	PathTemplate RenderPath = "template"
	// PathDefault renders the raw document with the base stylesheet only.
	PathDefault RenderPath = "default"
)

// Artifact is a rendered, printable page.
type Artifact struct {
	Filename  string
	MediaType string
	Content   []byte

	Path            RenderPath
	TemplateID      string // resolved id, empty on the default path
	Template        TemplateResolution
	Variables       *Variables
	InlineFallbacks int // extracted lines passed through unrendered
}
