// Package server exposes the résumé editor API over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-markcv"
	"github.com/alnah/go-markcv/internal/assets"
	"github.com/alnah/go-markcv/internal/fileutil"
	"github.com/alnah/go-markcv/internal/server/middleware"
	"github.com/alnah/go-markcv/internal/server/respond"
)

// Renderer produces the printable page.
type Renderer interface {
	Render(ctx context.Context, req markcv.RenderRequest) (*markcv.Artifact, error)
}

// TemplateLister enumerates selectable layouts.
type TemplateLister interface {
	List() []assets.Descriptor
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Documents markcv.DocumentStore
	Images    markcv.ImageStore
	Templates TemplateLister
	Renderer  Renderer
	Logger    *slog.Logger
}

// Options controls static mounts and request defaults.
type Options struct {
	StaticDir   string // served under /static; index.html is the editor page
	TemplateDir string // served under /cv_templates
	CORSOrigins []string

	DefaultPaperSize  string
	DefaultThemeColor string
}

// Handler wires HTTP handlers to the stores and the renderer.
type Handler struct {
	deps Deps
	opts Options
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps, opts Options) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(opts.CORSOrigins),
	)

	h := &Handler{deps: deps, opts: opts}
	h.RegisterRoutes(r)

	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}
	if opts.TemplateDir != "" {
		r.Static("/cv_templates", opts.TemplateDir)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "route not found", nil)
	})

	return r
}

// RegisterRoutes attaches the editor and API routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.index)
	r.GET("/healthz", h.health)

	// Image URLs go through the store so only image files are reachable.
	r.GET("/data/images/:id", h.getImage)

	api := r.Group("/api")
	api.GET("/markdown", h.getMarkdown)
	api.POST("/markdown", h.saveMarkdown)
	api.GET("/templates", h.listTemplates)
	api.POST("/images/upload", h.uploadImage)
	api.GET("/images", h.listImages)
	api.GET("/images/:id", h.getImage)
	api.POST("/images/:id/position", h.updateImagePosition)
	api.GET("/pdf", h.render)
}

func (h *Handler) index(c *gin.Context) {
	page := filepath.Join(h.opts.StaticDir, "index.html")
	if h.opts.StaticDir == "" || !fileutil.FileExists(page) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "editor page not installed", nil)
		return
	}
	c.File(page)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) listTemplates(c *gin.Context) {
	respond.OK(c, h.deps.Templates.List())
}
