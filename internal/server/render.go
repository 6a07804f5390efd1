package server

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-markcv"
	"github.com/alnah/go-markcv/internal/pipeline"
	"github.com/alnah/go-markcv/internal/server/middleware"
	"github.com/alnah/go-markcv/internal/server/respond"
)

// Response headers describing how a page was rendered.
const (
	HeaderTemplate   = "X-Markcv-Template"
	HeaderRenderPath = "X-Markcv-Render-Path"
)

func (h *Handler) render(c *gin.Context) {
	req := markcv.RenderRequest{
		TemplateID: c.Query("template_id"),
		PaperSize:  c.DefaultQuery("paper_size", h.opts.DefaultPaperSize),
		ThemeColor: c.DefaultQuery("theme_color", h.opts.DefaultThemeColor),
	}
	c.Set(middleware.TemplateIDKey, req.TemplateID)

	art, err := h.deps.Renderer.Render(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": art.Filename})
	c.Header("Content-Disposition", disposition)
	c.Header(HeaderRenderPath, string(art.Path))
	if art.TemplateID != "" {
		c.Header(HeaderTemplate, art.TemplateID)
	}
	c.Data(http.StatusOK, art.MediaType, art.Content)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var convErr *pipeline.ConversionError
	switch {
	case errors.As(err, &convErr):
		respond.Error(c, http.StatusInternalServerError, respond.CodeConversionFailed,
			pipeline.ErrConversion.Error(), convErr.Diagnostic())
	case errors.Is(err, pipeline.ErrConversion):
		respond.Error(c, http.StatusInternalServerError, respond.CodeConversionFailed,
			pipeline.ErrConversion.Error(), err.Error())
	case errors.Is(err, markcv.ErrDocumentRead):
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "reading document failed", err.Error())
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "rendering failed", err.Error())
	}
}
