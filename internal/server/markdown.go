package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-markcv/internal/server/respond"
)

const maxDocumentSize = 1 << 20 // 1MB

type markdownResponse struct {
	Content string `json:"content"`
}

type saveMarkdownRequest struct {
	Markdown *string `json:"markdown"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *Handler) getMarkdown(c *gin.Context) {
	content, err := h.deps.Documents.Read(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "reading document failed", err.Error())
		return
	}
	respond.OK(c, markdownResponse{Content: content})
}

func (h *Handler) saveMarkdown(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize)

	var req saveMarkdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	if req.Markdown == nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "markdown is required", nil)
		return
	}

	if err := h.deps.Documents.Write(c.Request.Context(), *req.Markdown); err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "saving document failed", err.Error())
		return
	}
	respond.OK(c, statusResponse{Status: "success"})
}
