package server

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-markcv/internal/sections"
	"github.com/alnah/go-markcv/internal/server/middleware"
	"github.com/alnah/go-markcv/internal/server/respond"
	"github.com/alnah/go-markcv/internal/store"
)

const maxUploadSize = 10 << 20 // 10MB

type uploadResponse struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

type imageResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	AltText   string `json:"alt_text"`
	CreatedAt string `json:"created_at"`
	XOffset   int    `json:"x_offset"`
	YOffset   int    `json:"y_offset"`
}

func imageURL(id string) string {
	return sections.DataImagePrefix + id
}

func (h *Handler) uploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	img, err := h.deps.Images.Save(c.Request.Context(), store.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		AltText:     c.PostForm("alt_text"),
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotAnImage):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Only image files are allowed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "uploading image failed", err.Error())
		}
		return
	}

	c.Set(middleware.ImageIDKey, img.ID)
	respond.OK(c, uploadResponse{ID: img.ID, URL: imageURL(img.ID), AltText: img.AltText})
}

func (h *Handler) listImages(c *gin.Context) {
	images, err := h.deps.Images.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "listing images failed", err.Error())
		return
	}

	out := make([]imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, imageResponse{
			ID:        img.ID,
			URL:       imageURL(img.ID),
			AltText:   img.AltText,
			CreatedAt: img.CreatedAt,
			XOffset:   img.XOffset,
			YOffset:   img.YOffset,
		})
	}
	respond.OK(c, out)
}

func (h *Handler) getImage(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ImageIDKey, id)

	rc, err := h.deps.Images.Open(c.Request.Context(), id)
	if err != nil {
		h.imageError(c, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(id))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

func (h *Handler) updateImagePosition(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ImageIDKey, id)

	x, err := queryInt(c, "x_offset")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "x_offset must be an integer", nil)
		return
	}
	y, err := queryInt(c, "y_offset")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "y_offset must be an integer", nil)
		return
	}

	if _, err := h.deps.Images.UpdatePosition(c.Request.Context(), id, x, y); err != nil {
		h.imageError(c, err)
		return
	}
	respond.OK(c, statusResponse{Status: "success"})
}

func (h *Handler) imageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidImageID):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid image id", nil)
	case errors.Is(err, store.ErrImageNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Image not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "image operation failed", err.Error())
	}
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
