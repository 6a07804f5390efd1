package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Context keys handlers may set to enrich the request log.
const (
	TemplateIDKey = "templateId"
	ImageIDKey    = "imageId"
)

// Logging emits one structured record per request.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		attrs := []any{
			"request_id", RequestIDFromContext(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", float64(latency.Microseconds()) / 1000.0,
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if v := c.GetString(TemplateIDKey); v != "" {
			attrs = append(attrs, "template_id", v)
		}
		if v := c.GetString(ImageIDKey); v != "" {
			attrs = append(attrs, "image_id", v)
		}

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request.complete", attrs...)
	}
}
