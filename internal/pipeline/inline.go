package pipeline

import (
	"context"
	"log/slog"
	"strings"
)

// InlineRenderer turns single markdown lines into inline HTML suitable for
// template substitution.
type InlineRenderer struct {
	Converter FragmentConverter
	Logger    *slog.Logger
}

// NewInlineRenderer creates an InlineRenderer. A nil logger discards output.
func NewInlineRenderer(conv FragmentConverter, logger *slog.Logger) *InlineRenderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InlineRenderer{Converter: conv, Logger: logger}
}

// Render converts one line. A conversion failure yields a Fallback outcome
// whose value is the original line; Render never returns Fatal.
func (r *InlineRenderer) Render(ctx context.Context, line string) Outcome[string] {
	out, err := r.Converter.Fragment(ctx, line)
	if err != nil {
		r.logger().Warn("inline rendering failed, using original text",
			"line", line,
			"error", err,
		)
		return FellBack(line, "conversion failed", err)
	}
	return Succeeded(UnwrapParagraph(out))
}

// RenderAll renders each line on its own, preserving order. It returns the
// rendered values and how many of them fell back to their original text.
func (r *InlineRenderer) RenderAll(ctx context.Context, lines []string) ([]string, int) {
	if len(lines) == 0 {
		return nil, 0
	}
	out := make([]string, 0, len(lines))
	fallbacks := 0
	for _, line := range lines {
		res := r.Render(ctx, line)
		if res.Kind != OK {
			fallbacks++
		}
		out = append(out, res.Value)
	}
	return out, fallbacks
}

func (r *InlineRenderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// UnwrapParagraph trims the HTML and strips the <p> wrapper when the whole
// output is exactly one paragraph.
func UnwrapParagraph(htmlFragment string) string {
	trimmed := strings.TrimSpace(htmlFragment)
	if strings.HasPrefix(trimmed, "<p>") &&
		strings.HasSuffix(trimmed, "</p>") &&
		strings.Count(trimmed, "<p>") == 1 {
		return trimmed[len("<p>") : len(trimmed)-len("</p>")]
	}
	return trimmed
}
