// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-markcv/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForPandocMissing returns hints for a converter binary that cannot be started.
func ForPandocMissing(binary string) string {
	var hints []string

	if IsInContainer() {
		hints = append(hints, "install pandoc in the image (apt-get install pandoc)")
	} else {
		hints = append(hints, "install pandoc from https://pandoc.org/installing.html")
	}

	if os.Getenv("MARKCV_PANDOC") == "" && binary == "pandoc" {
		hints = append(hints, "set MARKCV_PANDOC to use a custom binary")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/markcv/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/markcv") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForTemplateNotFound returns hints when neither the requested nor the default
// template could be resolved.
func ForTemplateNotFound(templateDir string) string {
	return format("add a template.html under " + templateDir + "/europass")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
