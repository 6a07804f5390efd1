package sections

import (
	"regexp"
	"strconv"
	"strings"
)

// Managed image URL prefixes. Images under any other URL are not staged.
const (
	APIImagePrefix  = "/api/images/"
	DataImagePrefix = "/data/images/"
)

// managedImagePattern matches ![alt](url) for managed URLs, followed by an
// optional {...} attribute block.
var managedImagePattern = regexp.MustCompile(
	`!\[([^\]]*)\]\(((?:` + regexp.QuoteMeta(APIImagePrefix) + `|` + regexp.QuoteMeta(DataImagePrefix) + `)[^)]+)\)(\{[^}]*\})?`,
)

var (
	xOffsetPattern = regexp.MustCompile(`\.x-offset=(-?\d+)`)
	yOffsetPattern = regexp.MustCompile(`\.y-offset=(-?\d+)`)
)

// ImageRef is one managed image construct found in a document.
type ImageRef struct {
	Alt   string
	URL   string
	ID    string
	Attrs string // attribute block including braces, empty if absent
	Link  string // ![alt](url)
	Full  string // Link plus Attrs
}

// Offsets holds the positioning attributes of an image.
type Offsets struct {
	X int
	Y int
}

// ManagedImages returns every managed image construct in document order.
func ManagedImages(markdown string) []ImageRef {
	matches := managedImagePattern.FindAllStringSubmatch(markdown, -1)
	refs := make([]ImageRef, 0, len(matches))
	for _, m := range matches {
		link := strings.TrimSuffix(m[0], m[3])
		refs = append(refs, ImageRef{
			Alt:   m[1],
			URL:   m[2],
			ID:    ImageID(m[2]),
			Attrs: m[3],
			Link:  link,
			Full:  m[0],
		})
	}
	return refs
}

// ImageID returns the last path segment of an image URL.
func ImageID(url string) string {
	if idx := strings.LastIndex(url, "/"); idx != -1 {
		return url[idx+1:]
	}
	return url
}

// ParseOffsets reads .x-offset and .y-offset from an attribute block.
// Missing or malformed values are 0.
func ParseOffsets(attrs string) Offsets {
	var o Offsets
	if attrs == "" {
		return o
	}
	o.X = matchInt(xOffsetPattern, attrs)
	o.Y = matchInt(yOffsetPattern, attrs)
	return o
}

func matchInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ExtractAttributes maps every managed image id to its offsets.
// A later construct for the same id overwrites an earlier one.
func ExtractAttributes(markdown string) map[string]Offsets {
	attrs := make(map[string]Offsets)
	for _, ref := range ManagedImages(markdown) {
		attrs[ref.ID] = ParseOffsets(ref.Attrs)
	}
	return attrs
}
