package assets

// DefaultTemplateID is the template used when the requested one is unusable.
const DefaultTemplateID = "europass"

// File names inside a template directory.
const (
	LayoutFile   = "template.html"
	MetadataFile = "metadata.json"
)

// Descriptor identifies a selectable résumé layout.
type Descriptor struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	PaperSizes       []string `json:"paperSizes" yaml:"paperSizes"`
	RecommendedFonts []string `json:"recommendedFonts" yaml:"recommendedFonts"`

	LayoutPath     string `json:"-" yaml:"-"`
	StylesheetPath string `json:"-" yaml:"-"`
}

// BuiltinDescriptor is listed when no template directory provides metadata,
// so the catalog is never empty.
func BuiltinDescriptor() Descriptor {
	return Descriptor{
		ID:               "default",
		Name:             "Default",
		Description:      "Default CV template",
		PaperSizes:       []string{"a4", "letter"},
		RecommendedFonts: []string{"DejaVu Sans", "Helvetica", "Arial"},
	}
}
