package markcv

import (
	"log/slog"

	"github.com/alnah/go-markcv/internal/assets"
	"github.com/alnah/go-markcv/internal/pipeline"
	"github.com/alnah/go-markcv/internal/store"
)

// Collaborator types. They are aliases, so values built here and values
// built by the command's own wiring are interchangeable.
type (
	// Image is one uploaded image record.
	Image = store.Image
	// Upload is an incoming image file.
	Upload = store.Upload

	// FileDocumentStore keeps the résumé in a single file.
	FileDocumentStore = store.FileDocumentStore
	// MemoryDocumentStore keeps the résumé in memory.
	MemoryDocumentStore = store.MemoryDocumentStore
	// FileImageStore keeps images in a directory with a JSON metadata list.
	FileImageStore = store.FileImageStore
	// MemoryImageStore keeps images in memory.
	MemoryImageStore = store.MemoryImageStore

	// Catalog resolves template ids against a template and a theme directory.
	Catalog = assets.Catalog
	// TemplateDescriptor describes one installed layout.
	TemplateDescriptor = assets.Descriptor
	// TemplateResolution is the tagged result of resolving a template id.
	TemplateResolution = assets.Resolution
	// OutcomeKind tells which path a fallible step took.
	OutcomeKind = pipeline.OutcomeKind

	// ConvertJob describes one full-document conversion.
	ConvertJob = pipeline.ConvertJob
	// DocumentConverter renders a staged markdown file into an HTML file.
	DocumentConverter = pipeline.DocumentConverter
	// FragmentConverter renders one markdown line into an HTML fragment.
	FragmentConverter = pipeline.FragmentConverter
	// CommandRunner runs the converter executable.
	CommandRunner = pipeline.CommandRunner
	// PandocConverter drives the pandoc CLI.
	PandocConverter = pipeline.PandocConverter
	// GoldmarkConverter renders fragments in process.
	GoldmarkConverter = pipeline.GoldmarkConverter
	// ConversionError carries the converter's diagnostic output.
	ConversionError = pipeline.ConversionError

	// Variable is one name=value pair passed to the converter.
	Variable = pipeline.Variable
	// Variables is the ordered multi-map of template variables.
	Variables = pipeline.Variables
)

// Outcome kinds reported on Artifact.Template.
const (
	OutcomeOK       = pipeline.OK
	OutcomeFallback = pipeline.Fallback
	OutcomeFatal    = pipeline.Fatal
)

// Template variable names set on the template path.
const (
	VarPaperSize    = pipeline.VarPaperSize
	VarThemeColor   = pipeline.VarThemeColor
	VarFirstImage   = pipeline.VarFirstImage
	VarImageXOffset = pipeline.VarImageXOffset
	VarImageYOffset = pipeline.VarImageYOffset
	VarContactInfo  = pipeline.VarContactInfo
	VarSkills       = pipeline.VarSkills
	VarLanguages    = pipeline.VarLanguages
)

// NewFileDocumentStore returns a document store backed by the file at path.
func NewFileDocumentStore(path string) *FileDocumentStore {
	return store.NewFileDocumentStore(path)
}

// NewMemoryDocumentStore returns a document store holding content.
func NewMemoryDocumentStore(content string) *MemoryDocumentStore {
	return store.NewMemoryDocumentStore(content)
}

// NewFileImageStore returns an image store rooted at dir. Empty metadataPath
// keeps the metadata list beside dir, in its parent.
func NewFileImageStore(dir, metadataPath string) *FileImageStore {
	return store.NewFileImageStore(dir, metadataPath)
}

// NewMemoryImageStore returns an empty in-memory image store.
func NewMemoryImageStore() *MemoryImageStore {
	return store.NewMemoryImageStore()
}

// NewCatalog returns a catalog over templateDir and themeDir. A nil logger
// discards warnings.
func NewCatalog(templateDir, themeDir string, logger *slog.Logger) *Catalog {
	return assets.NewCatalog(templateDir, themeDir, logger)
}

// NewPandocConverter returns a converter that runs binary, or pandoc from
// PATH when binary is empty.
func NewPandocConverter(binary string) *PandocConverter {
	return pipeline.NewPandocConverter(binary)
}

// NewGoldmarkConverter returns an in-process fragment converter.
func NewGoldmarkConverter() *GoldmarkConverter {
	return pipeline.NewGoldmarkConverter()
}
