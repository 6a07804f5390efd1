package assets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-markcv/internal/fileutil"
	"github.com/alnah/go-markcv/internal/pipeline"
	"github.com/alnah/go-markcv/internal/yamlutil"
)

// Catalog reads templates from a template directory and stylesheets from a
// theme directory. Templates are provisioned out-of-band; the catalog never
// writes.
type Catalog struct {
	templateDir string
	themeDir    string
	logger      *slog.Logger
}

// NewCatalog creates a Catalog. Neither directory has to exist.
func NewCatalog(templateDir, themeDir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{templateDir: templateDir, themeDir: themeDir, logger: logger}
}

// TemplateDir returns the template root.
func (c *Catalog) TemplateDir() string {
	return c.templateDir
}

// Resolution is the result of resolving a template id.
type Resolution struct {
	pipeline.Outcome[Descriptor]
	Requested string
}

// Resolve maps a template id to a usable template, falling back to
// DefaultTemplateID when the requested one is invalid, missing, or has no
// layout file.
func (c *Catalog) Resolve(id string) Resolution {
	res := Resolution{Requested: id}

	desc, err := c.load(id)
	if err == nil {
		res.Outcome = pipeline.Succeeded(desc)
		return res
	}

	if id != DefaultTemplateID {
		c.logger.Warn("template unusable, using default",
			"template_id", id,
			"default", DefaultTemplateID,
			"error", err,
		)

		fallback, fbErr := c.load(DefaultTemplateID)
		if fbErr == nil {
			res.Outcome = pipeline.FellBack(fallback, err.Error(), err)
			return res
		}
		err = fbErr
	}

	c.logger.Warn("default template unusable", "template_id", DefaultTemplateID, "error", err)
	// Fatal always matches ErrTemplateNotFound; the underlying cause is kept.
	if !errors.Is(err, ErrTemplateNotFound) {
		err = fmt.Errorf("%w: %w", ErrTemplateNotFound, err)
	}
	res.Outcome = pipeline.Failed[Descriptor]("no usable template", err)
	return res
}

// load verifies one template directory and builds its descriptor.
func (c *Catalog) load(id string) (Descriptor, error) {
	if err := ValidateTemplateID(id); err != nil {
		return Descriptor{}, err
	}

	dir := filepath.Join(c.templateDir, id)
	if !fileutil.DirExists(dir) {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}

	layout := filepath.Join(dir, LayoutFile)
	if !fileutil.FileExists(layout) {
		return Descriptor{}, fmt.Errorf("%w: %q has no %s", ErrLayoutMissing, id, LayoutFile)
	}

	desc, err := readMetadata(dir)
	if err != nil {
		// Metadata is display-only; a broken file does not block rendering.
		c.logger.Warn("ignoring template metadata", "template_id", id, "error", err)
		desc = Descriptor{}
	}
	desc.ID = id
	if desc.Name == "" {
		desc.Name = id
	}
	desc.LayoutPath = layout
	desc.StylesheetPath = c.StylesheetPath(id)

	return desc, nil
}

// StylesheetPath returns the theme stylesheet location for a template id.
func (c *Catalog) StylesheetPath(id string) string {
	return filepath.Join(c.themeDir, id+".css")
}

// List enumerates templates that carry a metadata file, sorted by directory
// name. When none qualifies, it returns BuiltinDescriptor alone.
func (c *Catalog) List() []Descriptor {
	entries, err := os.ReadDir(c.templateDir)
	if err != nil {
		c.logger.Warn("cannot read template directory", "dir", c.templateDir, "error", err)
		return []Descriptor{BuiltinDescriptor()}
	}

	var out []Descriptor
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(c.templateDir, entry.Name())
		if !fileutil.FileExists(filepath.Join(dir, MetadataFile)) {
			continue
		}

		desc, err := readMetadata(dir)
		if err != nil {
			c.logger.Error("error reading template metadata", "dir", dir, "error", err)
			continue
		}
		if desc.ID == "" {
			desc.ID = entry.Name()
		}
		if layout := filepath.Join(dir, LayoutFile); fileutil.FileExists(layout) {
			desc.LayoutPath = layout
		}
		desc.StylesheetPath = c.StylesheetPath(entry.Name())
		out = append(out, desc)
	}

	if len(out) == 0 {
		return []Descriptor{BuiltinDescriptor()}
	}
	return out
}

// readMetadata decodes {dir}/metadata.json. JSON is valid YAML, so the YAML
// decoder also accepts hand-written YAML metadata.
func readMetadata(dir string) (Descriptor, error) {
	var desc Descriptor

	path := filepath.Join(dir, MetadataFile)
	data, err := os.ReadFile(path) // #nosec G304 -- dir built from a validated id or ReadDir entry
	if err != nil {
		if os.IsNotExist(err) {
			return desc, nil
		}
		return desc, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yamlutil.Unmarshal(data, &desc); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %s: %v", ErrMetadataParse, path, err)
	}
	return desc, nil
}
