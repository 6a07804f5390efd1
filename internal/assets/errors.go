package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrTemplateNotFound indicates the template directory does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutMissing indicates the template directory has no layout file.
	ErrLayoutMissing = errors.New("template missing layout file")

	// ErrInvalidTemplateID indicates the template id contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidTemplateID = errors.New("invalid template id")

	// ErrMetadataParse indicates a template's metadata file could not be decoded.
	ErrMetadataParse = errors.New("invalid template metadata")
)
