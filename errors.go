package markcv

import (
	"errors"
	"fmt"

	"github.com/alnah/go-markcv/internal/assets"
	"github.com/alnah/go-markcv/internal/pipeline"
	"github.com/alnah/go-markcv/internal/store"
)

// Sentinel errors for render operations.
var (
	ErrNilDocumentStore = errors.New("document store cannot be nil")
	ErrNilImageStore    = errors.New("image store cannot be nil")

	// ErrDocumentRead indicates the résumé could not be loaded.
	ErrDocumentRead = errors.New("reading document failed")

	// ErrNoOutput indicates the converter exited cleanly without writing its output.
	ErrNoOutput = fmt.Errorf("%w: converter produced no output", pipeline.ErrConversion)

	// ErrStaging indicates the per-render staging directory could not be prepared.
	ErrStaging = pipeline.ErrStaging

	// ErrConversion matches every converter failure, ErrNoOutput included.
	ErrConversion = pipeline.ErrConversion

	// Template resolution causes, reported on Artifact.Template.Err.
	ErrTemplateNotFound  = assets.ErrTemplateNotFound
	ErrLayoutMissing     = assets.ErrLayoutMissing
	ErrInvalidTemplateID = assets.ErrInvalidTemplateID

	// Image store errors.
	ErrImageNotFound   = store.ErrImageNotFound
	ErrInvalidImageID  = store.ErrInvalidImageID
	ErrNotAnImage      = store.ErrNotAnImage
	ErrMetadataCorrupt = store.ErrMetadataCorrupt
)
