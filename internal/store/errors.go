package store

import "errors"

// Sentinel errors for store operations.
var (
	// ErrImageNotFound indicates no stored image has the given id.
	ErrImageNotFound = errors.New("image not found")

	// ErrInvalidImageID indicates an id that could address a path outside the store.
	ErrInvalidImageID = errors.New("invalid image id")

	// ErrNotAnImage indicates an upload whose content type is not image/*.
	ErrNotAnImage = errors.New("only image files are allowed")

	// ErrMetadataCorrupt indicates the image metadata file could not be decoded.
	ErrMetadataCorrupt = errors.New("image metadata corrupt")
)
