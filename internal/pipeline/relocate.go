package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-markcv/internal/fileutil"
	"github.com/alnah/go-markcv/internal/sections"
)

// StagedImagesDir is the staging subdirectory holding relocated images.
const StagedImagesDir = "images"

// ImageOpener gives read access to stored images by id.
type ImageOpener interface {
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// Relocator copies managed images into a staging directory and rewrites
// their references to staging-relative paths.
type Relocator struct {
	Images ImageOpener
	Logger *slog.Logger
}

// NewRelocator creates a Relocator reading from images.
func NewRelocator(images ImageOpener, logger *slog.Logger) *Relocator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Relocator{Images: images, Logger: logger}
}

// Relocate stages every managed image that exists in the store and returns
// the markdown with those references rewritten to images/<id>. References to
// missing images are left untouched. The input string is not modified.
func (r *Relocator) Relocate(ctx context.Context, markdown, stagingDir string) (string, error) {
	refs := sections.ManagedImages(markdown)
	if len(refs) == 0 {
		return markdown, nil
	}

	staged := make(map[string]bool, len(refs))
	rewritten := markdown

	for _, ref := range refs {
		ok, seen := staged[ref.ID]
		if !seen {
			var err error
			ok, err = r.StageImage(ctx, ref.ID, stagingDir)
			if err != nil {
				return "", err
			}
			staged[ref.ID] = ok
		}
		if !ok {
			continue
		}

		target := "![" + ref.Alt + "](" + StagedImagesDir + "/" + ref.ID + ")"
		rewritten = strings.ReplaceAll(rewritten, ref.Link, target)
	}

	return rewritten, nil
}

// StageImage copies one stored image into <stagingDir>/images/<id>.
// It reports false without error when the image cannot be opened.
func (r *Relocator) StageImage(ctx context.Context, id, stagingDir string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return false, nil
	}

	src, err := r.Images.Open(ctx, id)
	if err != nil {
		r.logger().Warn("image not staged", "image_id", id, "error", err)
		return false, nil
	}
	defer src.Close()

	dir := filepath.Join(stagingDir, StagedImagesDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("%w: creating %s: %v", ErrStaging, dir, err)
	}

	if err := fileutil.CopyFromReader(filepath.Join(dir, id), src); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStaging, err)
	}

	return true, nil
}

func (r *Relocator) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
