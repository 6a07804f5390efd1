package markcv_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-markcv"
)

// Notes:
// - These tests live outside the package and import nothing else from the
//   module: a caller must be able to implement every collaborator and wire a
//   Service from the root package alone.

// mapImageStore is a caller-defined image store.
type mapImageStore struct {
	mu     sync.Mutex
	images []markcv.Image
	data   map[string]string
}

var _ markcv.ImageStore = (*mapImageStore)(nil)

func (s *mapImageStore) Save(ctx context.Context, up markcv.Upload) (markcv.Image, error) {
	body, err := io.ReadAll(up.Body)
	if err != nil {
		return markcv.Image{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	img := markcv.Image{ID: up.Filename, OriginalName: up.Filename, AltText: up.AltText}
	s.images = append(s.images, img)
	s.data[img.ID] = string(body)
	return img, nil
}

func (s *mapImageStore) List(ctx context.Context) ([]markcv.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]markcv.Image{}, s.images...), nil
}

func (s *mapImageStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.data[id]
	if !ok {
		return nil, markcv.ErrImageNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (s *mapImageStore) UpdatePosition(ctx context.Context, id string, x, y int) (markcv.Image, error) {
	return markcv.Image{}, markcv.ErrImageNotFound
}

// recordingConverter keeps the last job and writes a fixed page.
type recordingConverter struct {
	job markcv.ConvertJob
}

func (c *recordingConverter) Convert(ctx context.Context, job markcv.ConvertJob) error {
	c.job = job
	return os.WriteFile(job.Output, []byte("<html><body>cv</body></html>"), 0o600)
}

func (c *recordingConverter) Fragment(ctx context.Context, markdown string) (string, error) {
	return "<span>" + markdown + "</span>", nil
}

// ---------------------------------------------------------------------------
// TestRootAPI_CallerCollaborators - Wiring from the root package only
// ---------------------------------------------------------------------------

func TestRootAPI_CallerCollaborators(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	templateDir := filepath.Join(root, "cv_templates")
	if err := os.MkdirAll(filepath.Join(templateDir, "europass"), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(templateDir, "europass", "template.html"), []byte("$body$"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	images := &mapImageStore{data: map[string]string{}}
	if _, err := images.Save(context.Background(), markcv.Upload{
		Filename:    "me.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png"),
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	conv := &recordingConverter{}
	svc, err := markcv.NewService(markcv.NewMemoryDocumentStore("# Jane\n![me](/api/images/me.png)\nmail\n"), images,
		markcv.WithCatalog(markcv.NewCatalog(templateDir, filepath.Join(root, "themes"), nil)),
		markcv.WithDocumentConverter(conv),
		markcv.WithStagingRoot(root),
	)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	art, err := svc.Render(context.Background(), markcv.RenderRequest{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if art.Template.Kind != markcv.OutcomeOK {
		t.Errorf("Template.Kind = %v, want ok", art.Template.Kind)
	}
	var desc markcv.TemplateDescriptor = art.Template.Value
	if desc.ID != "europass" {
		t.Errorf("template id = %q, want europass", desc.ID)
	}
	if got := art.Variables.Values(markcv.VarFirstImage); len(got) != 1 || got[0] != "images/me.png" {
		t.Errorf("first_image = %q, want [images/me.png]", got)
	}
	if got := art.Variables.Values(markcv.VarContactInfo); len(got) != 1 || got[0] != "<span>mail</span>" {
		t.Errorf("contact_info = %q, want [<span>mail</span>]", got)
	}
	if conv.job.Variables != art.Variables {
		t.Error("artifact variables differ from the job passed to the converter")
	}
}

// ---------------------------------------------------------------------------
// TestRootAPI_Errors - Sentinels are reachable without internal imports
// ---------------------------------------------------------------------------

func TestRootAPI_Errors(t *testing.T) {
	t.Parallel()

	t.Run("fatal resolution matches template not found", func(t *testing.T) {
		t.Parallel()
		res := markcv.NewCatalog(t.TempDir(), "", nil).Resolve("europass")
		if res.Kind != markcv.OutcomeFatal {
			t.Fatalf("Kind = %v, want fatal", res.Kind)
		}
		if !errors.Is(res.Err, markcv.ErrTemplateNotFound) {
			t.Errorf("Err = %v, want ErrTemplateNotFound", res.Err)
		}
	})

	t.Run("converter failure", func(t *testing.T) {
		t.Parallel()
		failing := convFunc(func(ctx context.Context, job markcv.ConvertJob) error {
			return &markcv.ConversionError{Stderr: "boom", Err: errors.New("exit status 1")}
		})
		svc, err := markcv.NewService(markcv.NewMemoryDocumentStore("# Jane"), markcv.NewMemoryImageStore(),
			markcv.WithCatalog(markcv.NewCatalog(t.TempDir(), "", nil)),
			markcv.WithDocumentConverter(failing),
			markcv.WithInlineRenderer(markcv.NewGoldmarkConverter()),
		)
		if err != nil {
			t.Fatalf("NewService() error = %v", err)
		}

		_, err = svc.Render(context.Background(), markcv.RenderRequest{})
		var convErr *markcv.ConversionError
		if !errors.As(err, &convErr) || !errors.Is(err, markcv.ErrConversion) {
			t.Errorf("error = %v, want *ConversionError matching ErrConversion", err)
		}
	})

	t.Run("file image store", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		images := markcv.NewFileImageStore(filepath.Join(dir, "images"), "")
		_, err := images.Open(context.Background(), "missing.png")
		if !errors.Is(err, markcv.ErrImageNotFound) {
			t.Errorf("Open() error = %v, want ErrImageNotFound", err)
		}
		if images.MetadataPath() != filepath.Join(dir, "images_metadata.json") {
			t.Errorf("MetadataPath() = %q", images.MetadataPath())
		}
	})
}

type convFunc func(ctx context.Context, job markcv.ConvertJob) error

func (f convFunc) Convert(ctx context.Context, job markcv.ConvertJob) error {
	return f(ctx, job)
}
