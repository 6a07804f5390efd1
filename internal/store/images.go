package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-markcv/internal/fileutil"
)

// MetadataFile is the image metadata list name. It lives next to the image
// directory, never inside it, so a static mount of the directory cannot
// serve it.
const MetadataFile = "images_metadata.json"

// createdAtLayout renders local time with microseconds and no zone.
const createdAtLayout = "2006-01-02T15:04:05.000000"

// Image is one uploaded image record.
type Image struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	AltText      string `json:"alt_text"`
	CreatedAt    string `json:"created_at"`
	XOffset      int    `json:"x_offset"`
	YOffset      int    `json:"y_offset"`
}

// Upload is an incoming image file.
type Upload struct {
	Filename    string
	ContentType string
	AltText     string
	Body        io.Reader
}

// ValidateImageID rejects ids that could escape the image directory.
func ValidateImageID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidImageID, id)
	}
	return nil
}

// imageExtension derives a safe lowercase extension for the stored file,
// preferring the uploaded name and falling back to the content subtype.
func imageExtension(filename, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			ext = strings.TrimPrefix(mediaType, "image/")
		}
	}
	ext = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, ext)
	if ext == "" {
		return "bin"
	}
	return ext
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s: %w", ErrImageNotFound, id, fs.ErrNotExist)
}

// FileImageStore keeps images in one directory with a JSON metadata list
// stored outside that directory.
type FileImageStore struct {
	dir      string
	metadata string
	mu       sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewFileImageStore creates a store rooted at dir with its metadata list at
// metadataPath. Empty metadataPath places MetadataFile in dir's parent.
// The directory is created on first upload.
func NewFileImageStore(dir, metadataPath string) *FileImageStore {
	if metadataPath == "" {
		metadataPath = filepath.Join(filepath.Dir(dir), MetadataFile)
	}
	return &FileImageStore{
		dir:      dir,
		metadata: metadataPath,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Dir returns the image directory.
func (s *FileImageStore) Dir() string {
	return s.dir
}

// MetadataPath returns the metadata list location.
func (s *FileImageStore) MetadataPath() string {
	return s.metadata
}

// Save stores an upload under a fresh id and appends its metadata record.
func (s *FileImageStore) Save(ctx context.Context, up Upload) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return Image{}, fmt.Errorf("%w: %q", ErrNotAnImage, up.ContentType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return Image{}, fmt.Errorf("creating image directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.metadata), 0o750); err != nil {
		return Image{}, fmt.Errorf("creating metadata directory: %w", err)
	}

	id := s.newID() + "." + imageExtension(up.Filename, up.ContentType)
	path := filepath.Join(s.dir, id)
	if err := fileutil.CopyFromReader(path, up.Body); err != nil {
		return Image{}, fmt.Errorf("storing image: %w", err)
	}

	img := Image{
		ID:           id,
		OriginalName: up.Filename,
		Path:         path,
		AltText:      up.AltText,
		CreatedAt:    s.now().Format(createdAtLayout),
	}

	images, err := s.load()
	if err != nil {
		_ = os.Remove(path)
		return Image{}, err
	}
	images = append(images, img)
	if err := s.persist(images); err != nil {
		_ = os.Remove(path)
		return Image{}, err
	}
	return img, nil
}

// List returns every metadata record in upload order.
func (s *FileImageStore) List(ctx context.Context) ([]Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Open returns the bytes of a stored image. The metadata list is not
// consulted: any file present under the id is served.
func (s *FileImageStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateImageID(id); err != nil {
		return nil, err
	}
	if id == MetadataFile {
		return nil, notFound(id)
	}

	f, err := os.Open(filepath.Join(s.dir, id)) // #nosec G304 -- id validated above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("opening image: %w", err)
	}
	return f, nil
}

// UpdatePosition records new offsets for an existing image.
func (s *FileImageStore) UpdatePosition(ctx context.Context, id string, x, y int) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	images, err := s.load()
	if err != nil {
		return Image{}, err
	}
	idx := slices.IndexFunc(images, func(img Image) bool { return img.ID == id })
	if idx == -1 {
		return Image{}, notFound(id)
	}
	images[idx].XOffset = x
	images[idx].YOffset = y
	if err := s.persist(images); err != nil {
		return Image{}, err
	}
	return images[idx], nil
}

// load reads the metadata list. A missing file is an empty list.
func (s *FileImageStore) load() ([]Image, error) {
	data, err := os.ReadFile(s.metadata)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Image{}, nil
		}
		return nil, fmt.Errorf("reading image metadata: %w", err)
	}

	var images []Image
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataCorrupt, err)
	}
	if images == nil {
		images = []Image{}
	}
	return images, nil
}

func (s *FileImageStore) persist(images []Image) error {
	data, err := json.MarshalIndent(images, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding image metadata: %w", err)
	}
	if err := fileutil.AtomicWriteFile(s.metadata, data, 0o644); err != nil {
		return fmt.Errorf("writing image metadata: %w", err)
	}
	return nil
}

// MemoryImageStore keeps images in memory.
type MemoryImageStore struct {
	mu     sync.Mutex
	images []Image
	data   map[string][]byte
	seq    int
}

// NewMemoryImageStore creates an empty in-memory store.
func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{data: make(map[string][]byte)}
}

// Put stores raw bytes under id without a metadata record, as if the file
// had been copied into the image directory by hand.
func (s *MemoryImageStore) Put(id string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = slices.Clone(data)
}

// Save stores an upload under a sequential id.
func (s *MemoryImageStore) Save(ctx context.Context, up Upload) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return Image{}, fmt.Errorf("%w: %q", ErrNotAnImage, up.ContentType)
	}

	data, err := io.ReadAll(up.Body)
	if err != nil {
		return Image{}, fmt.Errorf("storing image: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := fmt.Sprintf("img-%d.%s", s.seq, imageExtension(up.Filename, up.ContentType))
	img := Image{
		ID:           id,
		OriginalName: up.Filename,
		Path:         id,
		AltText:      up.AltText,
		CreatedAt:    time.Now().Format(createdAtLayout),
	}
	s.data[id] = data
	s.images = append(s.images, img)
	return img, nil
}

// List returns every record in upload order.
func (s *MemoryImageStore) List(ctx context.Context) ([]Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Image{}, s.images...), nil
}

// Open returns the bytes stored under id.
func (s *MemoryImageStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateImageID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.data[id]
	if !ok {
		return nil, notFound(id)
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

// UpdatePosition records new offsets for an existing image.
func (s *MemoryImageStore) UpdatePosition(ctx context.Context, id string, x, y int) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.images, func(img Image) bool { return img.ID == id })
	if idx == -1 {
		return Image{}, notFound(id)
	}
	s.images[idx].XOffset = x
	s.images[idx].YOffset = y
	return s.images[idx], nil
}
