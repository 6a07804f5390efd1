package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-markcv/internal/fileutil"
)

// DefaultDocument seeds a missing résumé.
const DefaultDocument = "# Your CV\n\nStart editing your CV here!"

// FileDocumentStore keeps the résumé in a single markdown file.
type FileDocumentStore struct {
	path string
}

// NewFileDocumentStore creates a store backed by path. The file is created
// on first read when missing.
func NewFileDocumentStore(path string) *FileDocumentStore {
	return &FileDocumentStore{path: path}
}

// Path returns the backing file location.
func (s *FileDocumentStore) Path() string {
	return s.path
}

// Read returns the whole document. A missing file is seeded with
// DefaultDocument, which is persisted and returned.
func (s *FileDocumentStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading document: %w", err)
	}

	if err := s.Write(ctx, DefaultDocument); err != nil {
		return "", fmt.Errorf("seeding document: %w", err)
	}
	return DefaultDocument, nil
}

// Write replaces the whole document atomically.
func (s *FileDocumentStore) Write(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}
	if err := fileutil.AtomicWriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// MemoryDocumentStore keeps the document in memory.
type MemoryDocumentStore struct {
	mu      sync.RWMutex
	content *string
	ReadErr error // returned by Read when set
}

// NewMemoryDocumentStore creates a store holding content.
func NewMemoryDocumentStore(content string) *MemoryDocumentStore {
	return &MemoryDocumentStore{content: &content}
}

// Read returns the document, seeding DefaultDocument when none was set.
func (s *MemoryDocumentStore) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return "", s.ReadErr
	}
	if s.content == nil {
		seed := DefaultDocument
		s.content = &seed
	}
	return *s.content, nil
}

// Write replaces the document.
func (s *MemoryDocumentStore) Write(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = &content
	return nil
}
