// Package blob stores prontuario attachments under slash-separated keys.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrInvalidPath = errors.New("invalid blob path")

// Store uploads attachment content.
type Store interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) error
}

// cleanPath rejects absolute paths and parent traversal.
func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidPath
		}
	}
	return p, nil
}

// FSStore writes blobs under a root directory.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	p, err := cleanPath(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create blob dir: %w", err)
	}
	// Existing objects are never overwritten.
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return f.Close()
}

// MemoryStore keeps blobs in memory; used in demo mode and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	p, err := cleanPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[p]; ok {
		return fmt.Errorf("blob %s already exists", p)
	}
	s.objects[p] = buf.Bytes()
	return nil
}

// Get returns a stored blob.
func (s *MemoryStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[path]
	return b, ok
}
