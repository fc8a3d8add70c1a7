package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"stockledger/domain"
)

const (
	productsFile = "products.json"
	salesFile    = "sales.json"
)

// FileStore is a JSON file-backed implementation of domain.Storage.
// Products and sales live in two files under one directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// compile-time assertion
var _ domain.Storage = (*FileStore)(nil)

// NewFileStore constructs a FileStore rooted at dir. The directory is created
// on first save.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory required")
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("file store path %s is not a directory", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []domain.Product
	if err := s.readJSON(productsFile, &list); err != nil {
		return nil, err
	}
	slog.Debug("products loaded", "path", s.path(productsFile), "count", len(list))
	return list, nil
}

func (s *FileStore) SaveProducts(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	list := slices.Clone(products)
	// stable order for deterministic files
	slices.SortFunc(list, func(a, b domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	if list == nil {
		list = []domain.Product{}
	}
	return s.writeJSON(productsFile, list)
}

func (s *FileStore) LoadSales(ctx context.Context) ([]domain.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []domain.Sale
	if err := s.readJSON(salesFile, &list); err != nil {
		return nil, err
	}
	slog.Debug("sales loaded", "path", s.path(salesFile), "count", len(list))
	return list, nil
}

// SaveSales writes the ledger in the order given, which is creation order.
func (s *FileStore) SaveSales(ctx context.Context, sales []domain.Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return s.writeJSON(salesFile, sales)
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) readJSON(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", s.path(name), err)
	}
	return nil
}

func (s *FileStore) writeJSON(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	target := s.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}
	slog.Debug("snapshot written", "path", target, "bytes", len(b))
	return nil
}
