// Package history persists the purchase history as a single JSON document:
//
//	{"purchases": [{"item": "milk", "date": "2026-10-14"}, ...]}
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shopvox/internal/shop"
)

type document struct {
	Purchases []shop.Purchase `json:"purchases"`
}

var _ shop.HistoryStore = (*FileStore)(nil)

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load returns the stored history. A missing or empty file is an empty
// history.
func (s *FileStore) Load(_ context.Context) ([]shop.Purchase, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("history: read: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("history: decode %s: %w", s.path, err)
	}
	return doc.Purchases, nil
}

// Save replaces the stored history. The document is written to a temporary
// file in the same directory and renamed over the target.
func (s *FileStore) Save(_ context.Context, history []shop.Purchase) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("history: create dir: %w", err)
	}

	if history == nil {
		history = []shop.Purchase{}
	}
	data, err := json.Marshal(document{Purchases: history})
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("history: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("history: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("history: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("history: close: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("history: rename: %w", err)
	}
	return nil
}
