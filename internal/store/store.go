// Package store persists promoted information records and audit logs on
// disk. Records are one JSON file per information id, so re-running a
// document overwrites restatements of the same fact instead of
// duplicating them. Audit logs append as JSON lines per document.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/factline/factline/internal/model"
)

// Store is a directory-backed record store
type Store struct {
	root string
}

// Open creates the store layout under root (information/ and log/)
func Open(root string) (*Store, error) {
	for _, dir := range []string{
		filepath.Join(root, "information"),
		filepath.Join(root, "log"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &Store{root: root}, nil
}

// Root returns the store's base directory
func (s *Store) Root() string {
	return s.root
}

// SaveInformation writes each record to information/<id>.json. Writing an
// existing id replaces the file, which is how fingerprint-equal
// restatements merge.
func (s *Store) SaveInformation(records []model.Information) error {
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("information record without id")
		}
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", rec.ID, err)
		}
		path := filepath.Join(s.root, "information", sanitize(rec.ID)+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// LoadInformation reads a single record by id
func (s *Store) LoadInformation(id string) (*model.Information, error) {
	path := filepath.Join(s.root, "information", sanitize(id)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rec model.Information
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &rec, nil
}

// ListInformation returns all stored record ids in sorted order
func (s *Store) ListInformation() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "information"))
	if err != nil {
		return nil, fmt.Errorf("list information: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// AppendLog appends the entries to log/<documentID>.jsonl
func (s *Store) AppendLog(documentID string, entries []model.AssertionLogEntry) error {
	if documentID == "" {
		documentID = "unknown"
	}
	path := filepath.Join(s.root, "log", sanitize(documentID)+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal log entry %s: %w", e.ID, err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("append log entry: %w", err)
		}
	}
	return nil
}

// sanitize keeps ids filesystem-safe
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
