// Package state remembers where browsing of each source file stopped.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileName = "browse_state.json"

// Entry is the saved browsing state of one source file.
type Entry struct {
	ChapterID string    `json:"chapter_id"`
	Title     string    `json:"title,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store manages persistent browsing state keyed by source content hash.
type Store struct {
	path string
	data map[string]Entry
	mu   sync.RWMutex
}

// Open creates or loads the store under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	s := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]Entry),
	}
	if err := s.load(); err != nil {
		// unreadable state starts empty
		s.data = make(map[string]Entry)
	}
	return s, nil
}

// Path is the backing file of the store.
func (s *Store) Path() string { return s.path }

// ComputeHash identifies a source file by its content, so renamed or moved
// copies share state.
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)[:16]), nil
}

// GetChapter returns the last viewed chapter id for hash, or "".
func (s *Store) GetChapter(hash string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[hash].ChapterID
}

// SetChapter records the chapter being viewed.
func (s *Store) SetChapter(hash, chapterID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[hash] = Entry{ChapterID: chapterID, Title: title, UpdatedAt: time.Now().UTC()}
	return s.save()
}

// Clear removes saved state for hash.
func (s *Store) Clear(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, hash)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
