// Package state persists reading positions across runs, keyed by a content
// hash so renamed or moved files keep their place.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	stateFileName = "positions.json"
	hashBytes     = 8192 // First 8KB for content hash
)

// Position is a saved reading location: a chapter and the token index the
// reader stopped on. The engine snaps the token index to the nearest word
// on restore, so stale indices never fail.
type Position struct {
	Chapter    int `json:"chapter"`
	TokenIndex int `json:"token_index"`
}

// Store manages persistent reading positions.
type Store struct {
	path string
	data map[string]Position
	mu   sync.RWMutex
}

// NewStore creates or loads the store from XDG_STATE_HOME/fovea/.
func NewStore() (*Store, error) {
	dir := stateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]Position),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]Position)
	}
	return store, nil
}

// stateDir returns XDG_STATE_HOME/fovea or ~/.local/state/fovea
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "fovea")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "fovea")
}

// ComputeHash generates a content hash for file identity.
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	return hashOf(buf[:n]), nil
}

// HashText hashes raw text the same way ComputeHash hashes a file, for
// stdin input with no filename.
func HashText(text string) string {
	if len(text) > hashBytes {
		text = text[:hashBytes]
	}
	return hashOf([]byte(text))
}

func hashOf(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16]) // First 16 bytes = 32 hex chars
}

// Position returns the saved position for a hash, with ok=false when none
// was saved.
func (s *Store) Position(hash string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[hash]
	return p, ok
}

// SetPosition saves a position.
func (s *Store) SetPosition(hash string, p Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[hash] = p
	return s.save()
}

// Clear removes the saved position for a hash.
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
	return os.WriteFile(s.path, data, 0644)
}
