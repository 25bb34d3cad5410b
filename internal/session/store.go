package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore keeps the session identifier in a small JSON file.
type FileStore struct {
	path string
}

type storedSession struct {
	UserID uuid.UUID `json:"user_id"`
}

// NewFileStore returns a Store backed by the file at path. The file and its
// directory are created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the identifier. A missing file is not an error.
func (s *FileStore) Load() (uuid.UUID, bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("session.FileStore.Load: %w", err)
	}
	var st storedSession
	if err := json.Unmarshal(raw, &st); err != nil {
		return uuid.Nil, false, fmt.Errorf("session.FileStore.Load: %w", err)
	}
	if st.UserID == uuid.Nil {
		return uuid.Nil, false, nil
	}
	return st.UserID, true, nil
}

// Save writes the identifier through a temp file and rename, so a crash
// never leaves a half-written session behind.
func (s *FileStore) Save(id uuid.UUID) error {
	raw, err := json.Marshal(storedSession{UserID: id})
	if err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session.FileStore.Save: %w", err)
	}
	return nil
}

// Clear removes the stored identifier. Clearing an empty store is a no-op.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session.FileStore.Clear: %w", err)
	}
	return nil
}
