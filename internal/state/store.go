package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/danieljhkim/spritedev/internal/fsops"
)

// SessionState is the persisted CLI session.
type SessionState struct {
	// ActiveDocument is the absolute path of the document in use
	ActiveDocument string `json:"activeDocument"`

	// UpdatedAt is when the active document was last chosen
	UpdatedAt time.Time `json:"updatedAt"`
}

// StateStore provides an interface for persisting session state.
type StateStore interface {
	// LoadSession loads the session state.
	// Returns os.ErrNotExist if no session has been saved.
	LoadSession() (*SessionState, error)

	// SaveSession saves the session state atomically.
	SaveSession(state *SessionState) error

	// ClearSession deletes the session state file.
	ClearSession() error
}

// FileStateStore implements StateStore using a JSON file on disk.
type FileStateStore struct {
	fs   fsops.FS
	path string
}

// NewFileStateStore creates a new FileStateStore writing to path.
func NewFileStateStore(fs fsops.FS, path string) *FileStateStore {
	return &FileStateStore{
		fs:   fs,
		path: path,
	}
}

// LoadSession loads the session state.
func (s *FileStateStore) LoadSession() (*SessionState, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return &state, nil
}

// SaveSession saves the session state atomically.
func (s *FileStateStore) SaveSession(state *SessionState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	return nil
}

// ClearSession deletes the session state file.
func (s *FileStateStore) ClearSession() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}
