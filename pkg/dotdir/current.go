package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	currentFile = "current.json"
)

// CurrentSession is the persisted pointer to the interview session the user
// is working through.
type CurrentSession struct {
	SessionID  int64     `json:"session_id"`
	Title      string    `json:"title,omitempty"`
	SelectedAt time.Time `json:"selected_at"`
}

// LoadCurrent loads .rehearse/current.json.
// Returns nil, nil if no session has been selected.
func (m *Manager) LoadCurrent(overrideDir string) (*CurrentSession, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, currentFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading current session: %w", err)
	}

	current := &CurrentSession{}
	if err := json.Unmarshal(data, current); err != nil {
		return nil, fmt.Errorf("parsing current session: %w", err)
	}

	return current, nil
}

// SaveCurrent persists the selected session to .rehearse/current.json.
func (m *Manager) SaveCurrent(current *CurrentSession, overrideDir string) error {
	if current == nil {
		return errors.New("cannot save nil current session")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling current session: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, currentFile), data, 0o600); err != nil {
		return fmt.Errorf("writing current session: %w", err)
	}

	return nil
}

// ClearCurrent removes the current session pointer.
// Returns nil if nothing was selected.
func (m *Manager) ClearCurrent(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, currentFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing current session: %w", err)
	}

	return nil
}
