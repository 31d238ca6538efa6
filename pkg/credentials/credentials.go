// Package credentials stores the interview backend session token.
//
// The token is process-wide state: it is written once by "rehearse login"
// and read by every command that talks to the backend. Consumers depend on
// the TokenSource interface rather than on the file so the streaming client
// can be exercised without a real credentials store.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/rehearse/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// TokenSource yields the credential attached to backend requests. An empty
// token with a nil error means the user is not logged in.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Manager manages reading and writing credentials.toml in the .rehearse/ directory.
type Manager struct {
	ddm        *dotdir.Manager
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the .rehearse/ directory; otherwise the standard dotdir resolution applies.
func NewManager(override string) (*Manager, error) {
	mgr := &Manager{}
	mgr.ddm = dotdir.NewManager()

	target, err := mgr.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	mgr.targetPath = filepath.Join(target, credentialsFile)

	return mgr, nil
}

// Load reads credentials.toml from the target directory.
// Returns empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{Version: currentVersion}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetSession stores the token returned by a successful login.
func (m *Manager) SetSession(session SessionCredential) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Session = session

	return m.Save(creds)
}

// Token implements TokenSource. Placeholder values left behind by older
// clients ("null", "undefined") are treated as no token.
func (m *Manager) Token() (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}

	switch creds.Session.Token {
	case "null", "undefined":
		return "", nil
	default:
		return creds.Session.Token, nil
	}
}

// Clear removes the stored session. The credentials file is kept.
func (m *Manager) Clear() error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Session = SessionCredential{}

	return m.Save(creds)
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}
