// Package storageutils selects and constructs the configured storage.Driver.
package storageutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	sqliteEnv = "REHEARSE_SQLITE"

	defaultDBName = "rehearse.db"
)

// ResolveSQLitePath returns the SQLite database to use. An override wins,
// then REHEARSE_SQLITE, then the first existing well-known database file.
// When none exists the database is created in dotDir.
func ResolveSQLitePath(override, dotDir string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv(sqliteEnv)); envPath != "" {
		return envPath, nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if dotDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dotDir = filepath.Join(home, ".rehearse")
	}
	if err := os.MkdirAll(dotDir, 0o700); err != nil {
		return "", err
	}

	return filepath.Join(dotDir, defaultDBName), nil
}

func sqliteCandidates() []string {
	candidates := []string{
		defaultDBName,
		filepath.Join(".rehearse", defaultDBName),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".rehearse", defaultDBName))
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append([]string{filepath.Join(xdgHome, "rehearse", defaultDBName)}, candidates...)
	}

	return candidates
}
