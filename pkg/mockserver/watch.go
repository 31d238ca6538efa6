package mockserver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// BankWatcher reloads a Bank whenever its file changes on disk.
type BankWatcher struct {
	bank    *Bank
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewBankWatcher starts watching the bank file at path. The parent directory
// is watched so editors that replace the file on save are picked up.
func NewBankWatcher(bank *Bank, path string, logger *slog.Logger) (*BankWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving bank path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating bank watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &BankWatcher{bank: bank, path: abs, watcher: w, logger: logger}, nil
}

// Run reloads the bank on every change until ctx is done.
func (bw *BankWatcher) Run(ctx context.Context) {
	defer bw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-bw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != bw.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := bw.bank.Reload(bw.path); err != nil {
				bw.logger.Warn("keeping previous question bank", "path", bw.path, "error", err)
				continue
			}
			bw.logger.Info("question bank reloaded", "path", bw.path, "questions", bw.bank.Len())

		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return
			}
			bw.logger.Warn("question bank watcher error", "error", err)
		}
	}
}
