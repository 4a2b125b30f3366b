package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/obentoo/dnfkit/internal/common/logger"
)

// Watch reloads the store whenever its file is written, created, renamed
// or removed, and then calls onChange. It returns once the watcher is
// installed; watching stops when ctx is done.
//
// The directory is watched rather than the file so that atomic replacement
// (write to temp, rename over) is seen.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create preferences watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.Close()
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go s.watchLoop(ctx, w, onChange)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, onChange func()) {
	defer w.Close()
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn("Failed to reload preferences: %v", err)
				continue
			}
			logger.Debug("Preferences reloaded from %s", s.path)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("Preferences watcher error: %v", err)
		}
	}
}
