// Package platform provides the "platform ready" signal that starts the
// startup sequence.
package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/log"
)

// Immediate is a platform that is ready as soon as it is asked.
type Immediate struct{}

// Wait returns at once unless ctx is already done.
func (Immediate) Wait(ctx context.Context) error {
	return ctx.Err()
}

// FileSignal waits for the native host to create a sentinel file, such as
// "deviceready", before the sequence runs.
type FileSignal struct {
	path   string
	logger log.Logger
}

// NewFileSignal creates a signal for the sentinel file at path.
func NewFileSignal(path string, logger log.Logger) *FileSignal {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &FileSignal{path: path, logger: logger}
}

// Wait returns once the sentinel file exists or ctx is done.
func (f *FileSignal) Wait(ctx context.Context) error {
	if exists(f.path) {
		return nil
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create ready directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// The file may have appeared before the watch was in place.
	if exists(f.path) {
		return nil
	}

	f.logger.Info("waiting for platform ready", log.String("path", f.path))
	want := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Clean(event.Name) != want {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			f.logger.Info("platform ready", log.String("path", f.path))
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			f.logger.Warn("ready watcher error", log.Err(err))
		}
	}
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

var (
	_ ports.PlatformReady = Immediate{}
	_ ports.PlatformReady = (*FileSignal)(nil)
)
