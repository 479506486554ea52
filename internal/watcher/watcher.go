package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

type implWatcher struct {
	inputDir   string
	handler    EventHandler
	logger     logger.Logger
	watcher    *fsnotify.Watcher
	extensions []string
	settle     time.Duration
	maxPending int
	semaphore  chan struct{}
	wg         sync.WaitGroup
}

// Start dispatches files already in the directory, then every newly created one.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max pending: %d). Monitoring: %s", w.maxPending, w.inputDir)

	if err := w.dispatchExisting(ctx); err != nil {
		w.logger.Warn(ctx, "Failed to scan %s: %v", w.inputDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for pending handlers to return...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.matches(event.Name) {
				w.logger.Debug(ctx, "Ignoring file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New request detected: %s", event.Name)
			if err := w.dispatch(ctx, event.Name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) dispatchExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && w.matches(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		w.logger.Info(ctx, "Pending request found: %s", name)
		if err := w.dispatch(ctx, filepath.Join(w.inputDir, name)); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler in its own goroutine once a slot is free.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	// Give the writer a moment to finish the file
	if w.settle > 0 {
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func(filePath string) {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		if err := w.handler(ctx, filePath); err != nil {
			w.logger.Error(ctx, "Failed to handle %s: %v", filePath, err)
		}
	}(path)
	return nil
}

// matches checks the file extension, skipping hidden and partial files.
func (w *implWatcher) matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(base)))
}
