package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

// Options tune which files are picked up and how many handlers may be in flight.
type Options struct {
	Extensions []string
	MaxPending int
	Settle     time.Duration
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, opts Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxPending <= 0 {
		opts.MaxPending = 16
	}
	exts := make([]string, 0, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts = append(exts, strings.ToLower(e))
	}

	return &implWatcher{
		inputDir:   inputDir,
		handler:    handler,
		logger:     log,
		watcher:    watcher,
		extensions: exts,
		settle:     opts.Settle,
		maxPending: opts.MaxPending,
		semaphore:  make(chan struct{}, opts.MaxPending),
	}, nil
}
