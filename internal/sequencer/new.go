package sequencer

import (
	"errors"
	"sync"

	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("sequencer is closed")

type implSequencer struct {
	run    RunFunc
	logger logger.Logger

	mu      sync.Mutex
	queue   []*Handle
	closed  bool
	stats   Stats
	wake    chan struct{}
	started bool
}

// New creates a Sequencer that executes jobs with run.
func New(run RunFunc, log logger.Logger) Sequencer {
	return &implSequencer{
		run:    run,
		logger: log,
		wake:   make(chan struct{}, 1),
	}
}
