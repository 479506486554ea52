package intake

import (
	"path/filepath"

	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/internal/sequencer"
	"github.com/nguyentantai21042004/lessonreel/internal/storage"
)

const processingDir = "processing"

type implIntake struct {
	inbox      string
	processing string
	sequencer  sequencer.Sequencer
	store      *storage.FileStore
	logger     logger.Logger
}

// New creates an Intake reading from inbox.
func New(inbox string, seq sequencer.Sequencer, store *storage.FileStore, log logger.Logger) Intake {
	return &implIntake{
		inbox:      inbox,
		processing: filepath.Join(inbox, processingDir),
		sequencer:  seq,
		store:      store,
		logger:     log,
	}
}
