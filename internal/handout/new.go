package handout

import (
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

type implWriter struct {
	logger logger.Logger
}

// New creates a Writer that produces .docx handouts.
func New(log logger.Logger) Writer {
	return &implWriter{logger: log}
}
