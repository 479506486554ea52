package media

import (
	"os/exec"

	"github.com/nguyentantai21042004/lessonreel/internal/config"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/pkg/executor"
)

type implTools struct {
	cfg      config.FFmpegConfig
	tailSize int
	executor executor.Executor
	logger   logger.Logger
	lookPath func(string) (string, error)
}

// New creates a new Tools instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Tools {
	return &implTools{
		cfg:      cfg.FFmpeg,
		tailSize: cfg.Render.StderrTailBytes,
		executor: exec,
		logger:   log,
		lookPath: lookPath,
	}
}

var lookPath = exec.LookPath
