package pipeline

import (
	"context"
	"fmt"
	"os"
)

// createWorkDir makes an isolated scratch directory for one job.
func (p *implPipeline) createWorkDir(jobID string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return "", fmt.Errorf("create temp root: %w", err)
	}
	dir, err := os.MkdirTemp(p.cfg.Paths.Temp, "job-"+jobID+"-*")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	return dir, nil
}

// removeWorkDir removes a job's scratch directory, logs warning if fails
func (p *implPipeline) removeWorkDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup work dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up work dir: %s", dir)
	}
}
