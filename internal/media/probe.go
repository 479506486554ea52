package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (t *implTools) AssertReady() error {
	for _, bin := range []string{t.cfg.Binary, t.cfg.ProbeBinary} {
		if _, err := t.lookPath(bin); err != nil {
			return fmt.Errorf("%s not found: %w", bin, err)
		}
	}
	return nil
}

// Probe asks ffprobe for the container duration.
func (t *implTools) Probe(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := t.executor.Execute(ctx, t.cfg.ProbeBinary, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	raw := strings.TrimSpace(out)
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: unreadable duration %q", path, raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("ffprobe %s: non-positive duration %v", path, d)
	}
	return d, nil
}
