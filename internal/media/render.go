package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/pkg/executor"
)

// maxInlineGraph keeps the -vf argument below the kernel's per-argument limit.
// Larger graphs are handed to ffmpeg as a filter script file.
const maxInlineGraph = 96 * 1024

// RenderVideo encodes the colour canvas, the narration track and the overlay graph
// in one ffmpeg run. The run only counts as a success when ffmpeg exits cleanly
// and leaves a non-empty file behind.
func (t *implTools) RenderVideo(ctx context.Context, in RenderInput) error {
	const op = "media.render_video"

	if in.Duration <= 0 {
		return apperr.New(apperr.RenderFailure, op, "non-positive duration %v", in.Duration)
	}

	canvas := fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s",
		t.cfg.CanvasColor, t.cfg.Width, t.cfg.Height, t.cfg.FrameRate, seconds3(in.Duration))

	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", canvas,
		"-i", in.AudioPath,
	}

	if len(in.Graph) > maxInlineGraph {
		scriptPath := filepath.Join(filepath.Dir(in.OutPath), "overlay.filter")
		if err := os.WriteFile(scriptPath, []byte(in.Graph), 0644); err != nil {
			return apperr.Wrap(apperr.RenderFailure, op, fmt.Errorf("write filter script: %w", err))
		}
		defer os.Remove(scriptPath)
		args = append(args, "-filter_script:v", scriptPath)
	} else if in.Graph != "" {
		args = append(args, "-vf", in.Graph)
	}

	args = append(args,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", t.cfg.Encoder,
		"-preset", t.cfg.Preset,
		"-pix_fmt", "yuv420p",
		"-c:a", t.cfg.AudioCodec,
		"-b:a", t.cfg.AudioBitrate,
		"-ar", strconv.Itoa(t.cfg.SampleRate),
		"-t", seconds3(in.Duration),
		"-movflags", "+faststart",
		in.OutPath,
	)

	t.logger.Info(ctx, "Rendering %.1fs video: %s", in.Duration, in.OutPath)

	if _, err := t.executor.Execute(ctx, t.cfg.Binary, args...); err != nil {
		return apperr.New(apperr.RenderFailure, op, "ffmpeg render: %s", t.detail(err))
	}

	info, err := os.Stat(in.OutPath)
	if err != nil {
		return apperr.New(apperr.RenderFailure, op, "output missing after render: %v", err)
	}
	if info.Size() == 0 {
		return apperr.New(apperr.RenderFailure, op, "output is empty after render: %s", in.OutPath)
	}

	t.logger.Info(ctx, "Video rendered successfully: %s (%d bytes)", in.OutPath, info.Size())
	return nil
}

// detail reduces a command failure to the trailing part of its diagnostics.
func (t *implTools) detail(err error) string {
	var execErr *executor.Error
	if errors.As(err, &execErr) {
		tail := execErr.Tail(t.tailSize)
		if tail == "" {
			return fmt.Sprintf("exit code %d", execErr.ExitCode)
		}
		return tail
	}
	return err.Error()
}
