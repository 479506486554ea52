package media

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
)

// Silence renders anullsrc into a mono PCM WAV.
func (t *implTools) Silence(ctx context.Context, seconds float64, outPath string) error {
	if seconds <= 0 {
		return fmt.Errorf("silence length must be positive, got %v", seconds)
	}

	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", t.cfg.SampleRate),
		"-t", seconds3(seconds),
		"-c:a", "pcm_s16le",
		outPath,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.Binary, args...); err != nil {
		return fmt.Errorf("ffmpeg silence: %w", err)
	}
	return nil
}

// TranscodePCM wraps raw 16-bit little-endian mono samples into a WAV at the pipeline rate.
func (t *implTools) TranscodePCM(ctx context.Context, pcmPath string, sampleRate int, outPath string) error {
	args := []string{
		"-y",
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-i", pcmPath,
		"-ar", strconv.Itoa(t.cfg.SampleRate),
		"-c:a", "pcm_s16le",
		outPath,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.Binary, args...); err != nil {
		return fmt.Errorf("ffmpeg transcode pcm: %w", err)
	}
	return nil
}

// ConcatAudio joins every track with the concat filter. Each input is resampled
// to the pipeline rate, padded with silence and trimmed to its track duration,
// so the output length is the sum of the durations.
func (t *implTools) ConcatAudio(ctx context.Context, tracks []Track, outPath string) error {
	const op = "media.concat_audio"

	if len(tracks) == 0 {
		return apperr.New(apperr.RenderFailure, op, "no audio tracks to concatenate")
	}

	args := []string{"-y"}
	for i, tr := range tracks {
		info, err := os.Stat(tr.Path)
		if err != nil {
			return apperr.Wrap(apperr.RenderFailure, op, fmt.Errorf("track %d: %w", i, err))
		}
		if info.Size() == 0 {
			return apperr.New(apperr.RenderFailure, op, "track %d: %s is empty", i, tr.Path)
		}
		if tr.Duration <= 0 {
			return apperr.New(apperr.RenderFailure, op, "track %d: non-positive duration %v", i, tr.Duration)
		}
		args = append(args, "-i", tr.Path)
	}

	args = append(args,
		"-filter_complex", concatGraph(tracks, t.cfg.SampleRate),
		"-map", "[out]",
		"-ac", "1",
		"-ar", strconv.Itoa(t.cfg.SampleRate),
		"-c:a", "pcm_s16le",
		outPath,
	)

	t.logger.Debug(ctx, "Concatenating %d narration clips into %s", len(tracks), outPath)

	if _, err := t.executor.Execute(ctx, t.cfg.Binary, args...); err != nil {
		return apperr.Wrap(apperr.RenderFailure, op, fmt.Errorf("ffmpeg concat: %s", t.detail(err)))
	}
	return nil
}

func concatGraph(tracks []Track, sampleRate int) string {
	var b strings.Builder
	for i, tr := range tracks {
		d := seconds3(tr.Duration)
		fmt.Fprintf(&b, "[%d:a]aresample=%d,aformat=channel_layouts=mono,apad=whole_dur=%s,atrim=duration=%s,asetpts=PTS-STARTPTS[a%d];",
			i, sampleRate, d, d, i)
	}
	for i := range tracks {
		fmt.Fprintf(&b, "[a%d]", i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[out]", len(tracks))
	return b.String()
}

func seconds3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
