package narration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
)

func (s *implSynthesizer) Synthesize(ctx context.Context, index int, text, dir string) Clip {
	path := filepath.Join(dir, fmt.Sprintf("clip-%03d%s", index, s.ext))

	duration, err := s.speak(ctx, text, path)
	if err == nil {
		s.logger.Debug(ctx, "Segment %d narrated: %.2fs", index, duration)
		return Clip{
			SegmentIndex: index,
			Path:         path,
			Duration:     duration + s.cfg.PaddingSeconds,
		}
	}

	s.logger.Warn(ctx, "Segment %d narration unavailable, using %.1fs of silence: %v", index, s.cfg.MinSilentSeconds, err)

	silent := filepath.Join(dir, fmt.Sprintf("silence-%03d.wav", index))
	if err := s.tools.Silence(ctx, s.cfg.MinSilentSeconds, silent); err != nil {
		s.logger.Error(ctx, "Segment %d silence clip failed: %v", index, err)
	}
	return Clip{
		SegmentIndex: index,
		Path:         silent,
		Duration:     s.cfg.MinSilentSeconds + s.cfg.PaddingSeconds,
		Silent:       true,
	}
}

func (s *implSynthesizer) SynthesizeAll(ctx context.Context, sc script.Script, dir string) []Clip {
	clips := make([]Clip, 0, len(sc.Segments))
	for i, seg := range sc.Segments {
		clips = append(clips, s.Synthesize(ctx, i, seg.Narration, dir))
	}
	return clips
}

// speak writes the clip and returns its probed duration.
func (s *implSynthesizer) speak(ctx context.Context, text, path string) (float64, error) {
	const op = "narration.speak"

	if strings.TrimSpace(text) == "" {
		return 0, apperr.New(apperr.SynthesisFailure, op, "empty narration text")
	}

	speakCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		speakCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.tts.Speak(speakCtx, text, path); err != nil {
		return 0, apperr.Wrap(apperr.SynthesisFailure, op, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, apperr.Wrap(apperr.SynthesisFailure, op, err)
	}
	if info.Size() < s.cfg.MinClipBytes {
		return 0, apperr.New(apperr.SynthesisFailure, op, "clip too small: %d bytes", info.Size())
	}

	d, err := s.tools.Probe(ctx, path)
	if err != nil {
		return 0, apperr.Wrap(apperr.SynthesisFailure, op, err)
	}
	return d, nil
}
