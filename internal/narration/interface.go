package narration

import (
	"context"

	"github.com/nguyentantai21042004/lessonreel/internal/script"
)

// TTS turns text into an audio clip written at outPath.
// It returns only once the clip is fully written, or with an error.
type TTS interface {
	Speak(ctx context.Context, text, outPath string) error
}

// Synthesizer produces one narration clip per segment with a measured duration.
type Synthesizer interface {
	// Synthesize never fails: narration that cannot be produced is replaced by silence.
	Synthesize(ctx context.Context, index int, text, dir string) Clip
	// SynthesizeAll narrates every segment of s in order, one at a time.
	SynthesizeAll(ctx context.Context, s script.Script, dir string) []Clip
}

// Clip is the narration audio for one segment.
// Duration is the probed length plus the configured padding.
type Clip struct {
	SegmentIndex int
	Path         string
	Duration     float64
	Silent       bool
}
