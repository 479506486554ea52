package media

import "context"

// Tools wraps the ffmpeg and ffprobe invocations the pipeline needs.
type Tools interface {
	// AssertReady checks that the ffmpeg and ffprobe binaries can be found.
	AssertReady() error
	// Probe returns the duration of a media file in seconds.
	Probe(ctx context.Context, path string) (float64, error)
	// Silence writes a silent mono clip of the given length.
	Silence(ctx context.Context, seconds float64, outPath string) error
	// TranscodePCM converts raw s16le mono samples into a playable clip.
	TranscodePCM(ctx context.Context, pcmPath string, sampleRate int, outPath string) error
	// ConcatAudio joins tracks in order, padding or trimming each to its duration.
	ConcatAudio(ctx context.Context, tracks []Track, outPath string) error
	// RenderVideo runs the single encode that produces the final video.
	RenderVideo(ctx context.Context, in RenderInput) error
}

// Track is one clip of the narration track and the length it must occupy.
type Track struct {
	Path     string
	Duration float64
}

// RenderInput describes one render: a blank canvas of Duration seconds,
// the narration track and the overlay filter graph drawn on top.
type RenderInput struct {
	AudioPath string
	Graph     string
	Duration  float64
	OutPath   string
}
