package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/caption"
	"github.com/nguyentantai21042004/lessonreel/internal/media"
	"github.com/nguyentantai21042004/lessonreel/internal/narration"
	"github.com/nguyentantai21042004/lessonreel/internal/overlay"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
	"github.com/nguyentantai21042004/lessonreel/internal/sequencer"
	"github.com/nguyentantai21042004/lessonreel/internal/timeline"
)

// Process runs one job end to end. Every scratch file lives in a per-job work
// directory that is removed on every exit path. The video and its captions are
// derived from the same timeline, which is built from measured narration.
func (p *implPipeline) Process(ctx context.Context, job sequencer.Job) (sequencer.Result, error) {
	startTime := time.Now()
	req := job.Request

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting lesson: %q for %q", req.CourseRequirement, req.StudentPersona)
	p.logger.Info(ctx, "========================================")

	workDir, err := p.createWorkDir(job.ID)
	if err != nil {
		return sequencer.Result{}, err
	}
	defer p.removeWorkDir(ctx, workDir)

	// Step 1: Lesson script, wrapped with opening and closing segments
	s, err := p.generator.Generate(ctx, req.CourseRequirement, req.StudentPersona)
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("generate script: %w", err)
	}
	s = script.WithBookends(s)
	p.logger.Info(ctx, "Script ready: %q with %d segments", s.Title, len(s.Segments))

	// Step 2: Narration, one clip at a time
	clips := p.narrator.SynthesizeAll(ctx, s, workDir)
	p.logSilent(ctx, clips)

	// Step 3: Timeline from measured durations
	durations := make([]float64, len(clips))
	for i, c := range clips {
		durations[i] = c.Duration
	}
	windows, err := timeline.Compose(durations)
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("compose timeline: %w", err)
	}
	total := timeline.Total(windows)

	// Step 4: Overlay filter graph
	style := overlay.Style{WrapWidth: p.cfg.Overlay.WrapWidth, FontFile: p.cfg.Overlay.FontFile}
	ops, err := overlay.Compose(s, windows, style)
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("compose overlay: %w", err)
	}

	// Step 5: Captions on the same timeline
	cues, err := caption.Emit(s, windows)
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("emit captions: %w", err)
	}
	vttPath := filepath.Join(workDir, "captions.vtt")
	if err := caption.WriteFile(vttPath, cues); err != nil {
		return sequencer.Result{}, apperr.Wrap(apperr.RenderFailure, "pipeline.captions", err)
	}

	// Step 6: Narration track
	tracks := make([]media.Track, len(clips))
	for i, c := range clips {
		tracks[i] = media.Track{Path: c.Path, Duration: c.Duration}
	}
	audioPath := filepath.Join(workDir, "narration.wav")
	if err := p.tools.ConcatAudio(ctx, tracks, audioPath); err != nil {
		return sequencer.Result{}, fmt.Errorf("concat audio: %w", err)
	}

	// Step 7: Single render
	videoPath := filepath.Join(workDir, "lesson.mp4")
	err = p.tools.RenderVideo(ctx, media.RenderInput{
		AudioPath: audioPath,
		Graph:     overlay.Graph(ops, style.FontFile),
		Duration:  total,
		OutPath:   videoPath,
	})
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("render video: %w", err)
	}

	// Step 8: Optional handout
	var supplementary []string
	if p.handout != nil {
		docPath := filepath.Join(workDir, "handout.docx")
		if err := p.handout.Write(ctx, s, cues, docPath); err != nil {
			p.logger.Warn(ctx, "Failed to write handout: %v", err)
		} else if key, err := p.store.Publish(ctx, job.ID+".docx", docPath); err != nil {
			p.logger.Warn(ctx, "Failed to publish handout: %v", err)
		} else {
			supplementary = append(supplementary, key)
		}
	}

	// Step 9: Publish, captions first so a visible video always has its track
	subtitleKey, err := p.store.Publish(ctx, job.ID+".vtt", vttPath)
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("publish captions: %w", err)
	}
	videoKey, err := p.store.Publish(ctx, job.ID+".mp4", videoPath)
	if err != nil {
		return sequencer.Result{}, fmt.Errorf("publish video: %w", err)
	}

	duration := time.Since(startTime)
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Lesson completed successfully!")
	p.logger.Info(ctx, "Output video: %s (%.1fs)", videoKey, total)
	p.logger.Info(ctx, "Output subtitle: %s", subtitleKey)
	p.logger.Info(ctx, "Processing time: %s", duration)
	p.logger.Info(ctx, "========================================")

	return sequencer.Result{
		VideoPath:     videoKey,
		SubtitlePath:  subtitleKey,
		Supplementary: supplementary,
	}, nil
}

func (p *implPipeline) logSilent(ctx context.Context, clips []narration.Clip) {
	silent := 0
	for _, c := range clips {
		if c.Silent {
			silent++
		}
	}
	if silent > 0 {
		p.logger.Warn(ctx, "%d of %d segments use silent narration", silent, len(clips))
	}
}
