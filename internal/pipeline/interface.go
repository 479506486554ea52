package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/lessonreel/internal/sequencer"
)

// Pipeline turns one job's request into a published video and caption track.
type Pipeline interface {
	Process(ctx context.Context, job sequencer.Job) (sequencer.Result, error)
}
