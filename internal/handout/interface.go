package handout

import (
	"context"

	"github.com/nguyentantai21042004/lessonreel/internal/caption"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
)

// Writer renders a lesson script and its timed transcript into a printable handout.
type Writer interface {
	Write(ctx context.Context, s script.Script, cues []caption.Cue, outPath string) error
}
