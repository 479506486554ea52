package pipeline

import (
	"github.com/nguyentantai21042004/lessonreel/internal/config"
	"github.com/nguyentantai21042004/lessonreel/internal/handout"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
	"github.com/nguyentantai21042004/lessonreel/internal/media"
	"github.com/nguyentantai21042004/lessonreel/internal/narration"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
	"github.com/nguyentantai21042004/lessonreel/internal/storage"
)

type implPipeline struct {
	cfg       *config.Config
	generator script.Generator
	narrator  narration.Synthesizer
	tools     media.Tools
	store     *storage.FileStore
	handout   handout.Writer
	logger    logger.Logger
}

// Deps are the collaborators a Pipeline drives. Handout may be nil.
type Deps struct {
	Generator script.Generator
	Narrator  narration.Synthesizer
	Tools     media.Tools
	Store     *storage.FileStore
	Handout   handout.Writer
}

// New creates a new Pipeline instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Pipeline {
	return &implPipeline{
		cfg:       cfg,
		generator: deps.Generator,
		narrator:  deps.Narrator,
		tools:     deps.Tools,
		store:     deps.Store,
		handout:   deps.Handout,
		logger:    log,
	}
}
