package script

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/logger"
)

type implFallbackGenerator struct {
	primary  Generator
	fallback Generator
	logger   logger.Logger
}

// NewFallbackGenerator tries primary first and answers from fallback whenever primary fails.
// A nil primary always uses fallback.
func NewFallbackGenerator(primary, fallback Generator, log logger.Logger) Generator {
	return &implFallbackGenerator{
		primary:  primary,
		fallback: fallback,
		logger:   log,
	}
}

func (g *implFallbackGenerator) Generate(ctx context.Context, requirement, persona string) (Script, error) {
	if strings.TrimSpace(requirement) == "" {
		return Script{}, apperr.New(apperr.InvalidRequest, "script", "course requirement is required")
	}

	if g.primary != nil {
		s, err := g.primary.Generate(ctx, requirement, persona)
		if err == nil {
			g.logger.Info(ctx, "Script generated by primary strategy: %d segments", len(s.Segments))
			return s, nil
		}
		g.logger.Warn(ctx, "Content generation failed, using template script: %v", err)
	}

	return g.fallback.Generate(ctx, requirement, persona)
}
