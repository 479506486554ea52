package script

import "context"

// Generator produces a lesson script from a course requirement and an optional persona.
type Generator interface {
	Generate(ctx context.Context, requirement, persona string) (Script, error)
}
