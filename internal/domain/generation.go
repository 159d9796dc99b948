package domain

import "context"

// Generator produces free text from a system and user prompt. Stateless: the
// caller reconstructs any conversation history and passes it in full each time.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
