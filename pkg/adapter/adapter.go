package adapter

import (
	"context"
)

// Adapter defines the interface for LLM provider adapters.
type Adapter interface {
	// Generate sends a prompt to the model and returns the response.
	Generate(ctx context.Context, model string, prompt string) (*Response, error)

	// Name returns the adapter's provider identifier.
	Name() string
}

// Generator is the minimal generation surface. Adapter satisfies it; so
// does the agent-layer dispatcher that picks an adapter per model.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string) (*Response, error)
}
