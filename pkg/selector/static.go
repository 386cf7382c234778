package selector

import (
	"context"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
)

// StaticSource serves a fixed in-memory catalog. It backs the fallback
// single-provider path used when no catalog credential is configured.
type StaticSource struct {
	models map[string]catalog.Model
}

// NewStaticSource creates a source over a fixed model table.
func NewStaticSource(models map[string]catalog.Model) *StaticSource {
	copied := make(map[string]catalog.Model, len(models))
	for id, model := range models {
		copied[id] = model
	}
	return &StaticSource{models: copied}
}

// Models returns the fixed table. Never fails.
func (s *StaticSource) Models(_ context.Context) (map[string]catalog.Model, error) {
	return s.models, nil
}

// AnthropicFallback returns the static single-provider catalog used when
// only an Anthropic credential is present. Prices are per token in USD and
// track the published rate card; update them together with the model list.
func AnthropicFallback() map[string]catalog.Model {
	models := []catalog.Model{
		{
			ID:            "anthropic/claude-3-5-haiku",
			Name:          "Claude 3.5 Haiku",
			Description:   "Fast, low-cost model for drafting and general text generation.",
			ContextLength: 200000,
			Pricing:       catalog.Pricing{Prompt: 0.0000008, Completion: 0.000004},
			Architecture: catalog.Architecture{
				InputModalities:  []string{"text", "image"},
				OutputModalities: []string{"text"},
			},
		},
		{
			ID:            "anthropic/claude-sonnet-4",
			Name:          "Claude Sonnet 4",
			Description:   "Balanced model with strong reasoning and code analysis.",
			ContextLength: 200000,
			Pricing:       catalog.Pricing{Prompt: 0.000003, Completion: 0.000015},
			Architecture: catalog.Architecture{
				InputModalities:  []string{"text", "image"},
				OutputModalities: []string{"text"},
			},
		},
		{
			ID:            "anthropic/claude-opus-4",
			Name:          "Claude Opus 4",
			Description:   "Deep reasoning model for complex analysis.",
			ContextLength: 200000,
			Pricing:       catalog.Pricing{Prompt: 0.000015, Completion: 0.000075},
			Architecture: catalog.Architecture{
				InputModalities:  []string{"text", "image"},
				OutputModalities: []string{"text"},
			},
		},
	}

	table := make(map[string]catalog.Model, len(models))
	for _, model := range models {
		table[model.ID] = model
	}
	return table
}
