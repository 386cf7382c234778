package selector

import (
	"context"
	"sort"
	"strings"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
)

// Requirement is an abstract selection request: a capability the model must
// have, plus optional provider and context-length constraints. Ephemeral,
// constructed per selection call.
type Requirement struct {
	Capability        string `json:"capability"`
	PreferredProvider string `json:"preferred_provider,omitempty"`
	MinContextLength  int    `json:"min_context_length,omitempty"`
}

// Source yields the model catalog. catalog.Client is the live
// implementation; StaticSource backs the fallback single-provider path.
type Source interface {
	Models(ctx context.Context) (map[string]catalog.Model, error)
}

// Selector picks the cheapest catalog model satisfying a Requirement.
type Selector struct {
	source Source
}

// New creates a selector over the given catalog source.
func New(source Source) *Selector {
	return &Selector{source: source}
}

// FindModel returns the single cheapest model satisfying the requirement,
// or nil when no model qualifies. "Not found" is never an error; only
// discovery failures are.
func (s *Selector) FindModel(ctx context.Context, req Requirement) (*catalog.Model, error) {
	survivors, err := s.survivors(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(survivors) == 0 {
		return nil, nil
	}

	best := survivors[0]
	for _, model := range survivors[1:] {
		// Strict inequality keeps the first sorted id on price ties,
		// so selection is deterministic for a fixed catalog.
		if model.CombinedCost() < best.CombinedCost() {
			best = model
		}
	}
	return &best, nil
}

// FindModelComparison returns every model satisfying the requirement,
// cheapest first, for side-by-side comparison workflows.
func (s *Selector) FindModelComparison(ctx context.Context, req Requirement) ([]catalog.Model, error) {
	survivors, err := s.survivors(ctx, req)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].CombinedCost() < survivors[j].CombinedCost()
	})
	return survivors, nil
}

// survivors applies the capability predicate, minimum context length and
// provider prefix filters over the catalog in sorted-id order.
func (s *Selector) survivors(ctx context.Context, req Requirement) ([]catalog.Model, error) {
	models, err := s.source.Models(ctx)
	if err != nil {
		return nil, err
	}

	satisfies, known := PredicateFor(req.Capability)
	if !known {
		return nil, nil
	}

	ids := make([]string, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var survivors []catalog.Model
	for _, id := range ids {
		model := models[id]
		if !satisfies(model) {
			continue
		}
		if req.MinContextLength > 0 && model.ContextLength < req.MinContextLength {
			continue
		}
		if req.PreferredProvider != "" && !strings.HasPrefix(model.ID, req.PreferredProvider) {
			continue
		}
		survivors = append(survivors, model)
	}
	return survivors, nil
}
