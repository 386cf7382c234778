package selector

import (
	"context"
	"testing"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
)

func textModel(id string, description string, contextLength int, prompt, completion float64) catalog.Model {
	return catalog.Model{
		ID:            id,
		Name:          id,
		Description:   description,
		ContextLength: contextLength,
		Pricing:       catalog.Pricing{Prompt: prompt, Completion: completion},
		Architecture: catalog.Architecture{
			InputModalities:  []string{"text"},
			OutputModalities: []string{"text"},
		},
	}
}

func testSource() *StaticSource {
	return NewStaticSource(map[string]catalog.Model{
		"alpha/expensive-reasoner": textModel("alpha/expensive-reasoner", "deep reasoning model", 200000, 0.01, 0.01),
		"beta/cheap-reasoner":      textModel("beta/cheap-reasoner", "budget reasoning model", 32000, 0.001, 0.002),
		"gamma/plain":              textModel("gamma/plain", "general chat", 8000, 0.0001, 0.0001),
	})
}

func TestFindModel_PicksCheapestCapable(t *testing.T) {
	s := New(testSource())

	model, err := s.FindModel(context.Background(), Requirement{Capability: CapabilityTextReasoning})
	if err != nil {
		t.Fatalf("FindModel() error: %v", err)
	}
	if model == nil {
		t.Fatal("expected a model")
	}
	if model.ID != "beta/cheap-reasoner" {
		t.Fatalf("expected cheapest capable model, got %s", model.ID)
	}
}

func TestFindModel_MinContextFilter(t *testing.T) {
	s := New(testSource())

	model, err := s.FindModel(context.Background(), Requirement{
		Capability:       CapabilityTextReasoning,
		MinContextLength: 100000,
	})
	if err != nil {
		t.Fatalf("FindModel() error: %v", err)
	}
	if model == nil || model.ID != "alpha/expensive-reasoner" {
		t.Fatalf("expected alpha/expensive-reasoner, got %+v", model)
	}
}

func TestFindModel_ProviderPrefixFilter(t *testing.T) {
	s := New(testSource())

	model, err := s.FindModel(context.Background(), Requirement{
		Capability:        CapabilityTextReasoning,
		PreferredProvider: "alpha",
	})
	if err != nil {
		t.Fatalf("FindModel() error: %v", err)
	}
	if model == nil || model.ID != "alpha/expensive-reasoner" {
		t.Fatalf("expected alpha model, got %+v", model)
	}
}

func TestFindModel_NoCapableModelReturnsNilNotError(t *testing.T) {
	s := New(testSource())

	model, err := s.FindModel(context.Background(), Requirement{Capability: CapabilityVision})
	if err != nil {
		t.Fatalf("no-match must not be an error, got %v", err)
	}
	if model != nil {
		t.Fatalf("expected nil, got %s", model.ID)
	}
}

func TestFindModel_UnknownCapabilityMatchesNothing(t *testing.T) {
	s := New(testSource())

	model, err := s.FindModel(context.Background(), Requirement{Capability: "teleportation"})
	if err != nil {
		t.Fatalf("unknown capability must not be an error, got %v", err)
	}
	if model != nil {
		t.Fatalf("expected nil, got %s", model.ID)
	}
}

func TestFindModel_Deterministic(t *testing.T) {
	// Two capable models at the same combined cost: the tie must resolve
	// the same way on every call.
	s := New(NewStaticSource(map[string]catalog.Model{
		"b/reasoner": textModel("b/reasoner", "reasoning", 10000, 0.001, 0.001),
		"a/reasoner": textModel("a/reasoner", "reasoning", 10000, 0.001, 0.001),
	}))

	first, err := s.FindModel(context.Background(), Requirement{Capability: CapabilityTextReasoning})
	if err != nil || first == nil {
		t.Fatalf("FindModel() = %v, %v", first, err)
	}
	if first.ID != "a/reasoner" {
		t.Fatalf("expected sorted-id tie-break, got %s", first.ID)
	}
	for i := 0; i < 10; i++ {
		again, err := s.FindModel(context.Background(), Requirement{Capability: CapabilityTextReasoning})
		if err != nil || again == nil || again.ID != first.ID {
			t.Fatalf("selection not deterministic: %v, %v", again, err)
		}
	}
}

func TestFindModelComparison_ReturnsAllMatchesCheapestFirst(t *testing.T) {
	s := New(testSource())

	models, err := s.FindModelComparison(context.Background(), Requirement{Capability: CapabilityTextReasoning})
	if err != nil {
		t.Fatalf("FindModelComparison() error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].ID != "beta/cheap-reasoner" || models[1].ID != "alpha/expensive-reasoner" {
		t.Fatalf("unexpected order: %s, %s", models[0].ID, models[1].ID)
	}
}

func TestCapabilityPredicates(t *testing.T) {
	vision := catalog.Model{
		ID: "v/looker",
		Architecture: catalog.Architecture{
			InputModalities:  []string{"text", "image"},
			OutputModalities: []string{"text"},
		},
	}
	search := catalog.Model{
		ID:          "perplexity/sonar-pro",
		Description: "search-augmented answers",
	}
	coder := textModel("x/supercoder", "code completion model", 8000, 0.001, 0.001)

	tests := []struct {
		name     string
		tag      string
		model    catalog.Model
		expected bool
	}{
		{"vision via modality", CapabilityVision, vision, true},
		{"vision rejects text-only", CapabilityVision, coder, false},
		{"search via provider", CapabilityRealTimeSearch, search, true},
		{"search rejects plain", CapabilityRealTimeSearch, coder, false},
		{"code via id", CapabilityCodeAnalysis, coder, true},
		{"generation via modality", CapabilityTextGeneration, coder, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, ok := PredicateFor(tt.tag)
			if !ok {
				t.Fatalf("tag %q not in table", tt.tag)
			}
			if got := pred(tt.model); got != tt.expected {
				t.Errorf("predicate(%s, %s) = %v, want %v", tt.tag, tt.model.ID, got, tt.expected)
			}
		})
	}

	if _, ok := PredicateFor("unknown-tag"); ok {
		t.Fatal("unknown tag must not resolve to a predicate")
	}
}

func TestAnthropicFallback(t *testing.T) {
	s := New(NewStaticSource(AnthropicFallback()))

	model, err := s.FindModel(context.Background(), Requirement{Capability: CapabilityTextReasoning})
	if err != nil {
		t.Fatalf("FindModel() error: %v", err)
	}
	if model == nil {
		t.Fatal("fallback table must satisfy text-reasoning")
	}
	if model.Provider() != "anthropic" {
		t.Fatalf("fallback model from wrong provider: %s", model.ID)
	}

	generation, err := s.FindModel(context.Background(), Requirement{Capability: CapabilityTextGeneration})
	if err != nil || generation == nil {
		t.Fatalf("fallback table must satisfy text-generation: %v, %v", generation, err)
	}
	if generation.ID != "anthropic/claude-3-5-haiku" {
		t.Fatalf("expected cheapest fallback model, got %s", generation.ID)
	}
}

func TestStaticSource_CopiesInput(t *testing.T) {
	input := map[string]catalog.Model{
		"a/reasoner": textModel("a/reasoner", "reasoning", 10000, 0.001, 0.001),
	}
	src := NewStaticSource(input)
	delete(input, "a/reasoner")

	models, err := src.Models(context.Background())
	if err != nil {
		t.Fatalf("Models() error: %v", err)
	}
	if len(models) != 1 {
		t.Fatal("StaticSource must copy its input table")
	}
}
