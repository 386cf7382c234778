package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/adapter"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/workflow"
)

// Agent is one persona: a name, the skill whose workflow it runs, and the
// system prompt wrapped around every query.
type Agent struct {
	Name         string
	Skill        string
	SystemPrompt string
}

// BuildPrompt wraps a user query in the persona's system prompt.
func (a *Agent) BuildPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString(a.SystemPrompt)
	sb.WriteString("\n\n---\n\n")
	sb.WriteString(query)
	return sb.String()
}

// DirectorPersona is the persona used when routing finds no match.
const DirectorPersona = "advisor"

// ErrNoCapableModel reports that selection found no model satisfying the
// resolved requirement. It is a no-match outcome, distinct from discovery
// and generation failures.
var ErrNoCapableModel = errors.New("no capable model satisfies the requirement")

// Registry returns the four built-in personas keyed by name.
func Registry() map[string]*Agent {
	return map[string]*Agent{
		"security": {Name: "security", Skill: workflow.SkillSecurity, SystemPrompt: securityPrompt},
		"writer":   {Name: "writer", Skill: workflow.SkillWriter, SystemPrompt: writerPrompt},
		"advisor":  {Name: "advisor", Skill: workflow.SkillOSINT, SystemPrompt: advisorPrompt},
		"legal":    {Name: "legal", Skill: workflow.SkillLegal, SystemPrompt: legalPrompt},
	}
}

// Result is one completed agent execution.
type Result struct {
	Agent    string            `json:"agent"`
	Model    catalog.Model     `json:"model"`
	Response *adapter.Response `json:"response"`
}

// Runner executes persona queries: workflow resolution, model selection,
// then one generation call through the dispatcher.
type Runner struct {
	resolver   *workflow.Resolver
	dispatcher *Dispatcher
	agents     map[string]*Agent
}

// NewRunner creates a runner over a resolver and dispatcher.
func NewRunner(resolver *workflow.Resolver, dispatcher *Dispatcher) *Runner {
	return &Runner{
		resolver:   resolver,
		dispatcher: dispatcher,
		agents:     Registry(),
	}
}

// Agent returns a persona by name.
func (r *Runner) Agent(name string) (*Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Execute runs one query through a persona. When phase is empty the
// agent-identity fallback path resolves the requirement; otherwise the
// (skill, phase) pair drives selection.
func (r *Runner) Execute(ctx context.Context, persona, phase, query string) (*Result, error) {
	a, ok := r.agents[persona]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", persona)
	}

	skill := ""
	if phase != "" {
		skill = a.Skill
	}
	model, err := r.resolver.SelectModel(ctx, skill, phase, a.Name)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("agent %q: %w", persona, ErrNoCapableModel)
	}

	resp, err := r.dispatcher.Generate(ctx, model.ID, a.BuildPrompt(query))
	if err != nil {
		return nil, err
	}

	return &Result{Agent: a.Name, Model: *model, Response: resp}, nil
}

// Compare runs a phase's two-model comparison with the persona's prompt
// wrapping applied.
func (r *Runner) Compare(ctx context.Context, persona, phase, query string) (*workflow.Comparison, error) {
	a, ok := r.agents[persona]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", persona)
	}
	return r.resolver.CompareModels(ctx, a.Skill, phase, a.BuildPrompt(query), r.dispatcher)
}
