package workflow

import (
	"context"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/config"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/selector"
)

// ResolveForAgent maps an agent identity to a capability requirement. This
// is the pre-workflow calling convention kept as a lower-priority fallback;
// it is consulted only when no (skill, phase) pair resolves.
func ResolveForAgent(name string) selector.Requirement {
	switch name {
	case "security":
		return selector.Requirement{Capability: selector.CapabilityTextReasoning}
	case "writer":
		return selector.Requirement{Capability: selector.CapabilityTextGeneration}
	case "advisor":
		return selector.Requirement{Capability: selector.CapabilityRealTimeSearch}
	case "legal":
		return selector.Requirement{Capability: selector.CapabilityTextReasoning, MinContextLength: 100000}
	default:
		return selector.Requirement{Capability: selector.CapabilityTextGeneration}
	}
}

// Resolver translates workflow identity into a selected model.
type Resolver struct {
	registry *Registry
	selector *selector.Selector
}

// NewResolver creates a resolver over a phase registry and a selector.
func NewResolver(registry *Registry, sel *selector.Selector) *Resolver {
	return &Resolver{registry: registry, selector: sel}
}

// Registry returns the phase registry backing this resolver.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve determines the capability requirement for a call. Precedence:
// a known (skill, phase) pair wins; otherwise an agent identity; with
// neither, resolution is a caller/config bug, not a transient failure.
func (r *Resolver) Resolve(skill, phase, agentName string) (selector.Requirement, error) {
	if skill != "" && phase != "" {
		if p, ok := r.registry.PhaseConfig(skill, phase); ok {
			return p.Primary, nil
		}
	}
	if agentName != "" {
		return ResolveForAgent(agentName), nil
	}
	return selector.Requirement{}, &config.ConfigError{Reason: "no suitable model found"}
}

// SelectModel resolves the requirement and picks the cheapest satisfying
// model. A nil model with nil error means no catalog entry qualified.
func (r *Resolver) SelectModel(ctx context.Context, skill, phase, agentName string) (*catalog.Model, error) {
	req, err := r.Resolve(skill, phase, agentName)
	if err != nil {
		return nil, err
	}
	return r.selector.FindModel(ctx, req)
}
