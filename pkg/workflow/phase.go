package workflow

import (
	"github.com/notchrisgroves/ia-framework-sdk/pkg/selector"
)

// Skill identifiers with registered workflows.
const (
	SkillWriter   = "writer"
	SkillOSINT    = "osint-research"
	SkillSecurity = "security-testing"
	SkillLegal    = "legal-compliance"
)

// Phase associates one named stage of a skill's workflow with the model
// capability it needs. Secondary, when present, drives the comparison mode.
// DecisionCriteria is declarative text for the calling layer; this package
// does not evaluate it.
type Phase struct {
	Skill            string                `json:"skill"`
	Name             string                `json:"name"`
	Primary          selector.Requirement  `json:"primary"`
	Secondary        *selector.Requirement `json:"secondary,omitempty"`
	Description      string                `json:"description,omitempty"`
	DecisionCriteria string                `json:"decision_criteria,omitempty"`
}

// Registry holds the static per-skill phase tables. Populated once at
// startup, read-only thereafter.
type Registry struct {
	phases map[string]map[string]Phase
	order  map[string][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		phases: make(map[string]map[string]Phase),
		order:  make(map[string][]string),
	}
}

// Register adds a phase. Registration happens at startup only; the registry
// is not safe for concurrent mutation.
func (r *Registry) Register(p Phase) {
	if r.phases[p.Skill] == nil {
		r.phases[p.Skill] = make(map[string]Phase)
	}
	if _, exists := r.phases[p.Skill][p.Name]; !exists {
		r.order[p.Skill] = append(r.order[p.Skill], p.Name)
	}
	r.phases[p.Skill][p.Name] = p
}

// PhaseConfig looks up the phase registered for a (skill, phase) pair.
func (r *Registry) PhaseConfig(skill, phase string) (Phase, bool) {
	p, ok := r.phases[skill][phase]
	return p, ok
}

// Phases returns a skill's phases in registration order.
func (r *Registry) Phases(skill string) []Phase {
	names := r.order[skill]
	phases := make([]Phase, 0, len(names))
	for _, name := range names {
		phases = append(phases, r.phases[skill][name])
	}
	return phases
}

// Skills returns the skills with at least one registered phase.
func (r *Registry) Skills() []string {
	skills := make([]string, 0, len(r.order))
	for _, skill := range []string{SkillWriter, SkillOSINT, SkillSecurity, SkillLegal} {
		if len(r.order[skill]) > 0 {
			skills = append(skills, skill)
		}
	}
	return skills
}

// DefaultRegistry returns the built-in workflow tables for the four skills.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Phase{
		Skill:       SkillWriter,
		Name:        "draft",
		Primary:     selector.Requirement{Capability: selector.CapabilityTextGeneration},
		Description: "Produce the first full draft from the brief.",
	})
	r.Register(Phase{
		Skill:            SkillWriter,
		Name:             "review",
		Primary:          selector.Requirement{Capability: selector.CapabilityTextReasoning},
		Secondary:        &selector.Requirement{Capability: selector.CapabilityTextGeneration},
		Description:      "Critique the draft for structure, tone and accuracy.",
		DecisionCriteria: "Escalate to the reasoning model's rewrite when the draft scores below 7/10.",
	})

	r.Register(Phase{
		Skill:       SkillOSINT,
		Name:        "collection",
		Primary:     selector.Requirement{Capability: selector.CapabilityRealTimeSearch},
		Description: "Gather current open-source material on the subject.",
	})
	r.Register(Phase{
		Skill:            SkillOSINT,
		Name:             "correlation",
		Primary:          selector.Requirement{Capability: selector.CapabilityTextReasoning, MinContextLength: 100000},
		Secondary:        &selector.Requirement{Capability: selector.CapabilityRealTimeSearch},
		Description:      "Cross-reference collected material and resolve contradictions.",
		DecisionCriteria: "Re-query live sources when two findings conflict.",
	})
	r.Register(Phase{
		Skill:       SkillOSINT,
		Name:        "reporting",
		Primary:     selector.Requirement{Capability: selector.CapabilityTextGeneration},
		Description: "Summarize verified findings into a structured report.",
	})

	r.Register(Phase{
		Skill:       SkillSecurity,
		Name:        "recon",
		Primary:     selector.Requirement{Capability: selector.CapabilityRealTimeSearch},
		Description: "Map the engagement surface from public information.",
	})
	r.Register(Phase{
		Skill:            SkillSecurity,
		Name:             "analysis",
		Primary:          selector.Requirement{Capability: selector.CapabilityTextReasoning},
		Secondary:        &selector.Requirement{Capability: selector.CapabilityCodeAnalysis},
		Description:      "Reason about findings and likely attack paths.",
		DecisionCriteria: "Run the code-analysis comparison when the finding involves source or config excerpts.",
	})
	r.Register(Phase{
		Skill:       SkillSecurity,
		Name:        "reporting",
		Primary:     selector.Requirement{Capability: selector.CapabilityTextGeneration},
		Description: "Write up findings with severity and remediation guidance.",
	})

	r.Register(Phase{
		Skill:       SkillLegal,
		Name:        "research",
		Primary:     selector.Requirement{Capability: selector.CapabilityRealTimeSearch},
		Description: "Find the regulations and precedents that apply.",
	})
	r.Register(Phase{
		Skill:            SkillLegal,
		Name:             "analysis",
		Primary:          selector.Requirement{Capability: selector.CapabilityTextReasoning, MinContextLength: 100000},
		Secondary:        &selector.Requirement{Capability: selector.CapabilityTextReasoning, PreferredProvider: "anthropic"},
		Description:      "Assess obligations and exposure against the researched material.",
		DecisionCriteria: "Compare against the preferred-provider model when confidence is low.",
	})
	r.Register(Phase{
		Skill:       SkillLegal,
		Name:        "drafting",
		Primary:     selector.Requirement{Capability: selector.CapabilityTextGeneration},
		Description: "Draft the memo or clause language.",
	})

	return r
}
