package selector

import (
	"strings"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
)

// Capability tags recognized by the predicate table.
const (
	CapabilityTextReasoning  = "text-reasoning"
	CapabilityRealTimeSearch = "real-time-search"
	CapabilityVision         = "vision"
	CapabilityCodeAnalysis   = "code-analysis"
	CapabilityTextGeneration = "text-generation"
)

// Predicate reports whether a catalog model satisfies one capability tag.
type Predicate func(catalog.Model) bool

// capabilityRule pairs a tag with its predicate. The table is an explicit,
// finite, ordered set: one case per recognized tag. An unrecognized tag
// matches nothing.
type capabilityRule struct {
	Tag       string
	Satisfies Predicate
}

// The predicates lean on vendor naming conventions (model ids and free-text
// descriptions). That is brittle for future model names; swap entries here
// rather than scattering string checks through callers.
var capabilityTable = []capabilityRule{
	{
		Tag: CapabilityTextReasoning,
		Satisfies: func(m catalog.Model) bool {
			return matchesAny(m,
				"reason", "thinking", "opus", "o1", "o3", "r1", "grok",
			)
		},
	},
	{
		Tag: CapabilityRealTimeSearch,
		Satisfies: func(m catalog.Model) bool {
			if m.Provider() == "perplexity" {
				return true
			}
			return matchesAny(m, "online", "real-time", "web search", "search-augmented", "sonar")
		},
	},
	{
		Tag: CapabilityVision,
		Satisfies: func(m catalog.Model) bool {
			return m.HasInputModality("image")
		},
	},
	{
		Tag: CapabilityCodeAnalysis,
		Satisfies: func(m catalog.Model) bool {
			return matchesAny(m, "code", "coder", "codex", "codestral")
		},
	},
	{
		Tag: CapabilityTextGeneration,
		Satisfies: func(m catalog.Model) bool {
			if len(m.Architecture.OutputModalities) == 0 {
				return true
			}
			return m.HasOutputModality("text")
		},
	},
}

// PredicateFor returns the predicate for a capability tag, or false when
// the tag is not recognized.
func PredicateFor(tag string) (Predicate, bool) {
	for _, rule := range capabilityTable {
		if rule.Tag == tag {
			return rule.Satisfies, true
		}
	}
	return nil, false
}

// Capabilities returns the recognized capability tags in table order.
func Capabilities() []string {
	tags := make([]string, len(capabilityTable))
	for i, rule := range capabilityTable {
		tags[i] = rule.Tag
	}
	return tags
}

// matchesAny checks the model id, display name and description for any of
// the indicator substrings, case-insensitively.
func matchesAny(m catalog.Model, indicators ...string) bool {
	haystack := strings.ToLower(m.ID + " " + m.Name + " " + m.Description)
	for _, indicator := range indicators {
		if strings.Contains(haystack, indicator) {
			return true
		}
	}
	return false
}
