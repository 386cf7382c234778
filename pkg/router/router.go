package router

import (
	"sort"
	"strings"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/config"
)

// Rule is an immutable association of trigger keywords with a persona.
type Rule struct {
	Persona  string
	Keywords []string
}

// Router maps free text to a persona by keyword scoring. The rule table is
// fixed at construction, so a Router is safe for concurrent use without
// synchronization.
type Router struct {
	rules []Rule
}

// New creates a router from a rule table. Rule order is preserved: when
// two personas accumulate equal scores, the earlier-registered rule wins.
func New(cfg *config.RulesConfig) *Router {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		keywords := make([]string, len(rc.Keywords))
		copy(keywords, rc.Keywords)
		rules = append(rules, Rule{Persona: rc.Persona, Keywords: keywords})
	}
	return &Router{rules: rules}
}

// Default creates a router with the built-in rule table.
func Default() *Router {
	return New(config.DefaultRules())
}

// Route scores text against every rule and returns the best-scoring persona,
// or nil when no keyword matched at all.
//
// Scoring is presence-based: each distinct keyword that appears in the
// lower-cased text as a substring adds 10 points to its rule, regardless of
// how many times it occurs. Confidence saturates at 10 matched keywords.
func (r *Router) Route(text string) *Decision {
	lowered := strings.ToLower(text)

	var best *Decision
	for _, rule := range r.rules {
		score, matched := scoreRule(lowered, rule)
		if score == 0 {
			continue
		}
		// Strict inequality keeps the earlier rule on ties.
		if best == nil || score > best.Score {
			best = &Decision{
				Persona:    rule.Persona,
				Score:      score,
				Confidence: confidence(score),
				Matched:    matched,
				Reason:     reason(matched),
			}
		}
	}
	return best
}

// TestRoute returns every persona with a nonzero score, sorted descending
// by score (stable, so equal scores keep rule order). Debug entry point
// only; dispatch decisions go through Route.
func (r *Router) TestRoute(text string) []Candidate {
	lowered := strings.ToLower(text)

	var candidates []Candidate
	for _, rule := range r.rules {
		score, matched := scoreRule(lowered, rule)
		if score == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			Persona: rule.Persona,
			Score:   score,
			Matched: matched,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// Rules returns a copy of the rule table for introspection.
func (r *Router) Rules() []Rule {
	rules := make([]Rule, len(r.rules))
	for i, rule := range r.rules {
		keywords := make([]string, len(rule.Keywords))
		copy(keywords, rule.Keywords)
		rules[i] = Rule{Persona: rule.Persona, Keywords: keywords}
	}
	return rules
}

const pointsPerKeyword = 10

// scoreRule counts distinct keyword hits in the already-lowered text.
func scoreRule(lowered string, rule Rule) (int, []string) {
	var matched []string
	for _, keyword := range rule.Keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}
	return len(matched) * pointsPerKeyword, matched
}

func confidence(score int) float64 {
	c := float64(score) / 100.0
	if c > 1.0 {
		return 1.0
	}
	return c
}

// reason joins up to the first three matched keywords.
func reason(matched []string) string {
	if len(matched) > 3 {
		matched = matched[:3]
	}
	return strings.Join(matched, ", ")
}
