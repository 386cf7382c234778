package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleConfig associates a persona with its trigger keywords.
type RuleConfig struct {
	Persona  string   `yaml:"persona"`
	Keywords []string `yaml:"keywords"`
}

// RulesConfig holds the ordered routing rule table. Rule order matters:
// on equal scores the earlier rule wins, so the table is a list, not a map.
type RulesConfig struct {
	Rules []RuleConfig `yaml:"rules"`
}

// LoadRules reads a routing rule table from a YAML file.
func LoadRules(path string) (*RulesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every rule names a persona and at least one keyword.
func (c *RulesConfig) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("routing rules: empty rule table")
	}
	seen := make(map[string]bool, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.Persona == "" {
			return fmt.Errorf("routing rules: rule %d has no persona", i)
		}
		if seen[rule.Persona] {
			return fmt.Errorf("routing rules: duplicate persona %q", rule.Persona)
		}
		seen[rule.Persona] = true
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("routing rules: persona %q has no keywords", rule.Persona)
		}
	}
	return nil
}

// DefaultRules returns the built-in routing rule table. Registration order
// is significant and must stay stable: security, writer, advisor, legal.
func DefaultRules() *RulesConfig {
	return &RulesConfig{
		Rules: []RuleConfig{
			{
				Persona: "security",
				Keywords: []string{
					"pentest", "penetration", "exploit", "vulnerability",
					"security", "hack", "nmap", "burp", "owasp", "ctf",
					"recon", "scan",
				},
			},
			{
				Persona: "writer",
				Keywords: []string{
					"blog", "post", "article", "write", "content",
					"copywriting", "seo", "newsletter", "headline",
				},
			},
			{
				Persona: "advisor",
				Keywords: []string{
					"osint", "research", "investigate", "intelligence",
					"search", "find", "lookup", "sources", "verify",
				},
			},
			{
				Persona: "legal",
				Keywords: []string{
					"legal", "contract", "compliance", "gdpr", "license",
					"privacy", "terms", "liability", "regulation",
				},
			},
		},
	}
}
