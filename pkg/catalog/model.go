package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Model describes one entry in the remote model catalog. Callers receive
// copies owned by the cache and must treat them as read-only.
type Model struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	ContextLength int          `json:"context_length"`
	Pricing       Pricing      `json:"pricing"`
	Architecture  Architecture `json:"architecture"`
}

// Pricing holds per-token prices in USD.
type Pricing struct {
	Prompt     float64 `json:"prompt"`
	Completion float64 `json:"completion"`
}

// Architecture holds structured modality metadata.
type Architecture struct {
	InputModalities  []string `json:"input_modalities"`
	OutputModalities []string `json:"output_modalities"`
}

// Provider returns the provider prefix of the model identifier: the segment
// before the first "/", or the whole identifier when there is none.
func (m Model) Provider() string {
	if idx := strings.Index(m.ID, "/"); idx >= 0 {
		return m.ID[:idx]
	}
	return m.ID
}

// ShortName returns the model identifier with the provider prefix stripped.
func (m Model) ShortName() string {
	if idx := strings.Index(m.ID, "/"); idx >= 0 {
		return m.ID[idx+1:]
	}
	return m.ID
}

// CombinedCost is the selection ranking key: input price plus output price
// per token.
func (m Model) CombinedCost() float64 {
	return m.Pricing.Prompt + m.Pricing.Completion
}

// HasInputModality reports whether the model accepts the given input kind.
func (m Model) HasInputModality(modality string) bool {
	for _, mod := range m.Architecture.InputModalities {
		if strings.EqualFold(mod, modality) {
			return true
		}
	}
	return false
}

// HasOutputModality reports whether the model produces the given output kind.
func (m Model) HasOutputModality(modality string) bool {
	for _, mod := range m.Architecture.OutputModalities {
		if strings.EqualFold(mod, modality) {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts prices as JSON numbers or numeric strings; the
// catalog endpoint serves strings ("0.000003").
func (p *Pricing) UnmarshalJSON(data []byte) error {
	var raw struct {
		Prompt     any `json:"prompt"`
		Completion any `json:"completion"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	prompt, err := priceValue(raw.Prompt)
	if err != nil {
		return fmt.Errorf("pricing.prompt: %w", err)
	}
	completion, err := priceValue(raw.Completion)
	if err != nil {
		return fmt.Errorf("pricing.completion: %w", err)
	}

	p.Prompt = prompt
	p.Completion = completion
	return nil
}

func priceValue(v any) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return val, nil
	case string:
		if val == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported price type %T", v)
	}
}
