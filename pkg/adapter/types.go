package adapter

import "github.com/notchrisgroves/ia-framework-sdk/pkg/artifact"

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Cost captures a normalized cost estimate for one call.
type Cost struct {
	Currency   string  `json:"currency"`
	Amount     float64 `json:"amount"`
	IsEstimate bool    `json:"is_estimate"`
}

// Response wraps an adapter output and optional usage data.
type Response struct {
	Artifact *artifact.Artifact
	Usage    *Usage
}

// EstimateCost prices a call from per-token rates. Rates come from the
// catalog descriptor of the model that served the call.
func EstimateCost(usage Usage, promptPrice, completionPrice float64) Cost {
	return Cost{
		Currency:   "USD",
		Amount:     float64(usage.PromptTokens)*promptPrice + float64(usage.CompletionTokens)*completionPrice,
		IsEstimate: true,
	}
}
