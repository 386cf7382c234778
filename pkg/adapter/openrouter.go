package adapter

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/artifact"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterAdapter implements the Adapter interface against OpenRouter's
// OpenAI-compatible chat endpoint. It accepts any full catalog identifier
// ("provider/model"), which is why it serves as the default dispatch target.
type OpenRouterAdapter struct {
	client openai.Client
}

// NewOpenRouterAdapter creates a new OpenRouter adapter.
func NewOpenRouterAdapter(apiKey string, opts ...option.RequestOption) (*OpenRouterAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	options := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(openRouterBaseURL),
	}, opts...)

	return &OpenRouterAdapter{client: openai.NewClient(options...)}, nil
}

// Name returns the adapter identifier.
func (a *OpenRouterAdapter) Name() string {
	return "openrouter"
}

// Generate sends a prompt through OpenRouter and returns the response.
func (a *OpenRouterAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(4096),
	})
	if err != nil {
		return nil, &GenerationError{Provider: a.Name(), Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &GenerationError{Provider: a.Name(), Err: fmt.Errorf("no choices returned")}
	}

	content := resp.Choices[0].Message.Content
	art := artifact.New(content, a.Name(), model, prompt)
	usage := &Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return &Response{Artifact: art, Usage: usage}, nil
}
