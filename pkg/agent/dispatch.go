package agent

import (
	"context"
	"strings"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/adapter"
)

// Dispatcher routes a generation call to the adapter registered for the
// model's provider prefix. Native adapters always receive the model id with
// the provider prefix stripped; only a passthrough adapter (a gateway that
// serves many providers, like OpenRouter) receives full catalog identifiers.
type Dispatcher struct {
	adapters    map[string]adapter.Adapter
	defaultName string
	passthrough string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPassthrough names the adapter that accepts full catalog identifiers.
// Without it every adapter is treated as native and gets short model names.
func WithPassthrough(name string) DispatcherOption {
	return func(d *Dispatcher) {
		d.passthrough = name
	}
}

// NewDispatcher creates a dispatcher. defaultName must be a key of
// adapters; calls for providers with no registered adapter go there.
func NewDispatcher(adapters map[string]adapter.Adapter, defaultName string, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{adapters: adapters, defaultName: defaultName}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Adapter returns a registered adapter by provider name.
func (d *Dispatcher) Adapter(name string) (adapter.Adapter, bool) {
	a, ok := d.adapters[name]
	return a, ok
}

// Generate sends the prompt to the adapter owning the model's provider.
func (d *Dispatcher) Generate(ctx context.Context, modelID string, prompt string) (*adapter.Response, error) {
	provider, short := splitModelID(modelID)

	if a, ok := d.adapters[provider]; ok && provider != d.passthrough {
		return a.Generate(ctx, short, prompt)
	}

	a, ok := d.adapters[d.defaultName]
	if !ok {
		return nil, &adapter.GenerationError{Provider: provider, Err: errNoAdapter(provider)}
	}
	if d.defaultName == d.passthrough {
		return a.Generate(ctx, modelID, prompt)
	}
	return a.Generate(ctx, short, prompt)
}

func splitModelID(modelID string) (provider, short string) {
	if idx := strings.Index(modelID, "/"); idx >= 0 {
		return modelID[:idx], modelID[idx+1:]
	}
	return modelID, modelID
}

type errNoAdapter string

func (e errNoAdapter) Error() string {
	return "no adapter available for provider " + string(e)
}
