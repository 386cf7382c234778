package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/notchrisgroves/ia-framework-sdk/pkg/adapter"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/catalog"
	"github.com/notchrisgroves/ia-framework-sdk/pkg/config"
)

// ComparisonSide pairs a selected model with its generation result.
type ComparisonSide struct {
	Model    catalog.Model     `json:"model"`
	Response *adapter.Response `json:"response"`
}

// Comparison holds the paired results of a two-model comparison run.
type Comparison struct {
	Primary   ComparisonSide `json:"primary"`
	Secondary ComparisonSide `json:"secondary"`
}

// CompareModels resolves a phase's primary and secondary requirements
// independently, runs both generation calls in parallel and returns the
// paired results. Whether one output supersedes the other is decided by the
// caller against the phase's DecisionCriteria.
func (r *Resolver) CompareModels(ctx context.Context, skill, phase, prompt string, gen adapter.Generator) (*Comparison, error) {
	p, ok := r.registry.PhaseConfig(skill, phase)
	if !ok {
		return nil, &config.ConfigError{Reason: fmt.Sprintf("unknown workflow phase %s/%s", skill, phase)}
	}
	if p.Secondary == nil {
		return nil, &config.ConfigError{Reason: fmt.Sprintf("phase %s/%s has no comparison requirement", skill, phase)}
	}

	primaryModel, err := r.selector.FindModel(ctx, p.Primary)
	if err != nil {
		return nil, err
	}
	secondaryModel, err := r.selector.FindModel(ctx, *p.Secondary)
	if err != nil {
		return nil, err
	}
	if primaryModel == nil {
		return nil, fmt.Errorf("no model satisfies the primary requirement (%s)", p.Primary.Capability)
	}
	if secondaryModel == nil {
		return nil, fmt.Errorf("no model satisfies the comparison requirement (%s)", p.Secondary.Capability)
	}

	comparison := &Comparison{
		Primary:   ComparisonSide{Model: *primaryModel},
		Secondary: ComparisonSide{Model: *secondaryModel},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := gen.Generate(gctx, primaryModel.ID, prompt)
		if err != nil {
			return err
		}
		comparison.Primary.Response = resp
		return nil
	})
	g.Go(func() error {
		resp, err := gen.Generate(gctx, secondaryModel.ID, prompt)
		if err != nil {
			return err
		}
		comparison.Secondary.Response = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return comparison, nil
}
