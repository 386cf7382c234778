package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// GenerationError wraps a downstream provider failure, tagged with the
// provider name so the boundary layer can map it without losing the
// underlying message.
type GenerationError struct {
	Provider string
	Status   int
	Err      error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return "generation failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s generation failed (status=%d)", e.Provider, e.Status)
}

func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsTransient reports whether an error is safe to retry. The core never
// retries; this classification is for the calling layer.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Status == 429 || (genErr.Status >= 500 && genErr.Status <= 599)
	}
	return false
}
