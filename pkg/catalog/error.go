package catalog

import (
	"errors"
	"fmt"
)

// DiscoveryError wraps a failed catalog fetch: network failure, auth
// rejection, non-2xx status or a malformed response body. A catalog with
// no capability-satisfying model is NOT a DiscoveryError; that outcome is
// a nil/empty result at the selection layer.
type DiscoveryError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *DiscoveryError) Error() string {
	if e == nil {
		return "model discovery failed"
	}
	if e.Status != 0 {
		return fmt.Sprintf("model discovery failed: %s returned status %d", e.Endpoint, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("model discovery failed: %v", e.Err)
	}
	return "model discovery failed"
}

func (e *DiscoveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsDiscoveryError reports whether err is (or wraps) a DiscoveryError.
func IsDiscoveryError(err error) bool {
	var discErr *DiscoveryError
	return errors.As(err, &discErr)
}
