package impact

import (
	"errors"
	"fmt"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

var ErrUnknownSite = errors.New("unknown target site")

// InvalidParameterError rejects a physical input before any arithmetic is
// done with it.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// UnknownSeverityError means a severity value outside the four known tiers
// reached a lookup table. It indicates a bug in the caller.
type UnknownSeverityError struct {
	Severity models.SeverityLevel
}

func (e *UnknownSeverityError) Error() string {
	return fmt.Sprintf("unknown severity level %q", string(e.Severity))
}
