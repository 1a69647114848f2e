package mitigation

import (
	"fmt"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

type UnknownStrategyError struct {
	ID models.StrategyID
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown mitigation strategy %q", string(e.ID))
}

type InvalidConstraintError struct {
	Field string
	Value float64
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid mission constraint %s: %v must be non-negative", e.Field, e.Value)
}
