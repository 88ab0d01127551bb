package noop

import (
	"context"

	"llm-market-analyst/internal/logger"
)

// Oracle is a fallback narrative source used when no LLM is configured
type Oracle struct{}

// NewOracle returns an oracle that always narrates a weak hold
func NewOracle() *Oracle {
	return &Oracle{}
}

// Narrate implements the Oracle interface with a canned hold narrative
func (o *Oracle) Narrate(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Noop oracle called - always narrates HOLD")
	return "Action: hold\nStrength: weak\nRationale: no narrative provider configured\nRisk: decisions without narrative input carry no conviction", nil
}
