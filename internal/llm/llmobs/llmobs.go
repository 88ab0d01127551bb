package llmobs

import (
	"context"

	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/trace"
)

// observableOracle wraps an Oracle with observability (logging & tracing)
type observableOracle struct {
	oracle interfaces.Oracle
}

// Compile-time interface check
var _ interfaces.Oracle = (*observableOracle)(nil)

// Wrap wraps an oracle with observability middleware
func Wrap(oracle interfaces.Oracle) interfaces.Oracle {
	return &observableOracle{
		oracle: oracle,
	}
}

// Narrate requests a narrative with observability
func (oo *observableOracle) Narrate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Narrate")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting narrative", "prompt_len", len(prompt))

	text, err := oo.oracle.Narrate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get narrative", err)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Narrative received", "narrative_len", len(text))
	return text, nil
}
