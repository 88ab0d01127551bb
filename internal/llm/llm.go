package llm

import (
	"context"

	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/llm/claude"
	"llm-market-analyst/internal/llm/llmobs"
	"llm-market-analyst/internal/llm/noop"
	"llm-market-analyst/internal/llm/openai"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/store"
)

// New builds the configured narrative oracle, wrapped with observability
// middleware.
func New(ctx context.Context, cfg *store.Config) interfaces.Oracle {
	var oracle interfaces.Oracle

	switch cfg.LLM.Provider {
	case "OPENAI":
		oracle = openai.NewOracle(cfg)
	case "CLAUDE":
		oracle = claude.NewOracle(cfg)
	default:
		oracle = noop.NewOracle()
		logger.Warn(ctx, "No LLM provider configured - using noop oracle (always HOLD narrative)")
	}

	return llmobs.Wrap(oracle)
}
