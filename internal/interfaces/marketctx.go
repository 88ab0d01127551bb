package interfaces

import (
	"context"

	"llm-market-analyst/internal/types"
)

// ContextProvider serves the shared market context for a batch.
type ContextProvider interface {
	Current(ctx context.Context) types.MarketContext
}
