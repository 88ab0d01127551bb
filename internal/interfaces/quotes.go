package interfaces

import (
	"context"

	"llm-market-analyst/internal/types"
)

// QuoteSource fetches current market data for many instruments in one round
// trip. Instruments with no data are absent from the returned map, not
// zero-filled.
type QuoteSource interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]types.QuoteSnapshot, error)
}
