package quotes

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/types"
)

// StaticSource produces synthetic quotes for DRY_RUN mode and tests. Prices
// are derived from the symbol so repeated batches stay comparable.
type StaticSource struct{}

var _ interfaces.QuoteSource = (*StaticSource)(nil)

// NewStaticSource creates a synthetic quote source.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

// FetchQuotes returns a synthetic quote for every requested symbol.
func (s *StaticSource) FetchQuotes(ctx context.Context, symbols []string) (map[string]types.QuoteSnapshot, error) {
	now := time.Now()
	out := make(map[string]types.QuoteSnapshot, len(symbols))
	for _, sym := range symbols {
		h := fnv.New64a()
		h.Write([]byte(sym))
		rng := rand.New(rand.NewSource(int64(h.Sum64())))

		base := 100 + rng.Float64()*2000
		out[sym] = types.QuoteSnapshot{
			Symbol:    sym,
			Price:     base,
			ChangePct: (rng.Float64() - 0.5) * 6,
			Volume:    int64(rng.Intn(5_000_000)),
			FetchedAt: now,
		}
	}
	return out, nil
}
