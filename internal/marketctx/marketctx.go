package marketctx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"llm-market-analyst/internal/cache"
	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/store"
	"llm-market-analyst/internal/trace"
	"llm-market-analyst/internal/types"
	"llm-market-analyst/internal/universe"
)

// FallbackSummary is served when market context was never successfully loaded.
const FallbackSummary = "market context unavailable; proceed on instrument data alone"

// Provider owns the shared MarketContext value behind a TTL cache. The
// context is loaded at most once per TTL window regardless of batch size;
// concurrent readers during a load share the in-flight result.
type Provider struct {
	cfg    *store.Config
	quotes interfaces.QuoteSource
	cache  *cache.TTL[types.MarketContext]
}

// NewProvider creates a market context provider.
func NewProvider(cfg *store.Config, quotes interfaces.QuoteSource) *Provider {
	fallback := types.MarketContext{
		Summary:     FallbackSummary,
		GeneratedAt: time.Time{},
	}
	return &Provider{
		cfg:    cfg,
		quotes: quotes,
		cache:  cache.NewTTL(time.Duration(cfg.MarketContext.TTLSeconds)*time.Second, fallback),
	}
}

// Current returns the shared market context, loading it if the cached value
// has expired. Never fails; a loader error serves the previous value or the
// documented fallback.
func (p *Provider) Current(ctx context.Context) types.MarketContext {
	return p.cache.GetOrLoad(ctx, p.load)
}

// Invalidate discards the cached context so the next read reloads.
func (p *Provider) Invalidate() { p.cache.Invalidate() }

// load assembles a fresh context from index quotes and, when enabled, top
// financial headlines.
func (p *Provider) load(ctx context.Context) (types.MarketContext, error) {
	ctx, span := trace.StartSpan(ctx, "load-market-context")
	defer span.End()

	// Config-supplied, so duplicates are possible.
	indices := universe.Dedupe(p.cfg.MarketContext.Indices)
	if len(indices) == 0 {
		indices = []string{"^NSEI", "^BSESN"}
	}

	quoted, err := p.quotes.FetchQuotes(ctx, indices)
	if err != nil {
		return types.MarketContext{}, fmt.Errorf("index quotes failed: %w", err)
	}
	if len(quoted) == 0 {
		return types.MarketContext{}, fmt.Errorf("no index data returned")
	}

	parts := make([]string, 0, len(indices))
	for _, idx := range indices {
		q, ok := quoted[idx]
		if !ok {
			continue
		}
		direction := "flat"
		if q.ChangePct > 0.15 {
			direction = "up"
		} else if q.ChangePct < -0.15 {
			direction = "down"
		}
		parts = append(parts, fmt.Sprintf("%s %s %.2f%% at %.2f", idx, direction, q.ChangePct, q.Price))
	}

	mc := types.MarketContext{
		Summary:     "Indices: " + strings.Join(parts, "; "),
		GeneratedAt: time.Now(),
	}

	if p.cfg.MarketContext.Headlines {
		headlines, err := ScrapeHeadlines(ctx, p.cfg.MarketContext.MaxHeadlines)
		if err != nil {
			logger.Warn(ctx, "Headline scrape failed, context uses indices only", "error", err)
		} else {
			mc.Headlines = headlines
		}
	}

	logger.Info(ctx, "Market context refreshed", "indices", len(parts), "headlines", len(mc.Headlines))
	return mc, nil
}
