package analyzer

import (
	"context"
	"fmt"
	"time"

	"llm-market-analyst/internal/declog"
	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/narrative"
	"llm-market-analyst/internal/report"
	"llm-market-analyst/internal/scheduler"
	"llm-market-analyst/internal/store"
	"llm-market-analyst/internal/trace"
	"llm-market-analyst/internal/types"
	"llm-market-analyst/internal/universe"
)

// Analyzer orchestrates one batch run: fresh quotes for the whole universe,
// shared market context, fan-out to the worker pool, then aggregation and a
// snapshot on disk.
type Analyzer struct {
	cfg       *store.Config
	universe  *universe.Universe
	quotes    interfaces.QuoteSource
	marketCtx interfaces.ContextProvider
	oracle    interfaces.Oracle
	pool      *scheduler.Pool
	snapshots *report.Snapshotter
	journal   *declog.Journal
}

func New(cfg *store.Config, uni *universe.Universe, quotes interfaces.QuoteSource, marketCtx interfaces.ContextProvider, oracle interfaces.Oracle, snapshots *report.Snapshotter, journal *declog.Journal) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		universe:  uni,
		quotes:    quotes,
		marketCtx: marketCtx,
		oracle:    oracle,
		pool:      scheduler.NewPool(cfg.Batch.Workers, time.Duration(cfg.Batch.TaskTimeoutSeconds)*time.Second),
		snapshots: snapshots,
		journal:   journal,
	}
}

// RunBatch executes one full analysis pass over the universe. Per-instrument
// failures (missing quote, oracle error, task timeout) exclude that
// instrument and keep the batch going; even a total quote outage completes
// the batch with zero decisions. The returned error covers only faults that
// leave the run without a usable result, currently just snapshot
// persistence.
func (a *Analyzer) RunBatch(ctx context.Context) (types.BatchResult, error) {
	ctx, span := trace.StartSpan(ctx, "batch.Run")
	defer span.End()

	startedAt := time.Now()
	symbols := a.universe.Symbols()
	submitted := len(symbols)

	logger.Batch(ctx, "batch_started", submitted, 0)

	quoted := a.fetchQuotes(ctx, symbols)
	mc := a.marketCtx.Current(ctx)

	eligible := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if _, ok := quoted[sym]; ok {
			eligible = append(eligible, sym)
		} else {
			logger.Warn(ctx, "Instrument excluded, no quote", "symbol", sym)
		}
	}

	decisions, errs := scheduler.Map(ctx, a.pool, len(eligible), func(tctx context.Context, i int) (types.Decision, error) {
		return a.analyzeOne(tctx, eligible[i], quoted[eligible[i]], mc)
	})

	settled := make([]types.Decision, 0, len(decisions))
	for i, err := range errs {
		if err != nil {
			logger.ErrorWithErr(ctx, "Instrument excluded from batch", err, "symbol", eligible[i])
			continue
		}
		settled = append(settled, decisions[i])
	}

	result := report.Aggregate(settled, submitted, mc.Summary, startedAt)

	if a.journal != nil {
		for _, d := range result.Decisions {
			if err := a.journal.Append(d, startedAt); err != nil {
				logger.Warn(ctx, "Failed to journal decision", "symbol", d.Symbol, "error", err.Error())
			}
		}
	}

	if a.snapshots != nil {
		if _, err := a.snapshots.Write(ctx, result); err != nil {
			return result, fmt.Errorf("persisting batch result: %w", err)
		}
	}

	logger.Batch(ctx, "batch_completed", submitted, len(settled),
		"buy", result.Counts.Buy,
		"sell", result.Counts.Sell,
		"hold", result.Counts.Hold,
		"elapsed_ms", result.ElapsedMs)

	return result, nil
}

// fetchQuotes pulls fresh quotes for the whole universe in one provider
// call. An outage degrades to an empty map so the batch still settles.
func (a *Analyzer) fetchQuotes(ctx context.Context, symbols []string) map[string]types.QuoteSnapshot {
	if len(symbols) == 0 {
		return nil
	}
	quoted, err := a.quotes.FetchQuotes(ctx, symbols)
	if err != nil {
		logger.ErrorWithErr(ctx, "Quote fetch failed, batch completes empty", err, "symbols", len(symbols))
		return nil
	}
	return quoted
}

// analyzeOne produces the decision for a single instrument. The narrative
// parser never fails, so the only error paths are the oracle call itself.
func (a *Analyzer) analyzeOne(ctx context.Context, symbol string, quote types.QuoteSnapshot, mc types.MarketContext) (types.Decision, error) {
	ins, _ := a.universe.Lookup(symbol)

	text, err := a.oracle.Narrate(ctx, BuildPrompt(ins, quote, mc))
	if err != nil {
		return types.Decision{}, fmt.Errorf("narrative for %s: %w", symbol, err)
	}

	out := narrative.Parse(text)
	if out.Kind != narrative.Recognized {
		logger.Warn(ctx, "Narrative only partially recognized", "symbol", symbol, "kind", out.Kind.String(), "missing", fmt.Sprint(out.Missing))
	}

	d := narrative.Decision(symbol, quote, out)
	logger.Decision(ctx, d.Symbol, d.Action, d.Strength, d.Confidence)
	return d, nil
}
