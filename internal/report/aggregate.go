package report

import (
	"sort"
	"time"

	"llm-market-analyst/internal/types"
)

// Aggregate assembles a BatchResult from the decisions that settled in one
// run. Decisions are ordered by descending confidence, ties broken by symbol
// so identical inputs always serialize identically. submitted is the deduped
// instrument count the batch started with; excluded instruments show up as
// the gap between submitted and len(decisions).
func Aggregate(decisions []types.Decision, submitted int, marketSummary string, startedAt time.Time) types.BatchResult {
	sorted := make([]types.Decision, len(decisions))
	copy(sorted, decisions)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})

	var counts types.ActionCounts
	buckets := map[string][]types.Decision{
		types.ActionBuy:  {},
		types.ActionSell: {},
		types.ActionHold: {},
	}
	for _, d := range sorted {
		switch d.Action {
		case types.ActionBuy:
			counts.Buy++
			buckets[types.ActionBuy] = append(buckets[types.ActionBuy], d)
		case types.ActionSell:
			counts.Sell++
			buckets[types.ActionSell] = append(buckets[types.ActionSell], d)
		default:
			counts.Hold++
			buckets[types.ActionHold] = append(buckets[types.ActionHold], d)
		}
	}

	return types.BatchResult{
		Decisions:     sorted,
		Buckets:       buckets,
		Counts:        counts,
		Submitted:     submitted,
		MarketContext: marketSummary,
		StartedAt:     startedAt,
		ElapsedMs:     time.Since(startedAt).Milliseconds(),
	}
}
