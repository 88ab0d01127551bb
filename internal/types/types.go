package types

import "time"

// Trading actions produced by the narrative parser.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// Signal strengths extracted from the narrative.
const (
	StrengthStrong = "STRONG"
	StrengthMedium = "MEDIUM"
	StrengthWeak   = "WEAK"
)

// Instrument is a tradeable symbol with a display name. Looked up from the
// static universe table, never mutated.
type Instrument struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
}

// QuoteSnapshot is one instrument's market data as fetched at the start of a
// batch. Read-only after creation.
type QuoteSnapshot struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	ChangePct float64   `json:"change_pct"`
	Volume    int64     `json:"volume"`
	FetchedAt time.Time `json:"fetched_at"`
}

// MarketContext describes market-wide conditions shared by every task in a
// batch. Replaced wholesale by the TTL cache on expiry, never partially
// mutated.
type MarketContext struct {
	Summary     string    `json:"summary"`
	Headlines   []string  `json:"headlines,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Decision is the structured outcome for a single instrument. Immutable once
// created by the parser.
type Decision struct {
	Symbol     string    `json:"symbol"`
	Action     string    `json:"action"`
	Strength   string    `json:"strength"`
	Confidence float64   `json:"confidence"`
	Rationale  string    `json:"rationale"`
	Risk       string    `json:"risk"`
	Price      float64   `json:"price"`
	ChangePct  float64   `json:"change_pct"`
	Volume     int64     `json:"volume"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActionCounts holds per-category decision totals for a batch.
type ActionCounts struct {
	Buy  int `json:"buy"`
	Sell int `json:"sell"`
	Hold int `json:"hold"`
}

// Total returns the sum across all categories.
func (c ActionCounts) Total() int { return c.Buy + c.Sell + c.Hold }

// BatchResult is the outcome of one batch run. Decisions are sorted by
// descending confidence once all tasks have settled; Buckets holds the same
// decisions partitioned by action, each bucket in the same order.
type BatchResult struct {
	Decisions     []Decision            `json:"decisions"`
	Buckets       map[string][]Decision `json:"buckets"`
	Counts        ActionCounts          `json:"counts"`
	Submitted     int                   `json:"submitted"`
	MarketContext string                `json:"market_context"`
	StartedAt     time.Time             `json:"started_at"`
	ElapsedMs     int64                 `json:"elapsed_ms"`
}
