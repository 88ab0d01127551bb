package quotes

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/trace"
	"llm-market-analyst/internal/types"
)

// KiteSource fetches batch quotes through the Zerodha Kite Connect API, which
// accepts the full instrument list in a single GetQuote call.
type KiteSource struct {
	kc       *kiteconnect.Client
	exchange string
}

var _ interfaces.QuoteSource = (*KiteSource)(nil)

// NewKiteSource creates a Kite-backed quote source.
func NewKiteSource(apiKey, accessToken, exchange string) *KiteSource {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteSource{kc: kc, exchange: exchange}
}

// FetchQuotes retrieves quotes for all symbols in one round trip. Instruments
// the exchange has no data for are absent from the result.
func (s *KiteSource) FetchQuotes(ctx context.Context, symbols []string) (map[string]types.QuoteSnapshot, error) {
	_, span := trace.StartSpan(ctx, "kite-batch-quote")
	defer span.End()

	if len(symbols) == 0 {
		return map[string]types.QuoteSnapshot{}, nil
	}

	instruments := make([]string, len(symbols))
	byInstrument := make(map[string]string, len(symbols))
	for i, sym := range symbols {
		ins := fmt.Sprintf("%s:%s", s.exchange, sym)
		instruments[i] = ins
		byInstrument[ins] = sym
	}

	quoted, err := s.kc.GetQuote(instruments...)
	if err != nil {
		return nil, fmt.Errorf("kite batch quote failed: %w", err)
	}

	now := time.Now()
	out := make(map[string]types.QuoteSnapshot, len(quoted))
	for instrument, q := range quoted {
		sym, ok := byInstrument[instrument]
		if !ok || q.LastPrice == 0 {
			continue
		}

		changePct := 0.0
		if prevClose := q.LastPrice - q.NetChange; prevClose != 0 {
			changePct = q.NetChange / prevClose * 100.0
		}

		fetched := now
		if !q.Timestamp.Time.IsZero() {
			fetched = q.Timestamp.Time
		}

		out[sym] = types.QuoteSnapshot{
			Symbol:    sym,
			Price:     q.LastPrice,
			ChangePct: changePct,
			Volume:    int64(q.Volume),
			FetchedAt: fetched,
		}
	}

	logger.Info(ctx, "Batch quotes fetched", "requested", len(symbols), "received", len(out))
	return out, nil
}
