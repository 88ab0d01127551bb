package quotes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"llm-market-analyst/internal/api"
	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/trace"
	"llm-market-analyst/internal/types"
)

const defaultYahooEndpoint = "https://query1.finance.yahoo.com"

// YahooSource fetches batch quotes from the Yahoo Finance v7 quote API. One
// network call covers the full symbol list; symbols Yahoo has no data for are
// simply missing from the response.
type YahooSource struct {
	client   *api.Client
	exchange string
}

var _ interfaces.QuoteSource = (*YahooSource)(nil)

// NewYahooSource creates a Yahoo-backed quote source. endpoint overrides the
// public API host, mainly for tests.
func NewYahooSource(endpoint, exchange string) *YahooSource {
	if endpoint == "" {
		endpoint = defaultYahooEndpoint
	}
	return &YahooSource{
		client: api.NewClient(
			api.WithBaseURL(endpoint),
			api.WithTimeout(20*time.Second),
			api.WithLogging(true),
		),
		exchange: exchange,
	}
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketVolume        int64   `json:"regularMarketVolume"`
			RegularMarketTime          int64   `json:"regularMarketTime"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// FetchQuotes retrieves quotes for all symbols in one round trip.
func (s *YahooSource) FetchQuotes(ctx context.Context, symbols []string) (map[string]types.QuoteSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "yahoo-batch-quote")
	defer span.End()

	if len(symbols) == 0 {
		return map[string]types.QuoteSnapshot{}, nil
	}

	wire := make([]string, len(symbols))
	for i, sym := range symbols {
		wire[i] = s.wireSymbol(sym)
	}

	path := "/v7/finance/quote?symbols=" + url.QueryEscape(strings.Join(wire, ","))
	req := api.NewRequest(http.MethodGet, path).WithContext(ctx)
	for k, v := range api.YahooFinanceHeaders() {
		req.WithHeader(k, v)
	}

	resp, err := s.client.DoWithRetry(req, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo batch quote failed: %w", err)
	}

	var parsed yahooQuoteResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, err
	}

	now := time.Now()
	out := make(map[string]types.QuoteSnapshot, len(parsed.QuoteResponse.Result))
	for _, r := range parsed.QuoteResponse.Result {
		if r.RegularMarketPrice == 0 {
			continue
		}
		sym := s.localSymbol(r.Symbol)
		fetched := now
		if r.RegularMarketTime > 0 {
			fetched = time.Unix(r.RegularMarketTime, 0)
		}
		out[sym] = types.QuoteSnapshot{
			Symbol:    sym,
			Price:     r.RegularMarketPrice,
			ChangePct: r.RegularMarketChangePercent,
			Volume:    r.RegularMarketVolume,
			FetchedAt: fetched,
		}
	}

	logger.Info(ctx, "Batch quotes fetched", "requested", len(symbols), "received", len(out))
	return out, nil
}

// wireSymbol maps a local symbol to Yahoo's exchange-suffixed form.
func (s *YahooSource) wireSymbol(symbol string) string {
	if strings.HasPrefix(symbol, "^") || strings.Contains(symbol, ".") {
		return symbol
	}
	switch s.exchange {
	case "NSE":
		return symbol + ".NS"
	case "BSE":
		return symbol + ".BO"
	default:
		return symbol
	}
}

func (s *YahooSource) localSymbol(wire string) string {
	wire = strings.TrimSuffix(wire, ".NS")
	return strings.TrimSuffix(wire, ".BO")
}
