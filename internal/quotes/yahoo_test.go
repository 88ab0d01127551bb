package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestYahooFetchQuotesOmitsMissingSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v7/finance/quote" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		// Quote data for A and C only; B omitted by the provider.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"A.NS","regularMarketPrice":101.5,"regularMarketChangePercent":1.2,"regularMarketVolume":1000,"regularMarketTime":1700000000},
			{"symbol":"C.NS","regularMarketPrice":55.0,"regularMarketChangePercent":-0.4,"regularMarketVolume":2000,"regularMarketTime":1700000000}
		],"error":null}}`))
	}))
	defer srv.Close()

	src := NewYahooSource(srv.URL, "NSE")
	got, err := src.FetchQuotes(context.Background(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(got))
	}
	if _, ok := got["B"]; ok {
		t.Error("Expected B to be absent, not zero-filled")
	}
	if q := got["A"]; q.Price != 101.5 || q.Volume != 1000 {
		t.Errorf("Unexpected quote for A: %+v", q)
	}
	if q := got["C"]; q.ChangePct != -0.4 {
		t.Errorf("Unexpected change pct for C: %v", q.ChangePct)
	}
}

func TestYahooFetchQuotesWholeCallFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewYahooSource(srv.URL, "NSE")
	if _, err := src.FetchQuotes(context.Background(), []string{"A"}); err == nil {
		t.Error("Expected error when the whole batch call fails")
	}
}

func TestYahooFetchQuotesEmptyInput(t *testing.T) {
	src := NewYahooSource("http://127.0.0.1:0", "NSE")
	got, err := src.FetchQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty map, got %d entries", len(got))
	}
}

func TestStaticSourceCoversAllSymbols(t *testing.T) {
	src := NewStaticSource()
	got, err := src.FetchQuotes(context.Background(), []string{"X", "Y"})
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(got))
	}

	again, _ := src.FetchQuotes(context.Background(), []string{"X"})
	if got["X"].Price != again["X"].Price {
		t.Error("Expected static prices to be stable across batches")
	}
}
