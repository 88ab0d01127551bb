package quotes

import (
	"fmt"
	"os"

	"llm-market-analyst/internal/interfaces"
	"llm-market-analyst/internal/store"
)

// New builds the quote source configured in quotes.provider.
func New(cfg *store.Config) (interfaces.QuoteSource, error) {
	switch cfg.Quotes.Provider {
	case "YAHOO":
		return NewYahooSource(cfg.Quotes.Endpoint, cfg.Quotes.Exchange), nil
	case "KITE":
		apiKey := os.Getenv("KITE_API_KEY")
		accessToken := os.Getenv("KITE_ACCESS_TOKEN")
		if apiKey == "" || accessToken == "" {
			return nil, fmt.Errorf("KITE provider requires KITE_API_KEY and KITE_ACCESS_TOKEN")
		}
		return NewKiteSource(apiKey, accessToken, cfg.Quotes.Exchange), nil
	case "STATIC":
		return NewStaticSource(), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", cfg.Quotes.Provider)
	}
}
