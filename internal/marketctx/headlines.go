package marketctx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"llm-market-analyst/internal/logger"
)

// headlineSource defines a market-news page and the selector for its
// headline links.
type headlineSource struct {
	Name     string
	URL      string
	Domain   string
	Selector string
}

func defaultHeadlineSources() []headlineSource {
	return []headlineSource{
		{
			Name:     "MoneyControl",
			URL:      "https://www.moneycontrol.com/news/business/markets/",
			Domain:   "www.moneycontrol.com",
			Selector: "li.clearfix h2 a",
		},
		{
			Name:     "EconomicTimes",
			URL:      "https://economictimes.indiatimes.com/markets",
			Domain:   "economictimes.indiatimes.com",
			Selector: "div.eachStory h3 a",
		},
	}
}

// ScrapeHeadlines collects up to max market headlines from the configured
// news pages. Sources that fail are skipped.
func ScrapeHeadlines(ctx context.Context, max int) ([]string, error) {
	headlines := []string{}

	for _, source := range defaultHeadlineSources() {
		if len(headlines) >= max {
			break
		}

		found, err := scrapeSource(source, max-len(headlines))
		if err != nil {
			logger.Warn(ctx, "Failed to scrape headline source", "source", source.Name, "error", err)
			continue
		}
		headlines = append(headlines, found...)
	}

	if len(headlines) == 0 {
		return nil, fmt.Errorf("no headlines from any source")
	}
	return headlines, nil
}

func scrapeSource(source headlineSource, max int) ([]string, error) {
	headlines := []string{}

	c := colly.NewCollector(
		colly.AllowedDomains(source.Domain),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(10 * time.Second)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML(source.Selector, func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		title := strings.TrimSpace(e.Text)
		if len(title) < 20 {
			return
		}
		headlines = append(headlines, title)
	})

	if err := c.Visit(source.URL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", source.URL, err)
	}
	c.Wait()

	return headlines, nil
}
