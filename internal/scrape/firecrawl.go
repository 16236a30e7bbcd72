package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cf-tutor/internal/model"
	"github.com/sells-group/cf-tutor/internal/resilience"
	"github.com/sells-group/cf-tutor/pkg/firecrawl"
)

// FirecrawlAdapter scrapes single pages through Firecrawl, requesting the
// raw HTML format.
type FirecrawlAdapter struct {
	client  firecrawl.Client
	breaker *resilience.CircuitBreaker
}

// NewFirecrawlAdapter wraps client. A nil breaker gets the defaults.
func NewFirecrawlAdapter(client firecrawl.Client, breaker *resilience.CircuitBreaker) *FirecrawlAdapter {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig())
	}
	return &FirecrawlAdapter{client: client, breaker: breaker}
}

// Name implements Scraper.
func (f *FirecrawlAdapter) Name() string { return "firecrawl" }

// Supports reports false while the breaker is open.
func (f *FirecrawlAdapter) Supports(_ string) bool {
	return f.breaker.State() != resilience.CircuitOpen
}

// Scrape fetches targetURL via the scrape endpoint.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	return resilience.ExecuteVal(ctx, f.breaker, func(ctx context.Context) (*Result, error) {
		resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
			URL:     targetURL,
			Formats: []string{firecrawl.FormatRawHTML},
		})
		if err != nil {
			return nil, err
		}
		if !resp.Success {
			return nil, eris.New("firecrawl: scrape not successful")
		}

		html := resp.Data.RawHTML
		if html == "" {
			html = resp.Data.HTML
		}
		if html == "" {
			return nil, eris.New("firecrawl: empty html")
		}

		page := model.FetchedPage{
			URL:        resp.Data.Metadata.SourceURL,
			Title:      resp.Data.Metadata.Title,
			HTML:       html,
			StatusCode: resp.Data.Metadata.StatusCode,
		}
		if page.URL == "" {
			page.URL = targetURL
		}
		return &Result{Page: page, Source: f.Name()}, nil
	})
}
