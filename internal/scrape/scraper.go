package scrape

import (
	"context"

	"github.com/sells-group/cf-tutor/internal/model"
)

// Result is a fetched page with the name of the scraper that produced it.
type Result struct {
	Page   model.FetchedPage
	Source string
}

// Scraper fetches a single URL as raw HTML.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
	Supports(url string) bool
}

// Fetcher is what consumers of this package depend on.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}
