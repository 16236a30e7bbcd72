// Package scrape fetches Codeforces pages as raw HTML, falling back to
// proxy services when direct requests are challenged.
package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNotAllowed is returned for URLs rejected by the chain's PathMatcher.
var ErrNotAllowed = eris.New("scrape: url not allowed")

// Chain tries scrapers in priority order and returns the first success.
// Each scraper is attempted at most once per Fetch.
type Chain struct {
	matcher  *PathMatcher
	scrapers []Scraper
	observe  func(scraper string, err error)
}

// NewChain creates a Chain. A nil matcher allows every http(s) URL.
func NewChain(matcher *PathMatcher, scrapers ...Scraper) *Chain {
	if matcher == nil {
		matcher = NewPathMatcher(nil, nil)
	}
	return &Chain{matcher: matcher, scrapers: scrapers}
}

// WithObserver registers a callback invoked after every scraper attempt.
func (c *Chain) WithObserver(fn func(scraper string, err error)) *Chain {
	c.observe = fn
	return c
}

// Names lists the configured scrapers in order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.scrapers))
	for _, s := range c.scrapers {
		names = append(names, s.Name())
	}
	return names
}

// Fetch returns the first successful scrape of targetURL.
func (c *Chain) Fetch(ctx context.Context, targetURL string) (*Result, error) {
	if !c.matcher.Allows(targetURL) {
		return nil, eris.Wrapf(ErrNotAllowed, "scrape: %s", targetURL)
	}

	var lastErr error
	for _, s := range c.scrapers {
		if !s.Supports(targetURL) {
			continue
		}
		result, err := s.Scrape(ctx, targetURL)
		if c.observe != nil {
			c.observe(s.Name(), err)
		}
		if err == nil && result != nil {
			return result, nil
		}
		if err == nil {
			err = eris.Errorf("scrape: %s returned no page", s.Name())
		}
		zap.L().Debug("scrape: scraper failed, trying next",
			zap.String("scraper", s.Name()),
			zap.String("url", targetURL),
			zap.Error(err),
		)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}
