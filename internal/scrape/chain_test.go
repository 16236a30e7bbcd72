package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cf-tutor/internal/model"
)

type stubScraper struct {
	name     string
	supports bool
	result   *Result
	err      error
	calls    int
}

func (s *stubScraper) Name() string           { return s.name }
func (s *stubScraper) Supports(_ string) bool { return s.supports }
func (s *stubScraper) Scrape(_ context.Context, _ string) (*Result, error) {
	s.calls++
	return s.result, s.err
}

const problemURL = "https://codeforces.com/contest/2135/problem/B"

func page(source string) *Result {
	return &Result{Page: model.FetchedPage{URL: problemURL, HTML: "<html></html>", StatusCode: 200}, Source: source}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	t.Parallel()

	s1 := &stubScraper{name: "local_http", supports: true, result: page("local_http")}
	s2 := &stubScraper{name: "jina", supports: true, result: page("jina")}

	res, err := NewChain(NewPathMatcher(DefaultHosts, nil), s1, s2).Fetch(context.Background(), problemURL)
	require.NoError(t, err)
	assert.Equal(t, "local_http", res.Source)
	assert.Equal(t, 0, s2.calls)
}

func TestChain_FallsBackOncePerScraper(t *testing.T) {
	t.Parallel()

	s1 := &stubScraper{name: "local_http", supports: true, err: errors.New("blocked")}
	s2 := &stubScraper{name: "jina", supports: false}
	s3 := &stubScraper{name: "firecrawl", supports: true, result: page("firecrawl")}

	var observed []string
	chain := NewChain(nil, s1, s2, s3).WithObserver(func(name string, err error) {
		observed = append(observed, name)
	})

	res, err := chain.Fetch(context.Background(), problemURL)
	require.NoError(t, err)
	assert.Equal(t, "firecrawl", res.Source)
	assert.Equal(t, 1, s1.calls)
	assert.Equal(t, 0, s2.calls)
	assert.Equal(t, []string{"local_http", "firecrawl"}, observed)
	assert.Equal(t, []string{"local_http", "jina", "firecrawl"}, chain.Names())
}

func TestChain_AllFail(t *testing.T) {
	t.Parallel()

	s1 := &stubScraper{name: "a", supports: true, err: errors.New("a down")}
	s2 := &stubScraper{name: "b", supports: true}

	_, err := NewChain(nil, s1, s2).Fetch(context.Background(), problemURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all scrapers failed")
	assert.Contains(t, err.Error(), "b returned no page")
}

func TestChain_NoSuitableScraper(t *testing.T) {
	t.Parallel()

	_, err := NewChain(nil, &stubScraper{name: "a"}).Fetch(context.Background(), problemURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no suitable scraper")
}

func TestChain_RejectsDisallowedURL(t *testing.T) {
	t.Parallel()

	s := &stubScraper{name: "a", supports: true, result: page("a")}
	_, err := NewChain(NewPathMatcher(DefaultHosts, nil), s).Fetch(context.Background(), "https://example.com/contest/1/problem/A")
	assert.ErrorIs(t, err, ErrNotAllowed)
	assert.Equal(t, 0, s.calls)
}
