package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cf-tutor/internal/model"
	"github.com/sells-group/cf-tutor/internal/resilience"
	"github.com/sells-group/cf-tutor/pkg/jina"
)

// JinaAdapter fetches pages through the Jina Reader. Calls go through a
// circuit breaker; while it is open the adapter reports itself unsupported
// and the chain skips it.
type JinaAdapter struct {
	client  jina.Client
	breaker *resilience.CircuitBreaker
}

// NewJinaAdapter wraps client. A nil breaker gets the defaults.
func NewJinaAdapter(client jina.Client, breaker *resilience.CircuitBreaker) *JinaAdapter {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig())
	}
	return &JinaAdapter{client: client, breaker: breaker}
}

func (j *JinaAdapter) Name() string { return "jina" }

// Supports reports false while the breaker is open.
func (j *JinaAdapter) Supports(_ string) bool {
	return j.breaker.State() != resilience.CircuitOpen
}

// Scrape reads targetURL through the Reader.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	return resilience.ExecuteVal(ctx, j.breaker, func(ctx context.Context) (*Result, error) {
		resp, err := j.client.Read(ctx, targetURL)
		if err != nil {
			return nil, err
		}
		if needsFallback(resp) {
			return nil, eris.New("jina: response needs fallback")
		}

		page := model.FetchedPage{
			URL:        resp.Data.URL,
			Title:      resp.Data.Title,
			HTML:       resp.Data.Body(),
			StatusCode: resp.Code,
		}
		if page.URL == "" {
			page.URL = targetURL
		}
		return &Result{Page: page, Source: j.Name()}, nil
	})
}

var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"just a moment",
	"attention required",
}

// needsFallback reports whether resp is unusable: a non-200 code, an empty
// body, or a short challenge page proxied back verbatim.
func needsFallback(resp *jina.ReadResponse) bool {
	if resp == nil || (resp.Code != 0 && resp.Code != 200) {
		return true
	}
	body := strings.TrimSpace(resp.Data.Body())
	if body == "" {
		return true
	}
	if len(body) >= 4096 {
		return false
	}
	lower := strings.ToLower(body)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
