package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cf-tutor/internal/extractor"
	"github.com/sells-group/cf-tutor/internal/monitoring"
	"github.com/sells-group/cf-tutor/internal/resilience"
	"github.com/sells-group/cf-tutor/internal/scrape"
	"github.com/sells-group/cf-tutor/internal/store"
	"github.com/sells-group/cf-tutor/internal/tutor"
	anthropicpkg "github.com/sells-group/cf-tutor/pkg/anthropic"
	"github.com/sells-group/cf-tutor/pkg/firecrawl"
	"github.com/sells-group/cf-tutor/pkg/gemini"
	"github.com/sells-group/cf-tutor/pkg/jina"
)

// appEnv holds the store, fetch chain and extractor shared by every
// command. Metrics is nil outside serve.
type appEnv struct {
	Store     store.Store
	Extractor *extractor.Extractor
	Breakers  *resilience.Breakers
	Metrics   *monitoring.Metrics
}

// Close releases the store.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv opens the store and loads the collection. Callers should defer
// env.Close().
func initEnv(ctx context.Context, metrics *monitoring.Metrics) (*appEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	breakers := resilience.NewBreakers(resilience.DefaultCircuitBreakerConfig())
	opts := []extractor.Option{}
	if metrics != nil {
		opts = append(opts, extractor.WithObserver(metrics))
	}

	return &appEnv{
		Store:     st,
		Extractor: extractor.New(ctx, buildFetcher(breakers, metrics), st, opts...),
		Breakers:  breakers,
		Metrics:   metrics,
	}, nil
}

// buildFetcher assembles the scrape chain: direct HTTP first, then the
// proxy readers whose keys are configured.
func buildFetcher(breakers *resilience.Breakers, metrics *monitoring.Metrics) scrape.Fetcher {
	scrapers := []scrape.Scraper{
		scrape.NewLocalScraper(scrape.LocalOptions{
			UserAgent:     cfg.Scrape.UserAgent,
			Timeout:       time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
			RatePerSecond: cfg.Scrape.RatePerSecond,
			Burst:         cfg.Scrape.Burst,
		}),
	}

	if cfg.Jina.Key != "" {
		client := jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.BaseURL))
		scrapers = append(scrapers, scrape.NewJinaAdapter(client, breakers.Get("jina")))
	} else {
		zap.L().Debug("CFTUTOR_JINA_KEY not set, jina fallback disabled")
	}

	if cfg.Firecrawl.Key != "" {
		client := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		scrapers = append(scrapers, scrape.NewFirecrawlAdapter(client, breakers.Get("firecrawl")))
	} else {
		zap.L().Debug("CFTUTOR_FIRECRAWL_KEY not set, firecrawl fallback disabled")
	}

	hosts := cfg.Scrape.AllowedHosts
	if len(hosts) == 0 {
		hosts = scrape.DefaultHosts
	}
	chain := scrape.NewChain(scrape.NewPathMatcher(hosts, cfg.Scrape.ExcludePaths), scrapers...)
	if metrics != nil {
		chain = chain.WithObserver(metrics.ObserveFetch)
	}
	return chain
}

// buildTutor creates the configured LLM generator and wraps it in a Tutor.
func buildTutor(ctx context.Context, metrics *monitoring.Metrics) (*tutor.Tutor, error) {
	var (
		gen      tutor.Generator
		provider = cfg.LLM.Provider
	)

	switch provider {
	case tutor.ProviderGemini:
		var opts []gemini.Option
		if cfg.Gemini.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
		}
		client, err := gemini.NewClient(ctx, cfg.Gemini.Key, opts...)
		if err != nil {
			return nil, eris.Wrap(err, "create gemini client")
		}
		gen = tutor.NewGeminiGenerator(client, cfg.Gemini.Model, cfg.LLM.MaxTokens)
	case tutor.ProviderAnthropic:
		var opts []anthropicpkg.Option
		if cfg.Anthropic.BaseURL != "" {
			opts = append(opts, anthropicpkg.WithBaseURL(cfg.Anthropic.BaseURL))
		}
		client := anthropicpkg.NewClient(cfg.Anthropic.Key, opts...)
		gen = tutor.NewAnthropicGenerator(client, cfg.Anthropic.Model, cfg.LLM.MaxTokens)
	default:
		return nil, eris.Errorf("unknown llm provider %q", provider)
	}

	zap.L().Info("tutor model configured", zap.String("provider", provider))
	if metrics != nil {
		gen = tutor.Observe(gen, provider, metrics)
	}

	return tutor.New(
		gen,
		tutor.WithSystemPrompt(tutor.LoadSystemPrompt(cfg.LLM.SystemPromptPath)),
		tutor.WithRetry(resilience.FromRetryConfig(cfg.LLM.MaxAttempts, cfg.LLM.InitialBackoffMs, cfg.LLM.MaxBackoffMs)),
	), nil
}
