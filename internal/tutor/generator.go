package tutor

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cf-tutor/internal/resilience"
	"github.com/sells-group/cf-tutor/pkg/anthropic"
	"github.com/sells-group/cf-tutor/pkg/gemini"
)

// Provider names accepted by NewGenerator.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Generator produces one completion for a system instruction and a prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// GeminiGenerator adapts a gemini.Client.
type GeminiGenerator struct {
	client    gemini.Client
	model     string
	maxTokens int32
}

// NewGeminiGenerator creates a Generator backed by Gemini.
func NewGeminiGenerator(client gemini.Client, model string, maxTokens int) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model, maxTokens: int32(maxTokens)}
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.client.Generate(ctx, gemini.Request{
		Model:     g.model,
		System:    system,
		Prompt:    prompt,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", classify(err, gemini.StatusCode(err))
	}
	zap.L().Debug("gemini usage",
		zap.String("model", resp.Model),
		zap.Int32("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int32("output_tokens", resp.Usage.CandidatesTokens),
	)
	return resp.Text, nil
}

// AnthropicGenerator adapts an anthropic.Client.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicGenerator creates a Generator backed by Claude.
func NewAnthropicGenerator(client anthropic.Client, model string, maxTokens int) *AnthropicGenerator {
	return &AnthropicGenerator{client: client, model: model, maxTokens: int64(maxTokens)}
}

// Generate implements Generator.
func (g *AnthropicGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    anthropic.CachedSystem(system),
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", classify(err, anthropic.StatusCode(err))
	}
	resp.Usage.LogUsage(g.model, "tutor")

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", eris.New("anthropic: empty response")
	}
	return text, nil
}

func classify(err error, status int) error {
	if resilience.IsTransientHTTPStatus(status) {
		return resilience.NewTransientError(err, status)
	}
	return err
}

// LLMObserver receives one record per generation call.
type LLMObserver interface {
	ObserveLLM(provider string, d time.Duration, err error)
}

type observed struct {
	next     Generator
	provider string
	observer LLMObserver
}

// Observe wraps gen so that every call is reported to o.
func Observe(gen Generator, provider string, o LLMObserver) Generator {
	if o == nil {
		return gen
	}
	return &observed{next: gen, provider: provider, observer: o}
}

func (o *observed) Generate(ctx context.Context, system, prompt string) (string, error) {
	start := time.Now()
	out, err := o.next.Generate(ctx, system, prompt)
	o.observer.ObserveLLM(o.provider, time.Since(start), err)
	return out, err
}
