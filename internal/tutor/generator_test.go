package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cf-tutor/internal/resilience"
	"github.com/sells-group/cf-tutor/internal/tutor/mocks"
	"github.com/sells-group/cf-tutor/pkg/anthropic"
	"github.com/sells-group/cf-tutor/pkg/gemini"
)

func TestGeminiGenerator(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		code := int(status.Load())
		w.WriteHeader(code)
		if code != http.StatusOK {
			w.Write([]byte(`{"error": {"code": 503, "message": "overloaded", "status": "UNAVAILABLE"}}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "hi"}]}}]}`)) //nolint:errcheck
	}))
	defer ts.Close()

	client, err := gemini.NewClient(context.Background(), "k", gemini.WithBaseURL(ts.URL))
	require.NoError(t, err)
	g := NewGeminiGenerator(client, "gemini-2.5-flash", 128)

	out, err := g.Generate(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	status.Store(http.StatusServiceUnavailable)
	_, err = g.Generate(context.Background(), "sys", "prompt")
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestAnthropicGenerator(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		code := int(status.Load())
		w.WriteHeader(code)
		if code != http.StatusOK {
			w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": "hello"}},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 1, "output_tokens": 1},
		})
	}))
	defer ts.Close()

	g := NewAnthropicGenerator(anthropic.NewClient("k", anthropic.WithBaseURL(ts.URL)), "claude-haiku-4-5-20251001", 128)

	out, err := g.Generate(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	status.Store(http.StatusBadRequest)
	_, err = g.Generate(context.Background(), "sys", "prompt")
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

type llmRecorder struct {
	provider string
	err      error
	calls    int
}

func (r *llmRecorder) ObserveLLM(provider string, _ time.Duration, err error) {
	r.provider, r.err = provider, err
	r.calls++
}

func TestObserve(t *testing.T) {
	gen := mocks.NewMockGenerator(t)
	gen.On("Generate", context.Background(), "s", "p").Return("out", nil).Once()

	rec := &llmRecorder{}
	out, err := Observe(gen, ProviderGemini, rec).Generate(context.Background(), "s", "p")
	require.NoError(t, err)
	assert.Equal(t, "out", out)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, ProviderGemini, rec.provider)

	assert.Same(t, gen, Observe(gen, ProviderGemini, nil))
}
