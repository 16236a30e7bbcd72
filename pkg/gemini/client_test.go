package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	require.Error(t, err)
}

func TestClient_Generate(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-2.5-flash:generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Consider prefix sums."}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 4, "totalTokenCount": 16}
		}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c, err := NewClient(context.Background(), "test-key", WithBaseURL(ts.URL+"/"), WithHTTPClient(ts.Client()))
	require.NoError(t, err)

	resp, err := c.Generate(context.Background(), Request{
		System:    "You are a tutor.",
		Prompt:    "Give me a hint.",
		MaxTokens: 256,
	})
	require.NoError(t, err)

	assert.Equal(t, "Consider prefix sums.", resp.Text)
	assert.Equal(t, DefaultModel, resp.Model)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, int32(16), resp.Usage.TotalTokens)

	assert.Contains(t, body, "systemInstruction")
	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
}

func TestClient_GenerateEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c, err := NewClient(context.Background(), "test-key", WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), Request{Model: "gemini-2.5-pro", Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestClient_GenerateHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c, err := NewClient(context.Background(), "test-key", WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: generate content")
}

func TestStatusCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": {"code": 503, "message": "overloaded", "status": "UNAVAILABLE"}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c, err := NewClient(context.Background(), "test-key", WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Zero(t, StatusCode(assert.AnError))
}
