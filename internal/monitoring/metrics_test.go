package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveExtraction("success")
	m.ObserveExtraction("success")
	m.ObserveExtraction("fetch_failed")
	m.ObserveFetch("local_http", errors.New("blocked"))
	m.ObserveFetch("jina", nil)
	m.ObserveLLM("gemini", 2*time.Second, nil)
	m.ObserveHTTP(http.MethodPost, "/api/chat", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.extractions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractions.WithLabelValues("fetch_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("local_http", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("jina", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("gemini", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/chat", "200")))
}

func TestMetrics_SetSnapshot(t *testing.T) {
	m := NewMetrics()
	m.SetSnapshot(&Snapshot{
		Problems:      4,
		Sessions:      2,
		Conversations: 1,
		Breakers:      map[string]string{"jina": "open", "firecrawl": "closed"},
	})

	assert.Equal(t, 4.0, testutil.ToFloat64(m.problems))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conversations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerOpen.WithLabelValues("jina")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.breakerOpen.WithLabelValues("firecrawl")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveExtraction("success")
		m.ObserveFetch("x", nil)
		m.ObserveLLM("x", time.Second, nil)
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.SetSnapshot(&Snapshot{})
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveExtraction("success")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cftutor_extractions_total{outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
