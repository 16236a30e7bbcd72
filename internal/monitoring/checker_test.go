package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fixedProblems int

func (f fixedProblems) Count() int { return int(f) }

type fixedSessions struct{ sessions, conversations int }

func (f fixedSessions) Counts() (int, int) { return f.sessions, f.conversations }

type breakerMap map[string]string

func (b breakerMap) States() map[string]string { return b }

func TestCollector_Collect(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCollector(fixedProblems(3), fixedSessions{2, 1}, breakerMap{"jina": "closed"})
	c.now = func() time.Time { return now }

	snap := c.Collect()
	assert.Equal(t, 3, snap.Problems)
	assert.Equal(t, 2, snap.Sessions)
	assert.Equal(t, 1, snap.Conversations)
	assert.Equal(t, map[string]string{"jina": "closed"}, snap.Breakers)
	assert.Equal(t, now, snap.CollectedAt)
}

func TestCollector_NilSources(t *testing.T) {
	snap := NewCollector(nil, nil, nil).Collect()
	assert.Zero(t, snap.Problems)
	assert.Nil(t, snap.Breakers)
}

func TestChecker_ReportsTripOnce(t *testing.T) {
	breakers := breakerMap{"jina": "open", "firecrawl": "closed"}
	m := NewMetrics()
	c := NewChecker(NewCollector(fixedProblems(5), nil, breakers), m, time.Minute)

	assert.Equal(t, []string{"jina"}, c.check(zap.NewNop()))
	assert.Empty(t, c.check(zap.NewNop()))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.problems))

	breakers["jina"] = "closed"
	assert.Empty(t, c.check(zap.NewNop()))
	breakers["jina"] = "half-open"
	assert.Equal(t, []string{"jina"}, c.check(zap.NewNop()))
}

func TestChecker_RunStopsOnCancel(t *testing.T) {
	c := NewChecker(NewCollector(fixedProblems(1), nil, nil), nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Checker.Run did not stop after context cancellation")
	}
}

func TestChecker_DefaultInterval(t *testing.T) {
	c := NewChecker(NewCollector(nil, nil, nil), nil, 0)
	assert.Equal(t, DefaultCheckInterval, c.interval)
}
