package monitoring

import "time"

// Snapshot is a point-in-time view of the service state. It is served by
// the health endpoint and copied onto the state gauges.
type Snapshot struct {
	Problems      int               `json:"problems_loaded"`
	Sessions      int               `json:"active_sessions"`
	Conversations int               `json:"active_conversations"`
	Breakers      map[string]string `json:"breakers,omitempty"`
	CollectedAt   time.Time         `json:"timestamp"`
}

// ProblemCounter reports the number of stored problems.
type ProblemCounter interface {
	Count() int
}

// SessionCounter reports in-memory session and conversation totals.
type SessionCounter interface {
	Counts() (sessions, conversations int)
}

// BreakerReporter reports circuit breaker states by name.
type BreakerReporter interface {
	States() map[string]string
}

// Collector gathers a Snapshot from its sources. Any source may be nil.
type Collector struct {
	problems ProblemCounter
	sessions SessionCounter
	breakers BreakerReporter
	now      func() time.Time
}

// NewCollector creates a collector over the given sources.
func NewCollector(problems ProblemCounter, sessions SessionCounter, breakers BreakerReporter) *Collector {
	return &Collector{
		problems: problems,
		sessions: sessions,
		breakers: breakers,
		now:      time.Now,
	}
}

// Collect reads every source once.
func (c *Collector) Collect() *Snapshot {
	snap := &Snapshot{CollectedAt: c.now().UTC()}
	if c.problems != nil {
		snap.Problems = c.problems.Count()
	}
	if c.sessions != nil {
		snap.Sessions, snap.Conversations = c.sessions.Counts()
	}
	if c.breakers != nil {
		snap.Breakers = c.breakers.States()
	}
	return snap
}
