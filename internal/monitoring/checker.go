package monitoring

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
)

// DefaultCheckInterval is used when the configured interval is not positive.
const DefaultCheckInterval = 30 * time.Second

// Checker samples the collector on an interval, updates the state gauges
// and warns when a breaker leaves the closed state.
type Checker struct {
	collector *Collector
	metrics   *Metrics
	interval  time.Duration

	open map[string]bool
}

// NewChecker creates a background sampler.
func NewChecker(collector *Collector, metrics *Metrics, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Checker{
		collector: collector,
		metrics:   metrics,
		interval:  interval,
		open:      make(map[string]bool),
	}
}

// Run samples once immediately and then on every tick. It blocks until ctx
// is cancelled.
func (c *Checker) Run(ctx context.Context) {
	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("starting state sampler", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.check(log)
	for {
		select {
		case <-ctx.Done():
			log.Info("state sampler stopped")
			return
		case <-ticker.C:
			c.check(log)
		}
	}
}

func (c *Checker) check(log *zap.Logger) []string {
	snap := c.collector.Collect()
	c.metrics.SetSnapshot(snap)

	var tripped []string
	for name, state := range snap.Breakers {
		isOpen := state != "closed"
		if isOpen && !c.open[name] {
			tripped = append(tripped, name)
		}
		if !isOpen && c.open[name] {
			log.Info("monitoring: breaker recovered", zap.String("breaker", name))
		}
		c.open[name] = isOpen
	}
	slices.Sort(tripped)
	for _, name := range tripped {
		log.Warn("monitoring: breaker not closed",
			zap.String("breaker", name),
			zap.String("state", snap.Breakers[name]),
		)
	}

	log.Debug("monitoring: sampled",
		zap.Int("problems", snap.Problems),
		zap.Int("sessions", snap.Sessions),
	)
	return tripped
}
