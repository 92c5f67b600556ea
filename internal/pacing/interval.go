package pacing

import (
	"context"
	"sync"
	"time"
)

// Interval enforces a fixed minimum delay between consecutive requests,
// whatever host they target. The first request is never delayed.
type Interval struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	clock    Timer
}

// NewInterval creates an Interval pacer. A nil clock falls back to wall time.
func NewInterval(interval time.Duration, clock Timer) *Interval {
	if clock == nil {
		clock = Clock{}
	}

	return &Interval{
		interval: interval,
		clock:    clock,
	}
}

// WaitBeforeNext blocks until interval has passed since the previous request
// or ctx is cancelled.
func (p *Interval) WaitBeforeNext(ctx context.Context, _ string) error {
	if p == nil || p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := p.clock.Now()
	if p.last.IsZero() {
		p.last = now
		p.mu.Unlock()

		return ctx.Err()
	}

	next := p.last.Add(p.interval)
	if now.Before(next) {
		wait := next.Sub(now)
		p.last = next
		p.mu.Unlock()

		return p.clock.Sleep(ctx, wait)
	}

	p.last = now
	p.mu.Unlock()

	return ctx.Err()
}

// PerHost keeps an independent Interval for every host.
type PerHost struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Timer
	hosts    map[string]*Interval
}

// NewPerHost creates a PerHost pacer waiting interval between requests to the same host.
func NewPerHost(interval time.Duration, clock Timer) *PerHost {
	return &PerHost{
		interval: interval,
		clock:    clock,
		hosts:    make(map[string]*Interval),
	}
}

// WaitBeforeNext blocks until interval has passed since the previous request to host.
func (p *PerHost) WaitBeforeNext(ctx context.Context, host string) error {
	p.mu.Lock()
	pacer, ok := p.hosts[host]
	if !ok {
		pacer = NewInterval(p.interval, p.clock)
		p.hosts[host] = pacer
	}
	p.mu.Unlock()

	return pacer.WaitBeforeNext(ctx, host)
}
