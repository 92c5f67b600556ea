package pacing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Pacing policy names accepted by New.
const (
	PolicyFixed = "fixed"
	PolicyHost  = "host"
	PolicyRate  = "rate"
)

// Pacer decides how long to wait before the next request to host.
type Pacer interface {
	WaitBeforeNext(ctx context.Context, host string) error
}

// None never waits.
type None struct{}

func (None) WaitBeforeNext(ctx context.Context, _ string) error {
	return ctx.Err()
}

// New builds the Pacer named by policy.
// delay is used by the fixed and host policies, rps by the rate policy.
func New(policy string, delay time.Duration, rps float64, clock Timer) (Pacer, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", PolicyFixed:
		if delay <= 0 {
			return None{}, nil
		}

		return NewInterval(delay, clock), nil
	case PolicyHost:
		if delay <= 0 {
			return None{}, nil
		}

		return NewPerHost(delay, clock), nil
	case PolicyRate:
		if rps <= 0 {
			return nil, fmt.Errorf("rate pacing requires a positive rps, got %v", rps)
		}

		return NewTokenBucket(rps, 1), nil
	default:
		return nil, fmt.Errorf("unknown pacing policy %q", policy)
	}
}
