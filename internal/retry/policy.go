// Package retry implements the backoff policy the build driver uses when
// retrying resolution and integrity failures.
package retry

import (
	"fmt"
	"time"
)

// Mode selects the backoff growth shape.
type Mode string

const (
	ModeFixed       Mode = "fixed"
	ModeLinear      Mode = "linear"
	ModeExponential Mode = "exponential"
)

// Policy encapsulates retry/backoff settings. Immutable after construction.
type Policy struct {
	Mode       Mode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int
}

// DefaultPolicy is 3 attempts with linear 0/1/3s backoff, expressed as
// MaxRetries=3 with Initial=1s triangular growth; see Delay.
func DefaultPolicy() Policy {
	return Policy{Mode: ModeLinear, Initial: time.Second, Max: 3 * time.Second, MaxRetries: 3}
}

// New builds a policy from raw fields; zero/invalid values fall back to defaults.
func New(mode Mode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case ModeFixed, ModeLinear, ModeExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the backoff before the given attempt (1-based: attempt 1 is
// the first try and always waits 0). With DefaultPolicy this produces, for a
// 3-attempt retry: 0s before attempt 1, 1s before attempt 2, 3s before
// attempt 3 — triangular growth under ModeLinear (Initial=1s): delay(n) =
// Initial * n*(n+1)/2 for n = attempt-1.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	n := attempt - 1
	switch p.Mode {
	case ModeFixed:
		return capped(p.Initial, p.Max)
	case ModeExponential:
		return capped(p.Initial*(1<<(n-1)), p.Max)
	default: // linear/triangular
		d := p.Initial * time.Duration(n*(n+1)/2)
		return capped(d, p.Max)
	}
}

func capped(d, max time.Duration) time.Duration {
	if d > max {
		return max
	}
	return d
}

// Validate reports whether the policy's invariants hold.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be > 0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be > 0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}
