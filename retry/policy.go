// Package retry is a reusable exponential-backoff helper for Actions that
// want their own retry semantics. The scheduler core has no notion of
// retrying an action — an action that wants to retry re-submits itself as a
// Task output — so this package is consumed by action implementations, not
// by the executor or tick loop.
package retry

import (
	"errors"
	"math/rand"
	"time"
)

// ErrInvalidPolicy is returned by Policy.Validate when the configuration is
// internally inconsistent.
var ErrInvalidPolicy = errors.New("retry: invalid policy")

// Policy configures exponential backoff with jitter for a retryable
// operation.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first. A
	// value of 1 means no retries.
	MaxAttempts int

	// BaseDelay is the backoff base: the nth retry waits a random duration
	// in [0, BaseDelay*2^n), capped at MaxDelay (full jitter; see Next).
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth. Zero means uncapped.
	MaxDelay time.Duration

	// Retryable decides whether a given error should trigger another
	// attempt. A nil Retryable treats every error as non-retryable.
	Retryable func(error) bool
}

// Validate reports whether p is internally consistent. Beyond the basic
// shape of the numbers, a policy configured for more than one attempt but
// with no Retryable predicate can never actually retry (ShouldRetry always
// returns false for a nil Retryable) — that combination is almost certainly
// a caller forgetting to set Retryable, not an intentional one-shot policy,
// so it's rejected here rather than silently behaving like MaxAttempts: 1.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return ErrInvalidPolicy
	}
	if p.MaxAttempts > 1 && p.Retryable == nil {
		return ErrInvalidPolicy
	}
	if p.MaxDelay > 0 && p.BaseDelay > 0 && p.MaxDelay < p.BaseDelay {
		return ErrInvalidPolicy
	}
	return nil
}

// ShouldRetry reports whether attempt (0-based, the attempt that just
// failed) should be followed by another try given err.
func (p Policy) ShouldRetry(attempt int, err error) bool {
	if attempt+1 >= p.MaxAttempts {
		return false
	}
	if p.Retryable == nil {
		return false
	}
	return p.Retryable(err)
}

// Next combines the admission decision with the backoff computation: it
// reports whether attempt (0-based, the attempt that just failed) should be
// retried given err, and if so the delay to wait before trying again. Every
// caller that asks "should I retry" immediately needs "how long" and
// nothing else, so there's no reason to keep them as two calls a caller
// could get out of sync (e.g. sleeping for a delay it then discards because
// ShouldRetry says no).
func (p Policy) Next(attempt int, err error, rng *rand.Rand) (time.Duration, bool) {
	if !p.ShouldRetry(attempt, err) {
		return 0, false
	}
	return p.fullJitter(attempt, rng), true
}

// fullJitter draws the delay uniformly from [0, capped), where capped is
// BaseDelay*2^attempt bounded by MaxDelay. Spreading across the whole
// capped range, rather than a fixed exponential term plus a small additive
// jitter slice, is what keeps a batch of actions that failed at the same
// moment from re-synchronizing their retries on the next attempt too: two
// callers at the same attempt number can land anywhere from immediately to
// the full cap, not within a narrow shared band near it.
func (p Policy) fullJitter(attempt int, rng *rand.Rand) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	capped := p.BaseDelay * time.Duration(1<<uint(attempt))
	if p.MaxDelay > 0 && capped > p.MaxDelay {
		capped = p.MaxDelay
	}
	if capped <= 0 {
		return 0
	}
	if rng != nil {
		return time.Duration(rng.Int63n(int64(capped)))
	}
	return time.Duration(rand.Int63n(int64(capped))) //nolint:gosec // jitter timing, not security-sensitive
}
