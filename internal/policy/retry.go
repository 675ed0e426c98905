package policy

import (
	"math/rand"
	"time"
)

// RetryDecision is the outcome of consulting a RetryPolicy after a
// FailureNeedRetry result, per spec.md §4.C/§4.F.
type RetryDecision int

const (
	// RetryAt means re-attempt the same front file once Deadline is
	// reached.
	RetryAt RetryDecision = iota
	// GiveUpDrop means drop the poisoned file (optionally quarantining
	// it, spec.md §9) and proceed as if it had succeeded.
	GiveUpDrop
	// GiveUpKeep means suspend with the file still at the front of the
	// FIFO, to be retried only after an external ForceProcessing/Resume.
	GiveUpKeep
)

// RetryOutcome bundles a decision with its deadline (meaningful only
// for RetryAt).
type RetryOutcome struct {
	Decision RetryDecision
	Deadline time.Time
}

// RetryPolicy schedules retries for a file that returned
// FailureNeedRetry, parameterized by the clock per spec.md §4.C.
type RetryPolicy interface {
	// NextRetry is called once per failure, with the 1-based attempt
	// count for this file and the current time.
	NextRetry(attempts uint32, now time.Time) RetryOutcome
}

// GiveUpAction selects the behavior once MaxAttempts is exhausted.
type GiveUpAction int

const (
	// Drop gives up by dropping the file.
	Drop GiveUpAction = iota
	// KeepAndSuspend gives up by suspending with the file retained.
	KeepAndSuspend
)

// ExponentialBackoff schedules retries on an exponential curve with
// jitter, starting from Base and capped at Max, the Go rendition of the original's
// RetryExponentially strategy. MaxAttempts of 0 means unlimited retries
// (GiveUp is never reached).
type ExponentialBackoff struct {
	Base       time.Duration
	Max        time.Duration
	MaxAttempts uint32
	GiveUp     GiveUpAction

	// lastNow guards against a detected backwards clock skew producing
	// a deadline earlier than a prior computation would have allowed —
	// the same clamp the original applies around last_update_time_ in
	// both ReadyToProcess and OnFailure.
	lastNow time.Time
}

// NewExponentialBackoff returns a policy with the given base delay, cap,
// attempt limit and give-up action; it applies no defaults of its own.
func NewExponentialBackoff(base, max time.Duration, maxAttempts uint32, giveUp GiveUpAction) *ExponentialBackoff {
	return &ExponentialBackoff{Base: base, Max: max, MaxAttempts: maxAttempts, GiveUp: giveUp}
}

// NextRetry implements RetryPolicy.
func (p *ExponentialBackoff) NextRetry(attempts uint32, now time.Time) RetryOutcome {
	if !p.lastNow.IsZero() && now.Before(p.lastNow) {
		// Backwards time skew: stay on the safe side, as the original
		// does in RetryExponentially::OnFailure.
		now = p.lastNow
	}
	p.lastNow = now

	if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
		if p.GiveUp == Drop {
			return RetryOutcome{Decision: GiveUpDrop}
		}
		return RetryOutcome{Decision: GiveUpKeep}
	}

	delay := backoffDelay(p.Base, p.Max, attempts)
	return RetryOutcome{Decision: RetryAt, Deadline: now.Add(delay)}
}

func backoffDelay(base, max time.Duration, attempts uint32) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	// 2^(attempts-1) * base (the first retry waits base), capped at max,
	// with 0-20% additive jitter so a population of suspended queues does
	// not retry in lockstep.
	shift := uint32(0)
	if attempts > 1 {
		shift = attempts - 1
	}
	if shift > 20 {
		shift = 20 // avoid overflow; 2^20 * base is already far past any sane Max
	}
	delay := base << shift

	// Jitter is additive-only and applied before capping, so a capped
	// retry schedule still produces non-decreasing deadlines (spec.md §8's
	// "inter-dispatch gaps non-decreasing"); the exact values are random.
	jitter := time.Duration(rand.Int63n(int64(delay)/5 + 1))
	delay += jitter

	if max > 0 && delay > max {
		delay = max
	}
	return delay
}
