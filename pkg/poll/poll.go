// Package poll runs a probe at a fixed interval until it reports success, fails,
// or a deadline passes.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Outcome how a poll ended
type Outcome int

const (
	// Found the probe reported success
	Found Outcome = iota + 1
	// Timeout the deadline passed without success or error
	Timeout
	// Failed the probe returned an error, polling stopped at once
	Failed
	// Canceled the caller context ended first
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Timeout:
		return "timeout"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Probe report true once the awaited state is observed.
// An error is treated as unrecoverable.
type Probe func(ctx context.Context) (bool, error)

// Result result of a poll
type Result struct {
	Outcome  Outcome
	Attempts int
	Elapsed  time.Duration
	Err      error
}

var errPending = errors.New("poll: pending")

// Poller bounded fixed-interval poller
type Poller struct {
	timeout  time.Duration
	interval time.Duration
	clock    backoff.Clock
	newTimer func() backoff.Timer
}

// Option poller option
type Option func(p *Poller)

// WithClock use clock for deadlines and newTimer for waits
func WithClock(clock backoff.Clock, newTimer func() backoff.Timer) Option {
	return func(p *Poller) {
		p.clock = clock
		p.newTimer = newTimer
	}
}

// New new poller, interval must be positive
func New(timeout, interval time.Duration, opts ...Option) *Poller {
	p := &Poller{
		timeout:  timeout,
		interval: interval,
		clock:    backoff.SystemClock,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Timeout overall budget
func (p *Poller) Timeout() time.Duration {
	return p.timeout
}

// Interval delay between attempts
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run probe immediately, then every interval; the last attempt happens exactly at the deadline
func (p *Poller) Run(ctx context.Context, probe Probe) Result {
	var (
		attempts int
		start    = p.clock.Now()
	)

	op := func() error {
		attempts++
		ok, err := probe(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		if !ok {
			return errPending
		}

		return nil
	}

	b := backoff.WithContext(&deadline{
		clock:    p.clock,
		timeout:  p.timeout,
		interval: p.interval,
	}, ctx)

	var timer backoff.Timer
	if p.newTimer != nil {
		timer = p.newTimer()
	}

	err := backoff.RetryNotifyWithTimer(op, b, nil, timer)
	result := Result{
		Attempts: attempts,
		Elapsed:  p.clock.Now().Sub(start),
	}

	switch {
	case err == nil:
		result.Outcome = Found
	case ctx.Err() != nil:
		result.Outcome = Canceled
		result.Err = ctx.Err()
	case errors.Is(err, errPending):
		result.Outcome = Timeout
	default:
		result.Outcome = Failed
		result.Err = err
	}

	return result
}

// deadline constant interval backoff that never sleeps past the deadline
type deadline struct {
	clock    backoff.Clock
	timeout  time.Duration
	interval time.Duration
	at       time.Time
}

func (d *deadline) Reset() {
	d.at = d.clock.Now().Add(d.timeout)
}

func (d *deadline) NextBackOff() time.Duration {
	remaining := d.at.Sub(d.clock.Now())
	if remaining <= 0 {
		return backoff.Stop
	}

	if remaining < d.interval {
		return remaining
	}

	return d.interval
}
