package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"infracore/clock"
	"infracore/errkind"
	infrand "infracore/rand"
)

var logger = logrus.WithFields(logrus.Fields{"component": "jobs"})

// Mode selects how a Runner drives its Job (spec.md §4.7).
type Mode int

const (
	// Once executes the job a single time.
	Once Mode = iota
	// Continuous loops until cancelled, sleeping ContinuousInterval after a
	// Completed run or RetryInterval after a Failed one.
	Continuous
	// Scheduled triggers a run at each instant the configured Schedule matches.
	Scheduled
)

// Runner drives a Job under a chosen Mode.
type Runner struct {
	job  Job
	mode Mode
	clk  clock.Clock

	continuousInterval time.Duration
	retryInterval      time.Duration
	schedule           Schedule
}

// Option configures a Runner at construction time.
type Option func(*Runner)

// WithClock replaces the default wall-clock source.
func WithClock(clk clock.Clock) Option {
	return func(r *Runner) { r.clk = clk }
}

// WithContinuousInterval sets how long Continuous mode sleeps after a
// Completed run before the next iteration. Default: 10s.
func WithContinuousInterval(d time.Duration) Option {
	return func(r *Runner) { r.continuousInterval = d }
}

// WithRetryInterval sets how long Continuous mode sleeps after a Failed run
// before retrying. Default: 30s.
func WithRetryInterval(d time.Duration) Option {
	return func(r *Runner) { r.retryInterval = d }
}

// WithSchedule installs the cron-like Schedule driving Scheduled mode.
func WithSchedule(s Schedule) Option {
	return func(r *Runner) { r.schedule = s }
}

// New builds a Runner for job under mode.
func New(job Job, mode Mode, opts ...Option) *Runner {
	r := &Runner{
		job:                job,
		mode:               mode,
		clk:                clock.New(),
		continuousInterval: 10 * time.Second,
		retryInterval:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the job according to the Runner's Mode. It returns when the
// job is done (Once), ctx is cancelled (Continuous/Scheduled), or the job
// itself reports Cancelled.
func (r *Runner) Run(ctx context.Context) error {
	switch r.mode {
	case Once:
		res := r.job.Run(ctx)
		if res.Outcome == Failed {
			return res.Err
		}
		return nil
	case Continuous:
		return r.runContinuous(ctx)
	case Scheduled:
		return r.runScheduled(ctx)
	default:
		return errkind.Newf(errkind.InvalidArgument, "jobs: unknown mode %d", r.mode)
	}
}

func (r *Runner) runContinuous(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		res := r.job.Run(ctx)
		switch res.Outcome {
		case Cancelled:
			return nil
		case Failed:
			logger.WithError(res.Err).Debug("continuous job failed, waiting retry interval")
			if !r.sleep(ctx, r.retryInterval) {
				return nil
			}
		default: // Completed
			if !r.sleep(ctx, r.jittered(r.continuousInterval)) {
				return nil
			}
		}
	}
}

func (r *Runner) runScheduled(ctx context.Context) error {
	if r.schedule.IsZero() {
		return errkind.New(errkind.InvalidArgument, "jobs: Scheduled mode requires WithSchedule")
	}

	for {
		next := r.schedule.Next(r.clk.Now())
		if !r.sleep(ctx, next.Sub(r.clk.Now())) {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		res := r.job.Run(ctx)
		if res.Outcome == Cancelled {
			return nil
		}
		if res.Outcome == Failed {
			logger.WithError(res.Err).Error("scheduled job run failed")
		}
	}
}

// sleep waits for d or ctx cancellation, returning false in the latter case.
func (r *Runner) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := r.clk.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C():
		return true
	case <-ctx.Done():
		return false
	}
}

// jittered adds up to 10% random spread to d, the same role the teacher's
// rand.RandomIntBetweenInclusive plays for disambiguating identifiers minted
// in a tight loop — here it keeps many Continuous-mode runners started
// together from waking in lockstep.
func (r *Runner) jittered(d time.Duration) time.Duration {
	spread := int(d / 10)
	if spread <= 0 {
		return d
	}
	return d + time.Duration(infrand.RandomIntBetweenInclusive(0, spread, true, true))
}
