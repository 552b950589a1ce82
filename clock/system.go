package clock

import "time"

type systemClock struct{}

// New returns the real, wall-clock-backed Clock. It is a value acquired at
// construction time like any other dependency — nothing about it is static or
// implicit, so tests are free to substitute a *TestClock instead.
func New() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (systemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s *systemTimer) C() <-chan time.Time     { return s.t.C }
func (s *systemTimer) Stop() bool              { return s.t.Stop() }
func (s *systemTimer) Reset(d time.Duration) bool { return s.t.Reset(d) }
