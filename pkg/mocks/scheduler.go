package mocks

import (
	"time"

	"github.com/user/framecheck/pkg/ports"
)

// Scheduler is a manual-clock implementation of ports.Scheduler.
// Nothing runs until the test calls Advance or Flush.
type Scheduler struct {
	now    time.Duration
	seq    int
	timers []*Timer
	posted []func()

	// Periods records the period of every Every call, in order.
	Periods []time.Duration
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Timer is the handle returned by Scheduler.
type Timer struct {
	due     time.Duration
	period  time.Duration
	fn      func()
	seq     int
	stopped bool
}

// Stop cancels the timer.
func (t *Timer) Stop() {
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *Timer) Stopped() bool {
	return t.stopped
}

func (s *Scheduler) Post(fn func()) {
	s.posted = append(s.posted, fn)
}

func (s *Scheduler) After(d time.Duration, fn func()) ports.Timer {
	return s.add(d, 0, fn)
}

func (s *Scheduler) Every(period time.Duration, fn func()) ports.Timer {
	if period < time.Millisecond {
		period = time.Millisecond
	}
	s.Periods = append(s.Periods, period)
	return s.add(period, period, fn)
}

func (s *Scheduler) add(d, period time.Duration, fn func()) *Timer {
	s.seq++
	t := &Timer{due: s.now + d, period: period, fn: fn, seq: s.seq}
	s.timers = append(s.timers, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Flush runs posted callbacks until none are left.
func (s *Scheduler) Flush() {
	for len(s.posted) > 0 {
		fn := s.posted[0]
		s.posted = s.posted[1:]
		fn()
	}
}

// Advance moves the clock forward by d, firing due timers in order.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		s.Flush()
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.stopped = true
		}
		next.fn()
	}
	s.Flush()
	s.now = target
	s.compact()
}

// Active returns the number of timers that have not been stopped.
func (s *Scheduler) Active() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextDue(target time.Duration) *Timer {
	var best *Timer
	for _, t := range s.timers {
		if t.stopped || t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
}

var _ ports.Scheduler = (*Scheduler)(nil)
