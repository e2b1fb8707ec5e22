// Package eventloop implements ports.Scheduler as a single goroutine that
// runs posted callbacks in order. Timers fire on runtime timers and post
// their callback back to the loop, so every callback runs on the loop.
package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framecheck/pkg/ports"
)

// Loop is a cooperative single-threaded scheduler.
type Loop struct {
	logger ports.Logger

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

// New creates a loop. Callbacks are queued until Run is called.
func New(logger ports.Logger) *Loop {
	return &Loop{
		logger: logger.WithComponent("loop"),
		wake:   make(chan struct{}, 1),
	}
}

// Run executes callbacks until ctx is done. It must be called from exactly
// one goroutine.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for _, fn := range l.drain() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.call(fn)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.pending
	l.pending = nil
	return batch
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Callback panicked: %v", r)
		}
	}()
	fn()
}

// Post queues fn. It never blocks and may be called from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After runs fn on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) ports.Timer {
	t := &timer{}
	t.rt = time.AfterFunc(d, func() {
		l.Post(func() {
			if !t.stopped.Load() {
				t.stopped.Store(true)
				fn()
			}
		})
	})
	return t
}

// Every runs fn on the loop each period. Deadlines are kept on an absolute
// schedule so slow callbacks do not accumulate drift; missed deadlines are
// skipped rather than replayed.
func (l *Loop) Every(period time.Duration, fn func()) ports.Timer {
	if period < time.Millisecond {
		period = time.Millisecond
	}
	t := &timer{}
	next := time.Now().Add(period)

	var arm func()
	arm = func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.stopped.Load() {
			return
		}
		t.rt = time.AfterFunc(time.Until(next), func() {
			l.Post(func() {
				if t.stopped.Load() {
					return
				}
				fn()
				now := time.Now()
				next = next.Add(period)
				if next.Before(now) {
					next = now.Add(period)
				}
				arm()
			})
		})
	}
	arm()
	return t
}

type timer struct {
	mu      sync.Mutex
	rt      *time.Timer
	stopped atomic.Bool
}

// Stop cancels the timer. A callback already queued on the loop checks the
// flag before running.
func (t *timer) Stop() {
	t.stopped.Store(true)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rt != nil {
		t.rt.Stop()
	}
}

var _ ports.Scheduler = (*Loop)(nil)
