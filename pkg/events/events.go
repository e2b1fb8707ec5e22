// Package events is a small synchronous event bus. Handlers run in
// subscription order on the publisher's goroutine, so the order in which a
// component publishes is the order every consumer observes.
package events

import (
	"fmt"
	"sync"
)

// Kind identifies an event.
type Kind string

const (
	// FrameIndexChanged carries Index and Total. Index is -1 when empty.
	FrameIndexChanged Kind = "frameIndexChanged"
	// FPSChanged carries FPS.
	FPSChanged Kind = "fpsChanged"
	// PlayStateChanged carries Playing.
	PlayStateChanged Kind = "playStateChanged"
	// PlaybackFinished is published once when playback reads past the last frame.
	PlaybackFinished Kind = "playbackFinished"
	// FileDropped carries Path and Target ("A" or "B").
	FileDropped Kind = "fileDropped"
	// FrameReady is published after a new frame has been decoded.
	FrameReady Kind = "frameReady"
)

// Event is a single notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind    Kind
	Source  string
	Index   int
	Total   int
	FPS     float64
	Playing bool
	Path    string
	Target  string
}

func (e Event) String() string {
	switch e.Kind {
	case FrameIndexChanged:
		return fmt.Sprintf("%s(%d, %d)", e.Kind, e.Index, e.Total)
	case FPSChanged:
		return fmt.Sprintf("%s(%g)", e.Kind, e.FPS)
	case PlayStateChanged:
		return fmt.Sprintf("%s(%t)", e.Kind, e.Playing)
	case FileDropped:
		return fmt.Sprintf("%s(%s, %s)", e.Kind, e.Path, e.Target)
	default:
		return fmt.Sprintf("%s()", e.Kind)
	}
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id    int
	kinds map[Kind]bool
	fn    Handler
}

// Bus dispatches events to subscribers.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for the given kinds, or for every kind when none
// are given. The returned function unsubscribes.
func (b *Bus) Subscribe(fn Handler, kinds ...Kind) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := subscription{id: b.nextID, fn: fn}
	if len(kinds) > 0 {
		sub.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}
	b.subs = append(b.subs, sub)

	id := sub.id
	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching subscriber registered at the time of
// the call.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if s.kinds == nil || s.kinds[e.Kind] {
			s.fn(e)
		}
	}
}

// Recorder collects events, for tests and the headless harness.
type Recorder struct {
	Events []Event
}

// Handle appends e.
func (r *Recorder) Handle(e Event) {
	r.Events = append(r.Events, e)
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Kinds returns the kinds in the order they were recorded.
func (r *Recorder) Kinds() []Kind {
	kinds := make([]Kind, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Last returns the most recent event of kind.
func (r *Recorder) Last(kind Kind) (Event, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Kind == kind {
			return r.Events[i], true
		}
	}
	return Event{}, false
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.Events = nil
}
