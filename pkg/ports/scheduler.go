package ports

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the timer. A callback that has not started will not run.
	Stop()
}

// Scheduler runs callbacks on a single thread.
//
// All engine components (players, compare coordinator, viewer) are driven
// from the scheduler's thread: user actions are posted to it and timer
// callbacks run on it, so engine state needs no locking.
type Scheduler interface {
	// Post queues fn to run on the scheduler thread.
	Post(fn func())

	// After runs fn once after d.
	After(d time.Duration, fn func()) Timer

	// Every runs fn periodically with the given period until stopped.
	Every(period time.Duration, fn func()) Timer
}
