// Package seqwatch notifies when frames are added to or removed from the
// directory of an open image sequence.
package seqwatch

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/user/framecheck/pkg/media"
	"github.com/user/framecheck/pkg/ports"
)

// DefaultSettle is how long a directory must be quiet before onChange runs.
// Renderers write frames in bursts; one rescan per burst is enough.
const DefaultSettle = 250 * time.Millisecond

type watch struct {
	dir      string
	pattern  *regexp.Regexp
	onChange func()
	pending  ports.Timer
}

// Watcher multiplexes one fsnotify watcher over many sequence templates.
// onChange callbacks run on the scheduler.
type Watcher struct {
	fsw    *fsnotify.Watcher
	sched  ports.Scheduler
	logger ports.Logger
	settle time.Duration

	mu      sync.Mutex
	nextID  int
	watches map[int]*watch
	dirRefs map[string]int
	done    chan struct{}
}

// New starts the watcher goroutine.
func New(sched ports.Scheduler, logger ports.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:     fsw,
		sched:   sched,
		logger:  logger.WithComponent("seqwatch"),
		settle:  DefaultSettle,
		watches: make(map[int]*watch),
		dirRefs: make(map[string]int),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// SetSettle changes the quiet period. Call before Watch.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Watch registers onChange for files matching template. The returned
// function removes the registration.
func (w *Watcher) Watch(template string, onChange func()) (func(), error) {
	tmpl, err := media.ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	dir := filepath.Clean(tmpl.Dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirRefs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirRefs[dir]++
	w.nextID++
	id := w.nextID
	w.watches[id] = &watch{dir: dir, pattern: tmpl.Pattern(), onChange: onChange}
	w.logger.Debug("Watching %s", template)

	var once sync.Once
	return func() { once.Do(func() { w.unwatch(id) }) }, nil
}

func (w *Watcher) unwatch(id int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	wt, ok := w.watches[id]
	if !ok {
		return
	}
	delete(w.watches, id)
	w.dirRefs[wt.dir]--
	if w.dirRefs[wt.dir] <= 0 {
		delete(w.dirRefs, wt.dir)
		_ = w.fsw.Remove(wt.dir)
	}
	w.sched.Post(func() {
		if wt.pending != nil {
			wt.pending.Stop()
		}
	})
}

// Close stops watching everything.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	dir := filepath.Clean(filepath.Dir(event.Name))
	name := filepath.Base(event.Name)

	w.mu.Lock()
	var hits []*watch
	for _, wt := range w.watches {
		if wt.dir == dir && wt.pattern.MatchString(name) {
			hits = append(hits, wt)
		}
	}
	w.mu.Unlock()

	for _, wt := range hits {
		wt := wt
		w.sched.Post(func() { w.arm(wt) })
	}
}

// arm runs on the scheduler and restarts the settle timer.
func (w *Watcher) arm(wt *watch) {
	w.mu.Lock()
	live := false
	for _, v := range w.watches {
		if v == wt {
			live = true
			break
		}
	}
	w.mu.Unlock()
	if !live {
		return
	}
	if wt.pending != nil {
		wt.pending.Stop()
	}
	wt.pending = w.sched.After(w.settle, func() {
		wt.pending = nil
		wt.onChange()
	})
}
