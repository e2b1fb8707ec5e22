// Package player binds one capture to a frame cursor and drives timed
// playback at the capture's native rate.
//
// A Player is driven from a single scheduler thread. Every state change is
// published on its event bus in the order it happens, so a consumer always
// sees the last valid frameIndexChanged before playbackFinished.
package player

import (
	"errors"
	"io"
	"math"
	"time"

	"github.com/user/framecheck/pkg/events"
	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/ports"
)

// DefaultTickFallback is the tick period used when the frame rate is unknown.
const DefaultTickFallback = 41 * time.Millisecond

// Opener creates captures.
type Opener interface {
	Open(path string) (ports.Capture, error)
}

// Player is the engine behind one media view.
type Player struct {
	name         string
	opener       Opener
	sched        ports.Scheduler
	bus          *events.Bus
	logger       ports.Logger
	tickFallback time.Duration

	capture  ports.Capture
	path     string
	isVideo  bool
	current  *frame.Frame
	index    int
	total    int
	fps      float64
	playing  bool
	finished bool

	timer          ports.Timer
	tickSuppressed bool
}

// New creates an empty player. name is "A" or "B" and tags published events.
func New(name string, opener Opener, sched ports.Scheduler, logger ports.Logger) *Player {
	return &Player{
		name:         name,
		opener:       opener,
		sched:        sched,
		bus:          events.NewBus(),
		logger:       logger.WithComponent("player-" + name),
		tickFallback: DefaultTickFallback,
		index:        -1,
	}
}

// SetTickFallback overrides the tick period used when fps is unknown.
func (p *Player) SetTickFallback(d time.Duration) {
	if d > 0 {
		p.tickFallback = d
	}
}

// Events returns the player's event bus.
func (p *Player) Events() *events.Bus { return p.bus }

// Name returns the player name.
func (p *Player) Name() string { return p.name }

// Path returns the loaded path, or "" when empty.
func (p *Player) Path() string { return p.path }

// Loaded reports whether a capture is held.
func (p *Player) Loaded() bool { return p.capture != nil }

// IsVideo reports whether the capture has a frame rate and so can be stepped.
func (p *Player) IsVideo() bool { return p.isVideo }

// Index returns the index of the frame last decoded, -1 when empty.
func (p *Player) Index() int { return p.index }

// Total returns the frame count.
func (p *Player) Total() int { return p.total }

// FPS returns the native frame rate, 0 for stills.
func (p *Player) FPS() float64 { return p.fps }

// IsPlaying reports whether the tick is running.
func (p *Player) IsPlaying() bool { return p.playing }

// HasFinished reports whether the last tick read past the last frame.
func (p *Player) HasFinished() bool { return p.finished }

// Frame returns the frame last decoded. It is overwritten by the next decode.
func (p *Player) Frame() *frame.Frame { return p.current }

// Capture returns the held capture, or nil.
func (p *Player) Capture() ports.Capture { return p.capture }

// FrameNumber maps the cursor to the source's own numbering when the
// capture has one, otherwise it returns the index.
func (p *Player) FrameNumber() int {
	if n, ok := p.capture.(ports.FrameNumberer); ok && p.index >= 0 {
		return n.FrameNumber(p.index)
	}
	return p.index
}

// TickPeriod returns round(1000/fps) ms, at least 1 ms.
func (p *Player) TickPeriod() time.Duration {
	return TickPeriod(p.fps, p.tickFallback)
}

// TickPeriod converts a frame rate to a timer period.
func TickPeriod(fps float64, fallback time.Duration) time.Duration {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return fallback
	}
	ms := math.Round(1000 / fps)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Load releases the current capture and opens path. On failure the player
// is left empty and Load returns false.
func (p *Player) Load(path string) bool {
	p.pause()
	p.release()

	c, err := p.opener.Open(path)
	if err != nil {
		p.logger.Warn("Failed to load %s: %v", path, err)
		p.reset()
		return false
	}
	f, err := c.Read()
	if err != nil {
		p.logger.Warn("Failed to decode first frame of %s: %v", path, err)
		c.Release()
		p.reset()
		return false
	}

	p.capture = c
	p.path = path
	p.fps = c.FPS()
	p.isVideo = p.fps > 0
	p.total = c.FrameCount()
	p.current = f
	p.index = c.Position() - 1
	p.finished = false

	p.logger.Info("Loaded %s: %d frames at %.3f fps", path, p.total, p.fps)
	p.publishIndex()
	p.publish(events.Event{Kind: events.FPSChanged, FPS: p.fps})
	p.publish(events.Event{Kind: events.FrameReady, Index: p.index})
	return true
}

// Clear stops playback, releases the capture and resets the player.
func (p *Player) Clear() {
	p.pause()
	p.release()
	p.reset()
}

func (p *Player) reset() {
	p.capture = nil
	p.path = ""
	p.isVideo = false
	p.current = nil
	p.index = -1
	p.total = 0
	p.fps = 0
	p.finished = false
	p.publishIndex()
	p.publish(events.Event{Kind: events.FPSChanged, FPS: 0})
}

func (p *Player) release() {
	if p.capture != nil {
		p.capture.Release()
	}
}

// TogglePlay starts or pauses playback of a video. A finished clip is
// rewound first.
func (p *Player) TogglePlay() {
	if !p.isVideo || p.capture == nil {
		return
	}
	if p.playing {
		p.pause()
		return
	}
	if p.finished {
		p.capture.Seek(0)
		p.finished = false
	}
	p.playing = true
	p.logger.Debug("Play at %v per frame", p.TickPeriod())
	p.publish(events.Event{Kind: events.PlayStateChanged, Playing: true})
	p.startTimer()
}

// Play starts playback unless it is already running.
func (p *Player) Play() {
	if !p.playing {
		p.TogglePlay()
	}
}

// Pause stops playback and keeps the cursor.
func (p *Player) Pause() {
	p.pause()
}

// Stop pauses and shows frame 0.
func (p *Player) Stop() {
	p.stopTimer()
	p.playing = false
	p.publish(events.Event{Kind: events.PlayStateChanged, Playing: false})
	if p.capture == nil {
		return
	}
	p.finished = false
	p.decodeAt(0)
}

// NextFrame shows the frame after the cursor.
func (p *Player) NextFrame() {
	if !p.isVideo || p.capture == nil {
		return
	}
	p.pause()
	if p.index < p.total-1 {
		p.finished = false
		p.decodeAt(p.index + 1)
	}
}

// PreviousFrame shows the frame before the cursor.
func (p *Player) PreviousFrame() {
	if !p.isVideo || p.capture == nil {
		return
	}
	p.pause()
	if p.index > 0 {
		p.finished = false
		p.decodeAt(p.index - 1)
	}
}

// SeekTo shows frame clamp(i, 0, N-1).
func (p *Player) SeekTo(i int) {
	if !p.isVideo || p.capture == nil || p.total <= 0 {
		return
	}
	p.pause()
	if i < 0 {
		i = 0
	}
	if i > p.total-1 {
		i = p.total - 1
	}
	p.finished = false
	p.decodeAt(i)
}

// FirstFrame seeks to frame 0.
func (p *Player) FirstFrame() { p.SeekTo(0) }

// LastFrame seeks to the last frame.
func (p *Player) LastFrame() { p.SeekTo(p.total - 1) }

// SetTickSuppressed hands timing to an outside coordinator. While
// suppressed the player pauses and never arms its own timer.
func (p *Player) SetTickSuppressed(suppressed bool) {
	if suppressed {
		p.pause()
	}
	p.tickSuppressed = suppressed
}

// TickSuppressed reports whether an outside coordinator drives timing.
func (p *Player) TickSuppressed() bool { return p.tickSuppressed }

// Advance reads the next frame for a joint tick. It returns false at the
// end of the clip and marks the player finished, without publishing
// playbackFinished. Players that cannot be stepped return true unchanged.
func (p *Player) Advance() bool {
	if p.capture == nil {
		return false
	}
	if !p.isVideo {
		return true
	}
	if p.finished {
		return false
	}
	if !p.readNext() {
		p.finished = true
		return false
	}
	return true
}

// AtEnd reports whether the cursor sits on the last frame or past it.
func (p *Player) AtEnd() bool {
	if p.capture == nil || !p.isVideo {
		return true
	}
	return p.finished || p.index >= p.total-1
}

// Rewind moves the cursor so the next read yields frame 0 and clears the
// finished flag. Nothing is decoded.
func (p *Player) Rewind() {
	if p.capture == nil {
		return
	}
	p.capture.Seek(0)
	p.finished = false
}

// Rescan picks up frames added to or removed from a live sequence.
func (p *Player) Rescan() bool {
	r, ok := p.capture.(ports.Rescanner)
	if !ok {
		return false
	}
	changed, err := r.Rescan()
	if err != nil {
		p.logger.Warn("Rescan of %s failed: %v", p.path, err)
		return false
	}
	if !changed {
		return false
	}
	total := p.capture.FrameCount()
	p.logger.Info("Sequence %s now has %d frames", p.path, total)
	if total == 0 {
		p.Clear()
		return true
	}
	p.total = total
	if p.index > total-1 {
		p.pause()
		p.decodeAt(total - 1)
		return true
	}
	p.publishIndex()
	return true
}

func (p *Player) startTimer() {
	if p.tickSuppressed {
		return
	}
	p.stopTimer()
	p.timer = p.sched.Every(p.TickPeriod(), p.tick)
}

func (p *Player) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Player) pause() {
	p.stopTimer()
	if p.playing {
		p.playing = false
		p.publish(events.Event{Kind: events.PlayStateChanged, Playing: false})
	}
}

func (p *Player) tick() {
	if !p.playing || p.capture == nil {
		return
	}
	if p.readNext() {
		return
	}
	p.stopTimer()
	p.playing = false
	p.finished = true
	p.logger.Debug("Playback finished at %d/%d", p.index, p.total)
	p.publish(events.Event{Kind: events.PlayStateChanged, Playing: false})
	p.publish(events.Event{Kind: events.PlaybackFinished, Index: p.index, Total: p.total})
}

// readNext decodes the frame at the capture cursor and publishes it.
func (p *Player) readNext() bool {
	f, err := p.capture.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			p.logger.Warn("Decode failed at %d: %v", p.capture.Position(), err)
		}
		return false
	}
	p.current = f
	p.index = p.capture.Position() - 1
	p.publishIndex()
	p.publish(events.Event{Kind: events.FrameReady, Index: p.index})
	return true
}

func (p *Player) decodeAt(i int) {
	p.capture.Seek(i)
	if !p.readNext() {
		p.logger.Debug("No frame at %d", i)
	}
}

func (p *Player) publishIndex() {
	p.publish(events.Event{Kind: events.FrameIndexChanged, Index: p.index, Total: p.total})
}

func (p *Player) publish(e events.Event) {
	e.Source = p.name
	p.bus.Publish(e)
}
