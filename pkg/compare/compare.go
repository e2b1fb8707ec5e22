// Package compare drives two players from one timer and composites their
// frames side by side.
package compare

import (
	"math"
	"time"

	"github.com/user/framecheck/pkg/events"
	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/player"
	"github.com/user/framecheck/pkg/ports"
)

// Source tags events published by the coordinator.
const Source = "compare"

// DefaultFallbackFPS is the joint rate when either player has no rate.
const DefaultFallbackFPS = 30.0

// Coordinator owns the joint tick of players A and B.
type Coordinator struct {
	a, b       *player.Player
	sched      ports.Scheduler
	compositor *Compositor
	bus        *events.Bus
	logger     ports.Logger

	fallbackFPS float64

	enabled bool
	playing bool
	tickFPS float64
	timer   ports.Timer
	inTick  bool
	unsubs  []func()

	onComposite []func(*frame.Frame)
}

// New creates a disabled coordinator.
func New(a, b *player.Player, sched ports.Scheduler, compositor *Compositor, logger ports.Logger) *Coordinator {
	return &Coordinator{
		a:           a,
		b:           b,
		sched:       sched,
		compositor:  compositor,
		bus:         events.NewBus(),
		logger:      logger.WithComponent("compare"),
		fallbackFPS: DefaultFallbackFPS,
	}
}

// SetFallbackFPS overrides the joint rate used when a player has no rate.
func (c *Coordinator) SetFallbackFPS(fps float64) {
	if fps > 0 {
		c.fallbackFPS = fps
	}
}

// Events returns the coordinator's bus. It carries playStateChanged and
// playbackFinished for the joint tick.
func (c *Coordinator) Events() *events.Bus { return c.bus }

// OnComposite registers fn to receive every composited frame.
func (c *Coordinator) OnComposite(fn func(*frame.Frame)) {
	c.onComposite = append(c.onComposite, fn)
}

// A returns the primary player.
func (c *Coordinator) A() *player.Player { return c.a }

// B returns the secondary player.
func (c *Coordinator) B() *player.Player { return c.b }

// Enabled reports whether compare mode is on.
func (c *Coordinator) Enabled() bool { return c.enabled }

// IsPlaying reports whether the joint tick runs.
func (c *Coordinator) IsPlaying() bool { return c.playing }

// TickFPS returns the rate of the current or last joint tick.
func (c *Coordinator) TickFPS() float64 { return c.tickFPS }

// Enable takes over timing from A and starts compositing.
func (c *Coordinator) Enable() {
	if c.enabled {
		return
	}
	c.enabled = true
	c.a.SetTickSuppressed(true)
	c.b.SetTickSuppressed(true)
	for _, p := range []*player.Player{c.a, c.b} {
		c.unsubs = append(c.unsubs, p.Events().Subscribe(c.onPlayerFrame, events.FrameReady, events.FrameIndexChanged))
	}
	c.logger.Info("Compare mode enabled")
	c.Composite()
}

// Disable stops the joint tick, clears B and hands timing back to A.
func (c *Coordinator) Disable() {
	if !c.enabled {
		return
	}
	c.stop()
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.enabled = false
	c.a.SetTickSuppressed(false)
	c.b.SetTickSuppressed(false)
	c.b.Clear()
	c.logger.Info("Compare mode disabled")
}

// Toggle flips compare mode and reports the new state.
func (c *Coordinator) Toggle() bool {
	if c.enabled {
		c.Disable()
	} else {
		c.Enable()
	}
	return c.enabled
}

// TogglePlay starts or stops the joint tick. Finished clips, or clips that
// both sit on their last frame, are rewound first. Nothing starts unless at
// least one side holds a video.
func (c *Coordinator) TogglePlay() {
	if !c.enabled {
		return
	}
	if c.playing {
		c.stop()
		return
	}
	if !c.a.IsVideo() && !c.b.IsVideo() {
		return
	}
	if c.a.HasFinished() || c.b.HasFinished() || (c.a.AtEnd() && c.b.AtEnd()) {
		c.a.Rewind()
		c.b.Rewind()
	}
	c.tickFPS = c.jointFPS()
	period := player.TickPeriod(c.tickFPS, time.Duration(math.Round(1000/c.fallbackFPS))*time.Millisecond)
	c.playing = true
	c.logger.Debug("Joint play at %.3f fps (%v)", c.tickFPS, period)
	c.bus.Publish(events.Event{Kind: events.PlayStateChanged, Source: Source, Playing: true})
	c.timer = c.sched.Every(period, c.tick)
}

// Pause stops the joint tick if it runs.
func (c *Coordinator) Pause() {
	c.stop()
}

// Step moves both players by delta frames and composites once.
func (c *Coordinator) Step(delta int) {
	c.batch(func(p *player.Player) {
		if delta > 0 {
			p.NextFrame()
		} else if delta < 0 {
			p.PreviousFrame()
		}
	})
}

// SeekTo moves both players to frame i (clamped per player).
func (c *Coordinator) SeekTo(i int) {
	c.batch(func(p *player.Player) { p.SeekTo(i) })
}

// SeekToEnd moves both players to their last frames.
func (c *Coordinator) SeekToEnd() {
	c.batch(func(p *player.Player) { p.LastFrame() })
}

func (c *Coordinator) batch(fn func(p *player.Player)) {
	c.stop()
	c.inTick = true
	fn(c.a)
	fn(c.b)
	c.inTick = false
	c.Composite()
}

func (c *Coordinator) jointFPS() float64 {
	fa, fb := c.a.FPS(), c.b.FPS()
	if fa <= 0 || fb <= 0 {
		return c.fallbackFPS
	}
	return math.Min(fa, fb)
}

func (c *Coordinator) stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.playing {
		c.playing = false
		c.bus.Publish(events.Event{Kind: events.PlayStateChanged, Source: Source, Playing: false})
	}
}

func (c *Coordinator) tick() {
	if !c.playing {
		return
	}
	c.inTick = true
	ok := advance(c.a)
	if ok {
		ok = advance(c.b)
	}
	c.inTick = false
	c.Composite()

	if ok {
		return
	}
	c.logger.Debug("Joint playback finished at A=%d B=%d", c.a.Index(), c.b.Index())
	c.stop()
	c.bus.Publish(events.Event{Kind: events.PlaybackFinished, Source: Source, Index: c.a.Index(), Total: c.a.Total()})
}

// advance treats an empty player as a still so the other side keeps going.
func advance(p *player.Player) bool {
	if !p.Loaded() {
		return true
	}
	return p.Advance()
}

func (c *Coordinator) onPlayerFrame(events.Event) {
	if c.inTick {
		return
	}
	c.Composite()
}

// Composite builds the side-by-side frame from the players' current frames
// and hands it to the registered consumers.
func (c *Coordinator) Composite() *frame.Frame {
	if !c.enabled {
		return nil
	}
	out := c.compositor.Compose(c.a.Frame(), c.b.Frame())
	for _, fn := range c.onComposite {
		fn(out)
	}
	return out
}
