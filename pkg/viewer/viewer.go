// Package viewer is the top-level coordinator of the review engine. It
// routes user actions, drops and shortcuts to the players, the compare
// coordinator and the project tree, and applies the end-of-clip policy.
//
// Every method must be called on the scheduler thread.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/framecheck/pkg/compare"
	"github.com/user/framecheck/pkg/events"
	"github.com/user/framecheck/pkg/frame"
	"github.com/user/framecheck/pkg/media"
	"github.com/user/framecheck/pkg/playback"
	"github.com/user/framecheck/pkg/player"
	"github.com/user/framecheck/pkg/ports"
	"github.com/user/framecheck/pkg/project"
	"github.com/user/framecheck/pkg/surface"
)

// Status lines shown by the host. They are message keys for go-l10n.
const (
	StatusLoadFailed     = "Failed to load file"
	StatusNoSequence     = "No image sequence found"
	StatusEmptyFolder    = "Folder has no media"
	StatusNoTimelineItem = "No timeline item"
)

// DefaultResumeDelay lets a freshly loaded clip settle before playback
// resumes under PLAY_NEXT.
const DefaultResumeDelay = 100 * time.Millisecond

const (
	defaultSurfaceWidth  = 1280
	defaultSurfaceHeight = 720
)

// SequenceWatcher reports changes to the files of a sequence template.
type SequenceWatcher interface {
	Watch(template string, onChange func()) (stop func(), err error)
}

// Options configures a Viewer.
type Options struct {
	InitialMode       playback.Mode
	ResumeDelay       time.Duration
	SurfaceWidth      int
	SurfaceHeight     int
	SurfaceBackground color.Color
	Placeholders      surface.Placeholders
	PlaceholderWidth  int
	PlaceholderHeight int
	CompareFallback   float64
	TickFallback      time.Duration
	WatchSequences    bool
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		InitialMode:       playback.Loop,
		ResumeDelay:       DefaultResumeDelay,
		SurfaceWidth:      defaultSurfaceWidth,
		SurfaceHeight:     defaultSurfaceHeight,
		SurfaceBackground: color.RGBA{R: 0x14, G: 0x14, B: 0x14, A: 0xff},
		PlaceholderWidth:  640,
		PlaceholderHeight: 480,
		CompareFallback:   compare.DefaultFallbackFPS,
		TickFallback:      player.DefaultTickFallback,
		WatchSequences:    true,
	}
}

// Viewer owns players A and B, the compare coordinator, the project tree
// and the render surface.
type Viewer struct {
	a, b    *player.Player
	compare *compare.Coordinator
	tree    *project.Tree
	surface *surface.Surface

	sched   ports.Scheduler
	fs      ports.FileSystem
	watcher SequenceWatcher
	sink    ports.FrameSink
	bus     *events.Bus
	logger  ports.Logger
	opts    Options

	mode           playback.Mode
	status         string
	currentA       *project.Item
	projectVisible bool
	resumeTimer    ports.Timer
	unwatch        map[string]func()
	presented      int
}

// New wires a viewer. watcher and sink may be nil.
func New(
	opener player.Opener,
	renderer ports.Renderer,
	sched ports.Scheduler,
	fs ports.FileSystem,
	watcher SequenceWatcher,
	sink ports.FrameSink,
	logger ports.Logger,
	opts Options,
) *Viewer {
	if opts.ResumeDelay <= 0 {
		opts.ResumeDelay = DefaultResumeDelay
	}
	if opts.SurfaceWidth <= 0 || opts.SurfaceHeight <= 0 {
		opts.SurfaceWidth, opts.SurfaceHeight = defaultSurfaceWidth, defaultSurfaceHeight
	}
	if opts.SurfaceBackground == nil {
		opts.SurfaceBackground = color.Black
	}
	if opts.Placeholders.Renderer == nil {
		opts.Placeholders.Renderer = renderer
	}

	a := player.New("A", opener, sched, logger)
	b := player.New("B", opener, sched, logger)
	for _, p := range []*player.Player{a, b} {
		p.SetTickFallback(opts.TickFallback)
	}
	comp := compare.NewCompositor(renderer, opts.Placeholders, opts.PlaceholderWidth, opts.PlaceholderHeight)
	coord := compare.New(a, b, sched, comp, logger)
	coord.SetFallbackFPS(opts.CompareFallback)

	v := &Viewer{
		a:              a,
		b:              b,
		compare:        coord,
		tree:           project.New(logger),
		surface:        surface.New(renderer, opts.SurfaceWidth, opts.SurfaceHeight, opts.SurfaceBackground),
		sched:          sched,
		fs:             fs,
		watcher:        watcher,
		sink:           sink,
		bus:            events.NewBus(),
		logger:         logger.WithComponent("viewer"),
		opts:           opts,
		mode:           opts.InitialMode,
		projectVisible: true,
		unwatch:        map[string]func(){},
	}

	a.Events().Subscribe(v.onPrimaryEvent, events.FrameReady, events.FrameIndexChanged, events.PlaybackFinished)
	coord.OnComposite(func(f *frame.Frame) { v.surface.Present(f) })
	coord.Events().Subscribe(func(events.Event) { v.onFinished(true) }, events.PlaybackFinished)
	v.surface.OnPresent(v.dump)
	return v
}

// A returns player A.
func (v *Viewer) A() *player.Player { return v.a }

// B returns player B.
func (v *Viewer) B() *player.Player { return v.b }

// Compare returns the compare coordinator.
func (v *Viewer) Compare() *compare.Coordinator { return v.compare }

// Tree returns the project tree.
func (v *Viewer) Tree() *project.Tree { return v.tree }

// Surface returns the render surface.
func (v *Viewer) Surface() *surface.Surface { return v.surface }

// Events carries fileDropped notifications.
func (v *Viewer) Events() *events.Bus { return v.bus }

// Status returns the current status line key, "" when there is nothing to say.
func (v *Viewer) Status() string { return v.status }

// StatusText returns the status line translated for the user's locale.
func (v *Viewer) StatusText() string {
	if v.status == "" {
		return ""
	}
	return l10n.T(v.status)
}

// CurrentItem returns the project item loaded into A, or nil.
func (v *Viewer) CurrentItem() *project.Item { return v.currentA }

// ProjectVisible reports whether the host should show the project panel.
func (v *Viewer) ProjectVisible() bool { return v.projectVisible }

// Presented returns how many surface images have been rendered.
func (v *Viewer) Presented() int { return v.presented }

// Mode returns the playback mode.
func (v *Viewer) Mode() playback.Mode { return v.mode }

// SetMode changes the playback mode.
func (v *Viewer) SetMode(m playback.Mode) {
	if m == v.mode {
		return
	}
	v.logger.Info("Playback mode: %s", m)
	v.mode = m
}

// CycleMode advances LOOP, PLAY_NEXT, PLAY_ONCE and returns the new mode.
func (v *Viewer) CycleMode() playback.Mode {
	v.SetMode(v.mode.Next())
	return v.mode
}

func (v *Viewer) setStatus(s string) {
	if s != "" {
		v.logger.Debug("Status: %s", s)
	}
	v.status = s
}

// OpenFiles adds paths to Source and loads the first one that opens into A.
// The playback mode is unchanged.
func (v *Viewer) OpenFiles(paths []string) bool {
	v.tree.AddToSource(paths, v.exists)
	for _, p := range paths {
		if !media.IsSupported(p) {
			continue
		}
		return v.load(v.a, p, v.tree.FindPath(v.tree.Source(), p))
	}
	v.setStatus(StatusLoadFailed)
	return false
}

// OpenSequenceDir detects the dominant numbered sequence in dir, adds its
// template to Source and loads it into A.
func (v *Viewer) OpenSequenceDir(dir string) bool {
	names, err := v.fs.ReadDir(dir)
	if err != nil {
		v.logger.Warn("Cannot list %s: %v", dir, err)
		v.setStatus(StatusNoSequence)
		return false
	}
	tmpl, ok := media.DetectSequence(names)
	if !ok {
		v.setStatus(StatusNoSequence)
		return false
	}
	tmpl.Dir = dir
	path := tmpl.String()
	v.logger.Info("Detected sequence %s", path)
	v.tree.AddToSource([]string{path}, nil)
	return v.load(v.a, path, v.tree.FindPath(v.tree.Source(), path))
}

// ActivateItem handles a double-click in the project tree. A Timeline
// folder switches to PLAY_NEXT and plays its first media item; a media
// item switches to PLAY_ONCE and loads into A.
func (v *Viewer) ActivateItem(it *project.Item) bool {
	if it == nil {
		return false
	}
	if it.IsFolder() {
		if !v.tree.UnderTimeline(it) {
			return false
		}
		first := v.tree.FirstMedia(it)
		v.SetMode(playback.PlayNext)
		if first == nil {
			v.setStatus(StatusEmptyFolder)
			return false
		}
		if !v.load(v.a, first.Path(), first) {
			return false
		}
		v.resume()
		return true
	}
	v.SetMode(playback.PlayOnce)
	return v.load(v.a, it.Path(), it)
}

// DropOnSurface handles OS files dropped on the media surface at (x, y).
// Files go to Source; the first one loads into A, or into the half of the
// surface it landed on while comparing.
func (v *Viewer) DropOnSurface(paths []string, x, y int) bool {
	v.tree.AddToSource(paths, v.exists)
	if len(paths) == 0 {
		return false
	}
	target := surface.Left
	if v.compare.Enabled() {
		target = v.surface.HitTest(x, y)
	}
	path := paths[0]
	v.bus.Publish(events.Event{Kind: events.FileDropped, Source: "viewer", Path: path, Target: target.Target()})

	p := v.a
	if target == surface.Right {
		p = v.b
	}
	return v.load(p, path, v.tree.FindPath(v.tree.Source(), path))
}

// DropOnTree handles OS files dropped on a project tree item.
func (v *Viewer) DropOnTree(paths []string, target *project.Item) []*project.Item {
	return v.tree.Drop(paths, target)
}

// DropPayloadOnTree handles an internal drag from Source.
func (v *Viewer) DropPayloadOnTree(data []byte, target *project.Item) []*project.Item {
	return v.tree.DropPayload(data, target)
}

// LoadB loads path into player B, enabling compare mode first.
func (v *Viewer) LoadB(path string) bool {
	if !v.compare.Enabled() {
		v.ToggleCompare()
	}
	v.tree.AddToSource([]string{path}, v.exists)
	return v.load(v.b, path, v.tree.FindPath(v.tree.Source(), path))
}

func (v *Viewer) exists(path string) bool {
	if media.IsSequenceTemplate(path) {
		return true
	}
	ok, err := v.fs.Exists(path)
	return err == nil && ok
}

func (v *Viewer) load(p *player.Player, path string, item *project.Item) bool {
	v.cancelResume()
	ok := p.Load(path)
	if p == v.a {
		v.currentA = item
		if !ok {
			v.currentA = nil
		}
	}
	if ok {
		v.setStatus("")
	} else {
		v.setStatus(StatusLoadFailed)
	}
	v.rewatch(p)
	v.annotate()
	return ok
}

func (v *Viewer) annotate() {
	v.tree.Annotate(v.a.Path(), v.b.Path())
}

// ToggleCompare enables or disables compare mode.
func (v *Viewer) ToggleCompare() bool {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.Disable()
		v.unwatchPlayer(v.b)
		v.presentPrimary()
	} else {
		v.compare.Enable()
	}
	v.annotate()
	return v.compare.Enabled()
}

// ToggleProjectPanel flips the project panel visibility flag.
func (v *Viewer) ToggleProjectPanel() bool {
	v.projectVisible = !v.projectVisible
	return v.projectVisible
}

// TogglePlay starts or pauses playback of the active view.
func (v *Viewer) TogglePlay() {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.TogglePlay()
		return
	}
	v.a.TogglePlay()
}

// IsPlaying reports whether the active view is playing.
func (v *Viewer) IsPlaying() bool {
	if v.compare.Enabled() {
		return v.compare.IsPlaying()
	}
	return v.a.IsPlaying()
}

// Stop pauses and returns to frame 0.
func (v *Viewer) Stop() {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.SeekTo(0)
		return
	}
	v.a.Stop()
}

// NextFrame steps forward.
func (v *Viewer) NextFrame() {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.Step(1)
		return
	}
	v.a.NextFrame()
}

// PreviousFrame steps back.
func (v *Viewer) PreviousFrame() {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.Step(-1)
		return
	}
	v.a.PreviousFrame()
}

// FirstFrame seeks to frame 0.
func (v *Viewer) FirstFrame() {
	v.SeekTo(0)
}

// LastFrame seeks to the last frame.
func (v *Viewer) LastFrame() {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.SeekToEnd()
		return
	}
	v.a.LastFrame()
}

// SeekTo moves the active view to frame i.
func (v *Viewer) SeekTo(i int) {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.SeekTo(i)
		return
	}
	v.a.SeekTo(i)
}

// NextTimelineItem loads the media sibling after A's current item.
func (v *Viewer) NextTimelineItem() bool {
	return v.loadSibling(v.tree.NextMediaSibling(v.currentA))
}

// PreviousTimelineItem loads the media sibling before A's current item.
func (v *Viewer) PreviousTimelineItem() bool {
	return v.loadSibling(v.tree.PreviousMediaSibling(v.currentA))
}

func (v *Viewer) loadSibling(it *project.Item) bool {
	if it == nil || !v.tree.UnderTimeline(it) {
		v.setStatus(StatusNoTimelineItem)
		return false
	}
	return v.load(v.a, it.Path(), it)
}

// Resize changes the surface size.
func (v *Viewer) Resize(width, height int) {
	v.surface.Resize(width, height)
}

// Close stops playback, watchers and releases both captures.
func (v *Viewer) Close() {
	v.cancelResume()
	if v.compare.Enabled() {
		v.compare.Disable()
	}
	v.a.Clear()
	v.b.Clear()
	for name, stop := range v.unwatch {
		stop()
		delete(v.unwatch, name)
	}
}

func (v *Viewer) onPrimaryEvent(e events.Event) {
	switch e.Kind {
	case events.FrameReady, events.FrameIndexChanged:
		if !v.compare.Enabled() && (e.Kind == events.FrameReady || e.Index < 0) {
			v.presentPrimary()
		}
	case events.PlaybackFinished:
		if !v.compare.Enabled() {
			v.onFinished(false)
		}
	}
}

func (v *Viewer) presentPrimary() {
	if f := v.a.Frame(); f != nil {
		v.surface.Present(f)
		return
	}
	v.surface.Clear()
}

// onFinished applies the playback mode after A, or the joint tick, ran
// past the end.
func (v *Viewer) onFinished(joint bool) {
	in := playback.Input{
		Mode:          v.mode,
		Compare:       joint,
		UnderTimeline: v.tree.UnderTimeline(v.currentA),
	}
	if in.UnderTimeline {
		if next := v.tree.NextMediaSibling(v.currentA); next != nil {
			in.NextPath = next.Path()
		}
	}
	d := playback.Decide(in)
	v.logger.Debug("End of clip in %s: %s", v.mode, d.Action)

	if d.ModeChange {
		v.SetMode(d.NewMode)
	}
	switch d.Action {
	case playback.Rewind:
		if joint {
			v.compare.SeekTo(0)
		} else {
			v.a.SeekTo(0)
		}
		if d.Resume {
			v.resume()
		}
	case playback.Advance:
		next := v.tree.NextMediaSibling(v.currentA)
		if !v.load(v.a, d.NextPath, next) {
			return
		}
		if d.Resume {
			v.resumeTimer = v.sched.After(v.opts.ResumeDelay, func() {
				v.resumeTimer = nil
				v.resume()
			})
		}
	}
}

func (v *Viewer) resume() {
	if v.compare.Enabled() {
		if !v.compare.IsPlaying() {
			v.compare.TogglePlay()
		}
		return
	}
	v.a.Play()
}

func (v *Viewer) cancelResume() {
	if v.resumeTimer != nil {
		v.resumeTimer.Stop()
		v.resumeTimer = nil
	}
}

func (v *Viewer) rewatch(p *player.Player) {
	v.unwatchPlayer(p)
	if v.watcher == nil || !v.opts.WatchSequences || !media.IsSequenceTemplate(p.Path()) {
		return
	}
	stop, err := v.watcher.Watch(p.Path(), func() { v.rescan(p) })
	if err != nil {
		v.logger.Warn("Cannot watch %s: %v", p.Path(), err)
		return
	}
	v.unwatch[p.Name()] = stop
}

// rescan refreshes a watched sequence. A sequence that lost all its files
// leaves the player empty, so its watch and tree annotation go too.
func (v *Viewer) rescan(p *player.Player) {
	if !p.Rescan() || p.Loaded() {
		return
	}
	v.unwatchPlayer(p)
	if p == v.a {
		v.currentA = nil
	}
	v.annotate()
}

func (v *Viewer) unwatchPlayer(p *player.Player) {
	if stop, ok := v.unwatch[p.Name()]; ok {
		stop()
		delete(v.unwatch, p.Name())
	}
}

func (v *Viewer) dump(img image.Image) {
	n := v.presented
	v.presented++
	if v.sink == nil || !v.sink.Enabled() {
		return
	}
	if err := v.sink.SaveFrame(n, img); err != nil {
		v.logger.Warn("Failed to save frame %d: %v", n, err)
	}
}

// Describe returns a one-line summary of the engine state for logs.
func (v *Viewer) Describe() string {
	s := fmt.Sprintf("A=%d/%d", v.a.Index(), v.a.Total())
	if v.compare.Enabled() {
		s += fmt.Sprintf(" B=%d/%d", v.b.Index(), v.b.Total())
	}
	return fmt.Sprintf("%s mode=%s playing=%t", s, v.mode, v.IsPlaying())
}
