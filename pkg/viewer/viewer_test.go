package viewer

import (
	"errors"
	"testing"
	"time"

	"github.com/user/framecheck/pkg/capture"
	"github.com/user/framecheck/pkg/events"
	"github.com/user/framecheck/pkg/mocks"
	"github.com/user/framecheck/pkg/playback"
	"github.com/user/framecheck/pkg/ports"
	"github.com/user/framecheck/pkg/project"
)

// clipOpener builds a fresh mock capture on every open.
type clipOpener struct {
	clips  map[string][2]float64 // frames, fps
	opened []string
}

func (o *clipOpener) Open(path string) (ports.Capture, error) {
	o.opened = append(o.opened, path)
	c, ok := o.clips[path]
	if !ok {
		return nil, errors.New("unsupported")
	}
	return mocks.NewCapture(int(c[0]), c[1]), nil
}

type fakeWatcher struct {
	watched  []string
	stopped  []string
	onChange map[string]func()
}

func (w *fakeWatcher) Watch(template string, onChange func()) (func(), error) {
	w.watched = append(w.watched, template)
	if w.onChange == nil {
		w.onChange = map[string]func(){}
	}
	w.onChange[template] = onChange
	return func() { w.stopped = append(w.stopped, template) }, nil
}

type fixture struct {
	v      *Viewer
	sched  *mocks.Scheduler
	fs     *mocks.FileSystem
	opener *clipOpener
	sink   *mocks.FrameSink
}

func newFixture(clips map[string][2]float64) *fixture {
	sched := mocks.NewScheduler()
	fs := mocks.NewFileSystem()
	for p := range clips {
		fs.AddFile(p, nil)
	}
	opener := &clipOpener{clips: clips}
	sink := mocks.NewFrameSink(true)
	v := New(opener, &mocks.Renderer{}, sched, fs, nil, sink, mocks.NewLogger(), DefaultOptions())
	return &fixture{v: v, sched: sched, fs: fs, opener: opener, sink: sink}
}

func TestScenario_SequenceDiscovery(t *testing.T) {
	sched := mocks.NewScheduler()
	fs := mocks.NewFileSystem()
	for _, n := range []string{"1001", "1002", "1003", "1004", "1005"} {
		fs.AddFile("/shots/shot01."+n+".png", []byte(n))
	}
	r := &mocks.Renderer{}
	opener := capture.NewOpener(fs, &mocks.VideoBackend{}, r, nil, capture.Options{}, mocks.NewLogger())
	v := New(opener, r, sched, fs, nil, nil, mocks.NewLogger(), DefaultOptions())

	if !v.OpenFiles([]string{"/shots/shot01.%04d.png"}) {
		t.Fatalf("open failed: %s", v.Status())
	}
	a := v.A()
	if a.Total() != 5 || a.FrameNumber() != 1001 {
		t.Fatalf("expected 5 frames from 1001, got %d from %d", a.Total(), a.FrameNumber())
	}
	for want := 1; want <= 4; want++ {
		v.HandleShortcut("Right")
		if a.Index() != want {
			t.Fatalf("press %d: index %d", want, a.Index())
		}
	}
	v.HandleShortcut("Right")
	if a.Index() != 4 || a.FrameNumber() != 1005 {
		t.Errorf("press past end moved to %d", a.Index())
	}
}

func TestScenario_Loop(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {30, 30}})
	finished := &events.Recorder{}
	f.v.A().Events().Subscribe(finished.Handle, events.PlaybackFinished)

	f.v.OpenFiles([]string{"/m/a.mp4"})
	f.v.HandleShortcut("Space")

	f.sched.Advance(time.Second)
	if f.v.A().Index() != 0 || !f.v.IsPlaying() {
		t.Errorf("after 1s expected playing from 0, got index %d playing %t", f.v.A().Index(), f.v.IsPlaying())
	}

	f.sched.Advance(1500 * time.Millisecond)
	if n := finished.Count(events.PlaybackFinished); n != 2 {
		t.Errorf("expected 2 playbackFinished after 2.5s, got %d", n)
	}
	if !f.v.IsPlaying() {
		t.Error("loop should keep playing")
	}
}

func TestScenario_PlayNextAcrossFolder(t *testing.T) {
	f := newFixture(map[string][2]float64{
		"/m/a.mp4": {10, 10},
		"/m/b.mp4": {5, 10},
	})
	tree := f.v.Tree()
	folder, _ := tree.NewFolder(nil)
	f.v.DropOnTree([]string{"/m/a.mp4", "/m/b.mp4"}, folder)

	if !f.v.ActivateItem(folder) {
		t.Fatal("activating the folder failed")
	}
	if f.v.Mode() != playback.PlayNext {
		t.Errorf("mode = %s", f.v.Mode())
	}
	if f.v.A().Path() != "/m/a.mp4" || !f.v.IsPlaying() {
		t.Fatal("a.mp4 should load and play")
	}

	f.sched.Advance(1050 * time.Millisecond)
	if f.v.A().Path() != "/m/b.mp4" {
		t.Fatalf("expected b.mp4 after a.mp4, got %q", f.v.A().Path())
	}
	if f.v.IsPlaying() {
		t.Error("b.mp4 should wait for the resume delay")
	}
	f.sched.Advance(100 * time.Millisecond)
	if !f.v.IsPlaying() {
		t.Error("b.mp4 should play after the resume delay")
	}

	f.sched.Advance(3 * time.Second)
	if f.v.Mode() != playback.PlayOnce {
		t.Errorf("expected PLAY_ONCE at the end, got %s", f.v.Mode())
	}
	if len(f.opener.opened) != 2 {
		t.Errorf("unexpected loads %v", f.opener.opened)
	}
	if !f.v.A().HasFinished() || f.v.IsPlaying() {
		t.Error("b.mp4 should be finished")
	}
}

func TestScenario_CompareJointTick(t *testing.T) {
	f := newFixture(map[string][2]float64{
		"/m/a.mp4": {60, 30},
		"/m/b.mp4": {60, 24},
	})
	f.v.OpenFiles([]string{"/m/a.mp4"})
	f.v.LoadB("/m/b.mp4")
	f.v.HandleShortcut("Space")

	if got := f.sched.Periods[len(f.sched.Periods)-1]; got != 42*time.Millisecond {
		t.Errorf("joint period = %v", got)
	}
	f.sched.Advance(60 * 42 * time.Millisecond)
	if f.v.A().Index() != 0 || f.v.B().Index() != 0 || f.v.IsPlaying() {
		t.Errorf("LOOP in compare should rewind without resuming, got A=%d B=%d playing=%t",
			f.v.A().Index(), f.v.B().Index(), f.v.IsPlaying())
	}
}

func TestScenario_CompareJointTickOnce(t *testing.T) {
	f := newFixture(map[string][2]float64{
		"/m/a.mp4": {60, 30},
		"/m/b.mp4": {60, 24},
	})
	f.v.SetMode(playback.PlayOnce)
	f.v.OpenFiles([]string{"/m/a.mp4"})
	f.v.LoadB("/m/b.mp4")
	f.v.TogglePlay()

	f.sched.Advance(60 * 42 * time.Millisecond)
	if f.v.A().Index() != 59 || f.v.B().Index() != 59 {
		t.Fatalf("expected both at 59, got A=%d B=%d", f.v.A().Index(), f.v.B().Index())
	}
	f.v.TogglePlay()
	f.sched.Advance(42 * time.Millisecond)
	if f.v.A().Index() != 0 || f.v.B().Index() != 0 {
		t.Errorf("expected both rewound, got A=%d B=%d", f.v.A().Index(), f.v.B().Index())
	}
}

func TestScenario_DuplicateDrop(t *testing.T) {
	f := newFixture(nil)
	folder, _ := f.v.Tree().NewFolder(nil)

	f.v.DropOnTree([]string{"/m/x.mp4"}, folder)
	f.v.DropOnTree([]string{"/m/x.mp4"}, folder)

	if n := len(folder.Children()); n != 1 {
		t.Errorf("folder has %d children", n)
	}
	if n := len(f.v.Tree().Source().Children()); n != 1 {
		t.Errorf("Source has %d children", n)
	}
}

func TestScenario_DropOnCompareSurface(t *testing.T) {
	f := newFixture(map[string][2]float64{
		"/m/x.mp4": {10, 24},
		"/m/y.mp4": {10, 24},
	})
	dropped := &events.Recorder{}
	f.v.Events().Subscribe(dropped.Handle, events.FileDropped)

	f.v.OpenFiles([]string{"/m/x.mp4"})
	f.v.HandleShortcut("Ctrl+T")
	w, h := f.v.Surface().Size()
	if !f.v.DropOnSurface([]string{"/m/y.mp4"}, w*3/4, h/2) {
		t.Fatal("drop failed")
	}

	if f.v.B().Path() != "/m/y.mp4" || f.v.A().Path() != "/m/x.mp4" {
		t.Errorf("A=%q B=%q", f.v.A().Path(), f.v.B().Path())
	}
	tree := f.v.Tree()
	kids := tree.Source().Children()
	if tree.DisplayLabel(kids[0]) != "x.mp4 (A)" || tree.DisplayLabel(kids[1]) != "y.mp4 (B)" {
		t.Errorf("labels %q %q", tree.DisplayLabel(kids[0]), tree.DisplayLabel(kids[1]))
	}
	if e, ok := dropped.Last(events.FileDropped); !ok || e.Target != "B" || e.Path != "/m/y.mp4" {
		t.Errorf("unexpected fileDropped %v", e)
	}

	f.v.DropOnSurface([]string{"/m/y.mp4"}, 10, h/2)
	if f.v.A().Path() != "/m/y.mp4" || tree.DisplayLabel(kids[1]) != "y.mp4 (A/B)" {
		t.Errorf("left drop should load A, labels %q", tree.DisplayLabel(kids[1]))
	}
}

func TestDropOnSurface_SingleViewAlwaysA(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/y.mp4": {10, 24}})
	w, h := f.v.Surface().Size()
	f.v.DropOnSurface([]string{"/m/y.mp4"}, w-1, h/2)
	if f.v.A().Path() != "/m/y.mp4" || f.v.B().Loaded() {
		t.Error("single view drops go to A")
	}
}

func TestLoadFailure_SetsStatus(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {10, 24}})
	f.fs.AddFile("/m/notes.txt", nil)
	f.fs.AddFile("/m/broken.mov", nil)

	if f.v.OpenFiles([]string{"/m/notes.txt"}) {
		t.Error("unsupported file should not load")
	}
	if f.v.Status() != StatusLoadFailed || f.v.StatusText() == "" {
		t.Errorf("status = %q", f.v.Status())
	}

	f.v.OpenFiles([]string{"/m/a.mp4"})
	if f.v.Status() != "" {
		t.Errorf("status should clear after a good load, got %q", f.v.Status())
	}

	if f.v.OpenFiles([]string{"/m/broken.mov"}) {
		t.Error("undecodable file should not load")
	}
	if f.v.Status() != StatusLoadFailed || f.v.A().Loaded() {
		t.Error("failed load should leave A empty")
	}
	if f.v.Surface().Frame() != nil {
		t.Error("surface should be cleared after a failed load")
	}
}

func TestActivateItem_MediaForcesPlayOnce(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {10, 24}})
	items := f.v.Tree().AddToSource([]string{"/m/a.mp4"}, nil)

	if !f.v.ActivateItem(items[0]) {
		t.Fatal("activate failed")
	}
	if f.v.Mode() != playback.PlayOnce || f.v.IsPlaying() {
		t.Errorf("mode %s playing %t", f.v.Mode(), f.v.IsPlaying())
	}
	if f.v.CurrentItem() != items[0] {
		t.Error("current item not tracked")
	}
}

func TestOpenFiles_KeepsMode(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {10, 24}})
	f.v.SetMode(playback.PlayNext)
	f.v.OpenFiles([]string{"/m/a.mp4", "/m/missing.mp4"})
	if f.v.Mode() != playback.PlayNext {
		t.Error("open should not change mode")
	}
	if n := len(f.v.Tree().Source().Children()); n != 1 {
		t.Errorf("missing files should not enter Source, got %d", n)
	}
}

func TestPlayNext_OutsideTimelineStops(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {3, 10}, "/m/b.mp4": {3, 10}})
	f.v.OpenFiles([]string{"/m/a.mp4", "/m/b.mp4"})
	f.v.SetMode(playback.PlayNext)
	f.v.TogglePlay()
	f.sched.Advance(time.Second)

	if f.v.A().Path() != "/m/a.mp4" || f.v.IsPlaying() {
		t.Error("Source items do not advance")
	}
	if f.v.Mode() != playback.PlayNext {
		t.Error("mode stays when not under Timeline")
	}
}

func TestTimelineNavigation(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {3, 10}, "/m/b.mp4": {3, 10}})
	tl := f.v.Tree().Timeline()
	f.v.DropOnTree([]string{"/m/a.mp4", "/m/b.mp4"}, tl)
	f.v.ActivateItem(tl.Children()[0])

	if f.v.HandleShortcut("Ctrl+Down") != ShortcutHandled || f.v.A().Path() != "/m/b.mp4" {
		t.Errorf("Ctrl+Down loaded %q", f.v.A().Path())
	}
	if f.v.NextTimelineItem() || f.v.Status() != StatusNoTimelineItem {
		t.Error("no item after b.mp4")
	}
	f.v.HandleShortcut("ctrl+up")
	if f.v.A().Path() != "/m/a.mp4" {
		t.Errorf("Ctrl+Up loaded %q", f.v.A().Path())
	}
}

func TestModeCycle(t *testing.T) {
	f := newFixture(nil)
	got := []playback.Mode{f.v.Mode(), f.v.CycleMode(), f.v.CycleMode(), f.v.CycleMode()}
	want := []playback.Mode{playback.Loop, playback.PlayNext, playback.PlayOnce, playback.Loop}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: %s, want %s", i, got[i], want[i])
		}
	}
}

func TestShortcuts(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {10, 24}})
	f.v.OpenFiles([]string{"/m/a.mp4"})

	tests := []struct {
		key  string
		want ShortcutResult
	}{
		{"Ctrl+O", ShortcutOpenFile},
		{"Ctrl+Shift+O", ShortcutOpenSequence},
		{"shift+ctrl+o", ShortcutOpenSequence},
		{"F13", ShortcutIgnored},
		{"End", ShortcutHandled},
	}
	for _, tt := range tests {
		if got := f.v.HandleShortcut(tt.key); got != tt.want {
			t.Errorf("HandleShortcut(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
	if f.v.A().Index() != 9 {
		t.Errorf("End should seek to last frame, got %d", f.v.A().Index())
	}
	f.v.HandleShortcut("Home")
	if f.v.A().Index() != 0 {
		t.Errorf("Home should seek to 0, got %d", f.v.A().Index())
	}
	f.v.HandleShortcut("Ctrl+H")
	if f.v.ProjectVisible() {
		t.Error("Ctrl+H should hide the project panel")
	}
}

func TestToggleCompare_Off(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/x.mp4": {10, 24}, "/m/y.mp4": {10, 24}})
	f.v.OpenFiles([]string{"/m/x.mp4"})
	f.v.LoadB("/m/y.mp4")

	if f.v.ToggleCompare() {
		t.Fatal("expected compare off")
	}
	if f.v.B().Loaded() {
		t.Error("B should be cleared")
	}
	y := f.v.Tree().Source().Children()[1]
	if f.v.Tree().DisplayLabel(y) != "y.mp4" {
		t.Errorf("B label should drop its suffix, got %q", f.v.Tree().DisplayLabel(y))
	}
	if fr := f.v.Surface().Frame(); fr == nil || fr.Width != 4 {
		t.Error("surface should show A alone")
	}
}

func TestCompareSurfaceShowsComposite(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/x.mp4": {10, 24}})
	f.v.OpenFiles([]string{"/m/x.mp4"})
	f.v.ToggleCompare()

	fr := f.v.Surface().Frame()
	if fr == nil || fr.Width != 8 || fr.Height != 2 {
		t.Errorf("expected A plus placeholder composite, got %v", fr)
	}
}

func TestOpenSequenceDir(t *testing.T) {
	sched := mocks.NewScheduler()
	fs := mocks.NewFileSystem()
	for _, n := range []string{"render_0001.exr", "render_0002.exr", "render_0003.exr", "notes.txt"} {
		fs.AddFile("/out/"+n, nil)
	}
	opener := &clipOpener{clips: map[string][2]float64{"/out/render_%04d.exr": {3, 24}}}
	watcher := &fakeWatcher{}
	v := New(opener, &mocks.Renderer{}, sched, fs, watcher, nil, mocks.NewLogger(), DefaultOptions())

	if !v.OpenSequenceDir("/out") {
		t.Fatalf("open failed: %s", v.Status())
	}
	if v.A().Path() != "/out/render_%04d.exr" {
		t.Errorf("loaded %q", v.A().Path())
	}
	if len(v.Tree().Source().Children()) != 1 {
		t.Error("template should be in Source")
	}
	if len(watcher.watched) != 1 || watcher.watched[0] != "/out/render_%04d.exr" {
		t.Errorf("watched %v", watcher.watched)
	}

	if v.OpenSequenceDir("/nowhere") || v.Status() != StatusNoSequence {
		t.Error("missing dir should report no sequence")
	}
	if len(watcher.stopped) != 0 {
		t.Errorf("listing failure should keep the current watch, stopped %v", watcher.stopped)
	}

	fs.AddFile("/out/preview.mov", nil)
	v.OpenFiles([]string{"/out/preview.mov"})
	if len(watcher.stopped) != 1 || len(watcher.watched) != 1 {
		t.Errorf("loading a non-sequence should stop the watch, stopped %v", watcher.stopped)
	}
}

func TestOpenSequenceDir_NoSequence(t *testing.T) {
	f := newFixture(nil)
	f.fs.AddFile("/docs/readme.md", nil)
	if f.v.OpenSequenceDir("/docs") || f.v.Status() != StatusNoSequence {
		t.Error("expected no sequence")
	}
}

type rescanCapture struct {
	*mocks.Capture
	rescans int
	empty   bool
}

func (r *rescanCapture) Rescan() (bool, error) {
	r.rescans++
	if r.empty {
		r.Frames = 0
		return true, nil
	}
	r.Frames++
	return true, nil
}

type seqOpener struct{ c *rescanCapture }

func (o seqOpener) Open(string) (ports.Capture, error) { return o.c, nil }

func TestSequenceWatchRescans(t *testing.T) {
	c := &rescanCapture{Capture: mocks.NewCapture(3, 24)}
	watcher := &fakeWatcher{}
	fs := mocks.NewFileSystem()
	v := New(seqOpener{c}, &mocks.Renderer{}, mocks.NewScheduler(), fs, watcher, nil, mocks.NewLogger(), DefaultOptions())

	v.OpenFiles([]string{"/s/f_%03d.png"})
	watcher.onChange["/s/f_%03d.png"]()

	if c.rescans != 1 || v.A().Total() != 4 {
		t.Errorf("expected rescan to grow to 4 frames, got %d after %d rescans", v.A().Total(), c.rescans)
	}

	v.Close()
	if len(watcher.stopped) != 1 {
		t.Errorf("close should stop watches, stopped %v", watcher.stopped)
	}
}

func TestSequenceWatch_EmptiedSequenceClearsState(t *testing.T) {
	c := &rescanCapture{Capture: mocks.NewCapture(3, 24)}
	watcher := &fakeWatcher{}
	v := New(seqOpener{c}, &mocks.Renderer{}, mocks.NewScheduler(), mocks.NewFileSystem(), watcher, nil, mocks.NewLogger(), DefaultOptions())

	v.OpenFiles([]string{"/s/f_%03d.png"})
	if v.CurrentItem() == nil {
		t.Fatal("expected a current item after load")
	}

	c.empty = true
	watcher.onChange["/s/f_%03d.png"]()

	if v.A().Loaded() {
		t.Fatal("player should be empty once every frame is gone")
	}
	if v.CurrentItem() != nil {
		t.Error("current item should be cleared")
	}
	if a, _ := v.Tree().Holders(); a != "" {
		t.Errorf("tree still annotates A with %q", a)
	}
	if len(watcher.stopped) != 1 {
		t.Errorf("expected the watch to stop, stopped %v", watcher.stopped)
	}

	v.Close()
	if len(watcher.stopped) != 1 {
		t.Errorf("close should not stop the watch twice, stopped %v", watcher.stopped)
	}
}

func TestSinkReceivesPresentedFrames(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {5, 10}})
	before := f.v.Presented()
	f.v.OpenFiles([]string{"/m/a.mp4"})
	f.v.SetMode(playback.PlayOnce)
	f.v.TogglePlay()
	f.sched.Advance(time.Second)

	if f.v.Presented()-before != 5 {
		t.Errorf("expected 5 presented frames, got %d", f.v.Presented()-before)
	}
	if f.sink.FrameCount() != f.v.Presented() {
		t.Errorf("sink has %d frames, presented %d", f.sink.FrameCount(), f.v.Presented())
	}
	if f.v.Describe() == "" {
		t.Error("empty description")
	}
}

func TestResumeCancelledByUserAction(t *testing.T) {
	f := newFixture(map[string][2]float64{"/m/a.mp4": {3, 10}, "/m/b.mp4": {3, 10}})
	folder, _ := f.v.Tree().NewFolder(nil)
	f.v.DropOnTree([]string{"/m/a.mp4", "/m/b.mp4"}, folder)
	f.v.ActivateItem(folder)

	f.sched.Advance(350 * time.Millisecond)
	if f.v.A().Path() != "/m/b.mp4" {
		t.Fatalf("expected b.mp4, got %q", f.v.A().Path())
	}
	f.v.NextFrame()
	f.sched.Advance(200 * time.Millisecond)
	if f.v.IsPlaying() {
		t.Error("a user step should cancel the pending resume")
	}
}

func TestDropPayloadOnTree(t *testing.T) {
	f := newFixture(nil)
	folder, _ := f.v.Tree().NewFolder(nil)
	added := f.v.DropPayloadOnTree(project.EncodePayload([]string{"/m/a.mp4", "/m/b.mp4"}), folder)
	if len(added) != 2 || len(folder.Children()) != 2 {
		t.Errorf("expected 2 items in folder, got %d", len(folder.Children()))
	}
	if f.v.DropPayloadOnTree(project.EncodePayload([]string{"/m/c.mp4"}), f.v.Tree().Source()) != nil {
		t.Error("Source drops add nothing to the Timeline")
	}
}
