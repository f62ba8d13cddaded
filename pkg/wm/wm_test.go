package wm

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"retrodesk/pkg/paint"
)

type recordingSelection struct {
	cleared []string
}

func (r *recordingSelection) ClearFolderSelection(name string) {
	r.cleared = append(r.cleared, name)
}

type countingAudio struct {
	stops int
}

func (c *countingAudio) Stop() { c.stops++ }

func newTestManager() *Manager {
	return NewManager(Config{ScreenWidth: 1000, ScreenHeight: 800})
}

func mustGet(t *testing.T, m *Manager, id string) Window {
	t.Helper()
	w, err := m.Get(id)
	if err != nil {
		t.Fatalf("Get(%q): %v", id, err)
	}
	return w
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"folder", KindFolder},
		{"folder-1712", KindFolder},
		{"paint", KindPaint},
		{"folders", Kind("folders")},
	}
	for _, tt := range tests {
		if got := KindOf(tt.in); got != tt.want {
			t.Errorf("KindOf(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestFrameDefaults(t *testing.T) {
	w, h := Frame{}.Size()
	if w != DefaultWidth || h != DefaultHeight {
		t.Errorf("expected %dx%d, got %dx%d", DefaultWidth, DefaultHeight, w, h)
	}

	frame := Frame{X: 100, Y: 100, Width: 200, Height: 150}
	tests := []struct {
		x, y     int
		expected bool
	}{
		{150, 175, true},
		{100, 100, true},
		{300, 250, true},
		{99, 100, false},
		{301, 100, false},
		{100, 251, false},
	}
	for _, tt := range tests {
		if got := frame.Contains(tt.x, tt.y); got != tt.expected {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
		}
	}
}

func TestOpenCreatesWindowsByKind(t *testing.T) {
	m := newTestManager()

	paintID := m.OpenOrFocus("paint", "Paint")
	if paintID != "paint-1" {
		t.Errorf("expected id paint-1, got %q", paintID)
	}
	p := mustGet(t, m, paintID)
	if p.Frame != (Frame{X: 200, Y: 155, Width: 750, Height: 489}) {
		t.Errorf("unexpected paint frame %+v", p.Frame)
	}
	if p.ZIndex != 101 {
		t.Errorf("expected first window at z-index 101, got %d", p.ZIndex)
	}
	if _, ok := p.Canvas(); !ok {
		t.Error("expected paint window to own a canvas")
	}

	docID := m.OpenOrFocus("doc", "Kind Msgs")
	d := mustGet(t, m, docID)
	if d.Frame != (Frame{X: 130, Y: 130, Width: 400, Height: 480}) {
		t.Errorf("unexpected doc frame %+v", d.Frame)
	}
	if d.ZIndex != 102 || mustGet(t, m, paintID).ZIndex != 100 {
		t.Errorf("expected doc 102 over paint 100, got %d and %d", d.ZIndex, mustGet(t, m, paintID).ZIndex)
	}

	img := mustGet(t, m, m.OpenOrFocus("images", "Childhood"))
	if img.Frame.Width != 0 || img.Frame.Height != 320 {
		t.Errorf("expected deferred width and height 320, got %+v", img.Frame)
	}

	audio := mustGet(t, m, m.OpenOrFocus("audio", "Nostalgia"))
	if audio.Frame.Width != 500 || audio.Frame.Height != 340 {
		t.Errorf("unexpected audio size %+v", audio.Frame)
	}
}

func TestOpenFocusesExisting(t *testing.T) {
	m := newTestManager()
	paintID := m.OpenOrFocus("paint", "Paint")
	docID := m.OpenOrFocus("doc", "Kind Msgs")

	if got := m.OpenOrFocus("paint", "Paint"); got != paintID {
		t.Fatalf("expected existing window %q, got %q", paintID, got)
	}
	if m.OpenCount() != 2 {
		t.Errorf("expected 2 open windows, got %d", m.OpenCount())
	}
	top, _ := m.Topmost()
	if top.ID != paintID || top.ZIndex != 103 {
		t.Errorf("expected paint on top at 103, got %s at %d", top.ID, top.ZIndex)
	}
	if z := mustGet(t, m, docID).ZIndex; z != 101 {
		t.Errorf("expected doc shifted to 101, got %d", z)
	}
}

func TestFoldersMatchByName(t *testing.T) {
	m := newTestManager()
	a := m.OpenOrFocus("folder", "Past Lives")
	b := m.OpenOrFocus("folder-7", "New Folder")
	if a == b {
		t.Fatal("expected distinct folder windows")
	}
	if w := mustGet(t, m, b); w.Kind != KindFolder {
		t.Errorf("expected folder kind, got %q", w.Kind)
	}
	if got := m.OpenOrFocus("folder-9", "Past Lives"); got != a {
		t.Errorf("expected folder matched by name, got %q", got)
	}
	if !m.IsFolderOpen("New Folder") || m.IsFolderOpen("Other") {
		t.Error("unexpected IsFolderOpen result")
	}
}

func TestMinimizeRestorePreservesState(t *testing.T) {
	m := newTestManager()
	id := m.OpenOrFocus("paint", "Paint")
	canvas, _ := m.Canvas(id)
	drawRect(canvas, 1, 1, 9, 9)
	drawRect(canvas, 2, 2, 5, 5)
	canvas.AddLayer()
	drawRect(canvas, 20, 20, 40, 40)
	canvas.SetTitle("harbour")
	m.Move(id, 10, 20)
	before := mustGet(t, m, id)
	beforeState := canvas.Snapshot()

	if !m.Minimize(id) {
		t.Fatal("Minimize returned false")
	}
	if m.OpenCount() != 0 || len(m.Minimized()) != 1 {
		t.Fatalf("expected window in minimized set")
	}
	if m.IsFolderOpen("Paint") {
		t.Error("minimized windows are not open")
	}
	if _, ok := m.OpenCanvas(id); ok {
		t.Error("expected OpenCanvas to skip minimized windows")
	}
	if _, ok := m.Canvas(id); !ok {
		t.Error("expected Canvas to reach minimized windows")
	}

	if got := m.OpenOrFocus("paint", "Paint"); got != id {
		t.Fatalf("expected restore of %q, got %q", id, got)
	}
	after := mustGet(t, m, id)
	if after.Frame != before.Frame {
		t.Errorf("expected frame %+v, got %+v", before.Frame, after.Frame)
	}
	if after.ZIndex != 101 {
		t.Errorf("expected restored window at 101, got %d", after.ZIndex)
	}
	c, ok := m.OpenCanvas(id)
	if !ok {
		t.Fatal("expected restored canvas to be open")
	}
	afterState := c.Snapshot()
	if !slices.Equal(afterState.Layers, beforeState.Layers) {
		t.Errorf("expected layers %v, got %v", beforeState.Layers, afterState.Layers)
	}
	if afterState.SelectedLayer != beforeState.SelectedLayer {
		t.Errorf("expected selected layer %q, got %q", beforeState.SelectedLayer, afterState.SelectedLayer)
	}
	if afterState.UntitledName != "harbour" {
		t.Errorf("expected title preserved, got %q", afterState.UntitledName)
	}
	if len(afterState.Objects) != len(beforeState.Objects) {
		t.Fatalf("expected %d objects, got %d", len(beforeState.Objects), len(afterState.Objects))
	}
	for i, o := range afterState.Objects {
		want := beforeState.Objects[i].Head()
		if got := o.Head(); *got != *want {
			t.Errorf("object %d: expected %+v, got %+v", i, *want, *got)
		}
	}
}

func drawRect(c *paint.Canvas, x0, y0, x1, y1 float64) {
	c.SetTool(paint.ToolShape)
	c.PointerDown(paint.Point{X: x0, Y: y0})
	c.PointerMove(paint.Point{X: x1, Y: y1})
	c.PointerUp()
}

func TestMoveClampsAndRaises(t *testing.T) {
	m := newTestManager()
	doc := m.OpenOrFocus("doc", "Kind Msgs")
	other := m.OpenOrFocus("recycle", "Recycle Bin")

	m.Move(doc, -50, -20)
	w := mustGet(t, m, doc)
	if w.Frame.X != 0 || w.Frame.Y != 0 {
		t.Errorf("expected clamp to (0,0), got (%d,%d)", w.Frame.X, w.Frame.Y)
	}
	if w.ZIndex <= mustGet(t, m, other).ZIndex {
		t.Error("expected moved window on top")
	}

	m.Move(doc, 900, 700)
	w = mustGet(t, m, doc)
	if w.Frame.X != 600 || w.Frame.Y != 320 {
		t.Errorf("expected clamp to (600,320), got (%d,%d)", w.Frame.X, w.Frame.Y)
	}
}

func TestFocusAndResize(t *testing.T) {
	m := newTestManager()
	a := m.OpenOrFocus("doc", "Kind Msgs")
	b := m.OpenOrFocus("recycle", "Recycle Bin")

	m.Focus(a)
	if top, _ := m.Topmost(); top.ID != a {
		t.Errorf("expected %q on top, got %q", a, top.ID)
	}
	za := mustGet(t, m, a).ZIndex
	m.Resize(a, 640, 480)
	w := mustGet(t, m, a)
	if w.Frame.Width != 640 || w.Frame.Height != 480 {
		t.Errorf("unexpected size %+v", w.Frame)
	}
	if w.ZIndex != za {
		t.Error("resize must not change z-index")
	}
	if mustGet(t, m, b).ZIndex >= za {
		t.Error("expected b below a")
	}

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"negative width, zero height", -50, 0, MinWidth, MinHeight},
		{"below minimum", 100, 50, MinWidth, MinHeight},
		{"at minimum", MinWidth, MinHeight, MinWidth, MinHeight},
		{"large", 900, 700, 900, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !m.Resize(a, tt.width, tt.height) {
				t.Fatal("Resize returned false")
			}
			f := mustGet(t, m, a).Frame
			if f.Width != tt.wantW || f.Height != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, f.Width, f.Height)
			}
		})
	}
}

func TestAudioWindowIsNotResizable(t *testing.T) {
	m := newTestManager()
	id := m.OpenOrFocus("audio", "Nostalgia")
	if m.Resize(id, 800, 600) {
		t.Error("expected Resize to refuse audio windows")
	}
	if m.DragResize(id, HandleBottomRight, 100, 100, mustGet(t, m, id).Frame) {
		t.Error("expected DragResize to refuse audio windows")
	}
	if w := mustGet(t, m, id); w.Frame.Width != 500 || w.Frame.Height != 340 {
		t.Errorf("expected fixed size, got %+v", w.Frame)
	}
}

func TestDragResize(t *testing.T) {
	m := newTestManager()
	id := m.OpenOrFocus("doc", "Kind Msgs")
	start := Frame{X: 100, Y: 100, Width: 400, Height: 480}

	tests := []struct {
		name   string
		handle Handle
		dx, dy int
		want   Frame
	}{
		{"min width", HandleRight, -200, 0, Frame{X: 100, Y: 100, Width: 300, Height: 480}},
		{"top left", HandleTopLeft, 50, 50, Frame{X: 150, Y: 150, Width: 350, Height: 430}},
		{"min height", HandleBottom, 0, -400, Frame{X: 100, Y: 100, Width: 400, Height: 200}},
		{"viewport bound", HandleBottomRight, 2000, 2000, Frame{X: 100, Y: 100, Width: 900, Height: 700}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !m.DragResize(id, tt.handle, tt.dx, tt.dy, start) {
				t.Fatal("DragResize returned false")
			}
			if got := mustGet(t, m, id).Frame; got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSetContentAspect(t *testing.T) {
	m := newTestManager()
	id := m.OpenOrFocus("images", "Childhood")
	if !m.SetContentAspect(id, 800, 400) {
		t.Fatal("SetContentAspect returned false")
	}
	w := mustGet(t, m, id)
	if w.Frame.Width != 520 || w.Frame.Height != 293 {
		t.Errorf("expected 520x293, got %dx%d", w.Frame.Width, w.Frame.Height)
	}
	if ic := w.Content.(*ImagesContent); ic.AspectRatio != 0.5 {
		t.Errorf("expected aspect 0.5, got %v", ic.AspectRatio)
	}

	doc := m.OpenOrFocus("doc", "Kind Msgs")
	if m.SetContentAspect(doc, 800, 400) {
		t.Error("expected SetContentAspect to ignore non-images windows")
	}
}

func TestSetViewportRefitsPaint(t *testing.T) {
	m := newTestManager()
	open := m.OpenOrFocus("paint", "Paint")
	m.Minimize(open)
	m.SetViewport(2000, 1000)

	w := mustGet(t, m, open)
	if w.Frame.Width != 1500 || w.Frame.Height != 979 {
		t.Errorf("expected 1500x979, got %dx%d", w.Frame.Width, w.Frame.Height)
	}
}

func TestCloseHooks(t *testing.T) {
	sel := &recordingSelection{}
	audio := &countingAudio{}
	m := NewManager(Config{ScreenWidth: 1000, ScreenHeight: 800, Selection: sel, Audio: audio})

	folder := m.OpenOrFocus("folder-3", "Snaps")
	music := m.OpenOrFocus("audio", "Nostalgia")
	p := m.OpenOrFocus("paint", "Paint")
	c, _ := m.Canvas(p)
	c.SetTitle("sunset")

	m.Close(folder)
	m.Close(music)
	m.Close(p)

	if len(sel.cleared) != 1 || sel.cleared[0] != "Snaps" {
		t.Errorf("expected folder selection cleared for Snaps, got %v", sel.cleared)
	}
	if audio.stops != 1 {
		t.Errorf("expected audio stopped once, got %d", audio.stops)
	}
	snap, ok := m.ClosedSnapshot(KindPaint)
	if !ok || snap.UntitledName != "sunset" {
		t.Fatalf("expected cached paint snapshot, got %v %+v", ok, snap)
	}

	reopened := m.OpenOrFocus("paint", "Paint")
	if reopened == p {
		t.Error("expected a fresh window id")
	}
	rc, _ := m.Canvas(reopened)
	if rc.Title() != "sunset" {
		t.Errorf("expected restored title, got %q", rc.Title())
	}
}

func TestRepeatedCloseCyclesRestoreLastSnapshot(t *testing.T) {
	m := newTestManager()

	for cycle := 0; cycle < 3; cycle++ {
		id := m.OpenOrFocus("paint", "Paint")
		c, ok := m.OpenCanvas(id)
		if !ok {
			t.Fatalf("cycle %d: expected an open canvas", cycle)
		}
		if got := len(c.Objects()); got != cycle {
			t.Fatalf("cycle %d: expected %d restored objects, got %d", cycle, cycle, got)
		}
		drawRect(c, 0, 0, float64(10+cycle), 10)
		if !m.Close(id) {
			t.Fatalf("cycle %d: Close returned false", cycle)
		}
		snap, ok := m.ClosedSnapshot(KindPaint)
		if !ok || len(snap.Objects) != cycle+1 {
			t.Fatalf("cycle %d: expected snapshot with %d objects, got %v %d", cycle, cycle+1, ok, len(snap.Objects))
		}
	}
}

func TestCloseTopmost(t *testing.T) {
	m := newTestManager()
	if _, ok := m.CloseTopmost(); ok {
		t.Error("expected no-op with no windows")
	}
	a := m.OpenOrFocus("doc", "Kind Msgs")
	b := m.OpenOrFocus("web", "My Reads")
	m.Focus(a)

	id, ok := m.CloseTopmost()
	if !ok || id != a {
		t.Errorf("expected %q closed, got %q", a, id)
	}
	if top, _ := m.Topmost(); top.ID != b {
		t.Errorf("expected %q left on top, got %q", b, top.ID)
	}
}

func TestUnknownIDsAreNoops(t *testing.T) {
	m := newTestManager()
	m.OpenOrFocus("doc", "Kind Msgs")
	before := m.Windows()

	if m.Close("nope") || m.Minimize("nope") || m.Move("nope", 1, 1) ||
		m.Focus("nope") || m.Resize("nope", 1, 1) {
		t.Error("expected false for unknown ids")
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("expected ErrWindowNotFound, got %v", err)
	}
	after := m.Windows()
	if len(after) != 1 || after[0].Frame != before[0].Frame || after[0].ZIndex != before[0].ZIndex {
		t.Error("expected state unchanged")
	}
}

func TestZIndexStaysUnique(t *testing.T) {
	m := newTestManager()
	kinds := []string{"paint", "doc", "web", "audio", "images", "recycle", "folder", "folder-2"}
	r := rand.New(rand.NewPCG(1, 2))

	for step := 0; step < 500; step++ {
		wins := m.Windows()
		switch op := r.IntN(5); {
		case op == 0 || len(wins) == 0:
			k := kinds[r.IntN(len(kinds))]
			m.OpenOrFocus(k, k)
		case op == 1:
			m.Move(wins[r.IntN(len(wins))].ID, r.IntN(1200)-100, r.IntN(900)-100)
		case op == 2:
			m.Focus(wins[r.IntN(len(wins))].ID)
		case op == 3:
			m.Minimize(wins[r.IntN(len(wins))].ID)
		default:
			m.Close(wins[r.IntN(len(wins))].ID)
		}

		seen := make(map[int]bool)
		for _, w := range m.Windows() {
			if seen[w.ZIndex] {
				t.Fatalf("step %d: duplicate z-index %d", step, w.ZIndex)
			}
			seen[w.ZIndex] = true
			if w.Frame.X < 0 || w.Frame.Y < 0 {
				t.Fatalf("step %d: window %s above or left of container", step, w.ID)
			}
		}
	}
}
