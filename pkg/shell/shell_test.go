package shell

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"retrodesk/pkg/desktop"
	"retrodesk/pkg/paint"
	"retrodesk/pkg/wm"
)

type recordingSaver struct {
	saves []desktop.SaveRequest
}

func (r *recordingSaver) Enqueue(req desktop.SaveRequest) bool {
	r.saves = append(r.saves, req)
	return true
}

func newTestShell(saver desktop.Saver) *Shell {
	return New(Config{
		Viewport: desktop.Viewport{Width: 1000, Height: 800},
		Saver:    saver,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestDoubleClickMyReadsIsALink(t *testing.T) {
	s := newTestShell(nil)
	a := s.DoubleClick("web", "My Reads")
	if a.Kind != ActionLink || a.URL != ReadsURL {
		t.Errorf("expected link action, got %+v", a)
	}
	if s.Windows.OpenCount() != 0 {
		t.Error("expected no window opened")
	}

	if a := s.DoubleClick("web", "Other Reads"); a.Kind != ActionWindow {
		t.Errorf("expected renamed web icon to open a window, got %+v", a)
	}
}

func TestDoubleClickAudioStartsSession(t *testing.T) {
	s := newTestShell(nil)
	a := s.DoubleClick("audio", "Nostalgia")
	if a.Kind != ActionWindow {
		t.Fatalf("expected window action, got %+v", a)
	}
	if st := s.Audio.Status(); !st.Open || !st.Playing {
		t.Errorf("expected audio session playing, got %+v", st)
	}

	s.Windows.Close(a.WindowID)
	if st := s.Audio.Status(); st.Open || st.Playing {
		t.Errorf("expected closing the window to stop audio, got %+v", st)
	}
}

func TestOpenSelected(t *testing.T) {
	s := newTestShell(nil)
	if a := s.OpenSelected(); a.Kind != ActionNone {
		t.Errorf("expected nothing without a selection, got %+v", a)
	}
	s.Desktop.Click("paint")
	a := s.OpenSelected()
	if a.Kind != ActionWindow {
		t.Fatalf("expected window action, got %+v", a)
	}
	if _, ok := s.Canvas(a.WindowID); !ok {
		t.Error("expected paint canvas for opened window")
	}
}

func TestFolderIconFollowsWindow(t *testing.T) {
	s := newTestShell(nil)
	icon := func() Icon {
		for _, ic := range s.Icons() {
			if ic.Type == "folder" {
				return ic
			}
		}
		t.Fatal("folder icon missing")
		return Icon{}
	}

	s.Desktop.Click("folder")
	a := s.DoubleClick("folder", "Past Lives")
	if got := icon(); got.Icon != desktop.IconFolderOpen || !got.Selected {
		t.Errorf("expected open selected folder icon, got %+v", got)
	}

	s.Windows.Minimize(a.WindowID)
	if got := icon(); got.Icon != desktop.IconFolderClosed {
		t.Errorf("expected minimized folder to show closed, got %q", got.Icon)
	}

	s.DoubleClick("folder", "Past Lives")
	s.CloseTopmost()
	if got := icon(); got.Selected {
		t.Error("expected closing the folder window to clear its selection")
	}
}

func TestMenuActions(t *testing.T) {
	saver := &recordingSaver{}
	s := newTestShell(saver)

	if _, ok := s.MenuAction("File", "New"); !ok {
		t.Fatal("expected File/New handled")
	}
	editing := s.Desktop.Editing()
	if editing == "" || !wm.IsFolderType(editing) {
		t.Fatalf("expected new folder in rename mode, got %q", editing)
	}
	if err := s.Rename(editing, "Trips"); err != nil {
		t.Fatal(err)
	}
	if len(saver.saves) != 1 || saver.saves[0].Type != "folder" {
		t.Errorf("expected canonical folder save, got %+v", saver.saves)
	}

	a, ok := s.MenuAction("File", "Open")
	if !ok || a.Kind != ActionWindow {
		t.Fatalf("expected File/Open to open the selected folder, got %+v", a)
	}
	w, _ := s.Windows.Get(a.WindowID)
	if w.Kind != wm.KindFolder || w.Name != "Trips" {
		t.Errorf("unexpected window %+v", w)
	}

	if _, ok := s.MenuAction("File", "Exit"); !ok || s.Windows.OpenCount() != 0 {
		t.Error("expected File/Exit to close the top window")
	}
	if _, ok := s.MenuAction("Edit", "Undo"); ok {
		t.Error("expected Edit menu to be unhandled")
	}
}

func TestResize(t *testing.T) {
	s := newTestShell(nil)
	a := s.DoubleClick("paint", "Paint")
	s.Resize(desktop.Viewport{Width: 2000, Height: 1000})

	w, _ := s.Windows.Get(a.WindowID)
	if w.Frame.Width != 1500 {
		t.Errorf("expected paint width 1500, got %d", w.Frame.Width)
	}
	rec, _ := s.Desktop.Item("recycle")
	if rec.X != 1900 {
		t.Errorf("expected recycle re-anchored to 1900, got %d", rec.X)
	}
}

func TestClickPolicy(t *testing.T) {
	p := DefaultClickPolicy()
	icon := &Element{Tag: "DIV", Classes: []string{"desktop-icon"}}
	label := &Element{Tag: "SPAN", Parent: icon}
	plain := &Element{Tag: "DIV", Parent: &Element{Tag: "BODY"}}

	tests := []struct {
		name string
		el   *Element
		want bool
	}{
		{"button tag", &Element{Tag: "button"}, true},
		{"input tag", &Element{Tag: "INPUT"}, true},
		{"content editable", &Element{Tag: "DIV", ContentEditable: true}, true},
		{"click handler", &Element{Tag: "DIV", HasClickHandler: true}, true},
		{"close class", &Element{Tag: "DIV", Classes: []string{"window-close"}}, true},
		{"data attribute", &Element{Tag: "IMG", Attributes: map[string]string{"data-icon": "paint"}}, true},
		{"inside icon", label, true},
		{"inside link", &Element{Tag: "SPAN", Parent: &Element{Tag: "A"}}, true},
		{"plain div", plain, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Interactive(tt.el); got != tt.want {
				t.Errorf("Interactive = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestClickTracker(t *testing.T) {
	button := &Element{Tag: "BUTTON"}
	tr := NewClickTracker(DefaultClickPolicy())

	tr.PointerDown(10, 10, button, nil)
	tr.PointerMove(15, 14)
	if !tr.PointerUp() {
		t.Error("expected click within threshold to play")
	}

	tr.PointerDown(10, 10, button, nil)
	tr.PointerMove(16, 10)
	if tr.PointerUp() {
		t.Error("expected drag to stay silent")
	}

	tr.PointerDown(0, 0, &Element{Tag: "DIV"}, button)
	if !tr.PointerUp() {
		t.Error("expected origin target to count")
	}

	if tr.PointerUp() {
		t.Error("expected release without press to stay silent")
	}
}

func TestShellClicksUseConfiguredPolicy(t *testing.T) {
	canvas := &Element{Tag: "CANVAS"}

	s := newTestShell(nil)
	s.Clicks.PointerDown(0, 0, canvas, nil)
	if s.Clicks.PointerUp() {
		t.Error("expected the default policy to ignore a canvas")
	}
	s.Clicks.PointerDown(0, 0, &Element{Tag: "BUTTON"}, nil)
	if !s.Clicks.PointerUp() {
		t.Error("expected the default policy to click on a button")
	}

	policy := ClickPolicy{Tags: []string{"CANVAS"}}
	s = New(Config{
		Viewport:    desktop.Viewport{Width: 1000, Height: 800},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ClickPolicy: &policy,
	})
	s.Clicks.PointerDown(0, 0, canvas, nil)
	if !s.Clicks.PointerUp() {
		t.Error("expected the configured policy to click on a canvas")
	}
	s.Clicks.PointerDown(0, 0, &Element{Tag: "BUTTON"}, nil)
	if s.Clicks.PointerUp() {
		t.Error("expected the configured policy to replace the defaults")
	}
}

func TestLoopSerializesCommands(t *testing.T) {
	s := newTestShell(nil)
	loop := NewLoop(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Serve(ctx)

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			errs <- loop.Do(ctx, func(s *Shell) error {
				s.DoubleClick("doc", "Kind Msgs")
				return nil
			})
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Fatal(err)
		}
	}

	var count int
	if err := loop.Do(ctx, func(s *Shell) error {
		count = s.Windows.OpenCount()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected one doc window, got %d", count)
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	loop := NewLoop(newTestShell(nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Serve(ctx)

	err := loop.Do(ctx, func(s *Shell) error {
		var c *paint.Canvas
		c.SetTool(paint.ToolPen)
		return nil
	})
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}

	want := errors.New("boom")
	if err := loop.Do(ctx, func(*Shell) error { return want }); !errors.Is(err, want) {
		t.Errorf("expected command error, got %v", err)
	}
}

func TestLoopDoHonoursContext(t *testing.T) {
	loop := NewLoop(newTestShell(nil), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := loop.Do(ctx, func(*Shell) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded without a running loop, got %v", err)
	}
}

func TestActionJSONUsesKindNames(t *testing.T) {
	data, err := json.Marshal(Action{Kind: ActionLink, URL: ReadsURL})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"kind":"link","url":"` + ReadsURL + `"}`; string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var a Action
	if err := json.Unmarshal([]byte(`{"kind":"window","windowId":"paint-1"}`), &a); err != nil {
		t.Fatal(err)
	}
	if a.Kind != ActionWindow || a.WindowID != "paint-1" {
		t.Errorf("unexpected action %+v", a)
	}
	if err := json.Unmarshal([]byte(`{"kind":"popup"}`), &a); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}
