package wm

import (
	"errors"
	"sort"
	"strconv"

	"retrodesk/pkg/paint"
)

// ErrWindowNotFound is returned when a window is not found.
var ErrWindowNotFound = errors.New("window not found")

// Selection is told when a folder window closes so the desktop can drop the
// highlight on the matching icon.
type Selection interface {
	ClearFolderSelection(name string)
}

// AudioStopper halts playback when the audio window closes.
type AudioStopper interface {
	Stop()
}

// Config holds configuration for the window manager.
type Config struct {
	ScreenWidth  int
	ScreenHeight int
	// Selection and Audio are optional close hooks.
	Selection Selection
	Audio     AudioStopper
}

// Default viewport used when Config leaves it unset.
const (
	DefaultScreenWidth  = 1280
	DefaultScreenHeight = 800
)

// Manager tracks open and minimized windows and their stacking order.
//
// Every open window has a distinct z-index and exactly one is topmost.
// Focus recomputes the maximum with a linear scan; window counts are small.
//
// A Manager is not safe for concurrent use. The shell event loop is its only
// caller.
type Manager struct {
	open      []*Window
	minimized []*Window
	closed    map[Kind]paint.State

	nextGeneration int
	screenWidth    int
	screenHeight   int

	selection Selection
	audio     AudioStopper
}

// NewManager creates a new window manager with the given configuration.
func NewManager(cfg Config) *Manager {
	if cfg.ScreenWidth <= 0 {
		cfg.ScreenWidth = DefaultScreenWidth
	}
	if cfg.ScreenHeight <= 0 {
		cfg.ScreenHeight = DefaultScreenHeight
	}
	return &Manager{
		closed:         make(map[Kind]paint.State),
		nextGeneration: 1,
		screenWidth:    cfg.ScreenWidth,
		screenHeight:   cfg.ScreenHeight,
		selection:      cfg.Selection,
		audio:          cfg.Audio,
	}
}

// Viewport returns the container size.
func (m *Manager) Viewport() (width, height int) {
	return m.screenWidth, m.screenHeight
}

// SetViewport records a new container size and refits paint windows, open
// or minimized, to it.
func (m *Manager) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.screenWidth, m.screenHeight = width, height
	for _, list := range [][]*Window{m.open, m.minimized} {
		for _, w := range list {
			if w.Kind == KindPaint {
				w.Frame.Width, w.Frame.Height = m.paintSize()
			}
		}
	}
}

func (m *Manager) paintSize() (int, int) {
	w := m.screenWidth * 3 / 4
	return w, w * paintAspectH / paintAspectW
}

// maxZ returns the highest z-index among open windows other than skip, or
// the base z-index when there are none.
func (m *Manager) maxZ(skip *Window) int {
	z := baseZIndex
	found := false
	for _, w := range m.open {
		if w == skip {
			continue
		}
		if !found || w.ZIndex > z {
			z = w.ZIndex
			found = true
		}
	}
	return z
}

func (m *Manager) findOpen(id string) *Window {
	for _, w := range m.open {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (m *Manager) indexOpen(id string) int {
	for i, w := range m.open {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// OpenOrFocus brings up the window for a desktop item. A minimized match is
// restored on top, an open match is raised, and otherwise a new window is
// created. It returns the id of the affected window.
func (m *Manager) OpenOrFocus(itemType, name string) string {
	kind := KindOf(itemType)

	for i, w := range m.minimized {
		if w.matches(kind, name) {
			m.minimized = append(m.minimized[:i], m.minimized[i+1:]...)
			w.ZIndex = m.maxZ(nil) + 1
			m.open = append(m.open, w)
			return w.ID
		}
	}

	for _, w := range m.open {
		if w.matches(kind, name) {
			m.raiseShifting(w)
			return w.ID
		}
	}

	w := m.newWindow(kind, name)
	top := m.maxZ(nil)
	for _, o := range m.open {
		o.ZIndex--
	}
	w.ZIndex = top + 1
	m.open = append(m.open, w)
	return w.ID
}

// raiseShifting puts w on top and shifts every other open window down one.
func (m *Manager) raiseShifting(w *Window) {
	top := m.maxZ(nil)
	for _, o := range m.open {
		if o != w {
			o.ZIndex--
		}
	}
	w.ZIndex = top + 1
}

func (m *Manager) newWindow(kind Kind, name string) *Window {
	id := string(kind) + "-" + strconv.Itoa(m.nextGeneration)
	m.nextGeneration++

	offset := cascadeOrigin + len(m.open)*cascadeStep
	w := &Window{
		ID:      id,
		Kind:    kind,
		Name:    name,
		Frame:   Frame{X: offset, Y: offset},
		Content: &PlainContent{},
	}

	switch kind {
	case KindPaint:
		pw, ph := m.paintSize()
		w.Frame = Frame{
			X:      m.screenWidth - pw - paintRightGap,
			Y:      (m.screenHeight - ph) / 2,
			Width:  pw,
			Height: ph,
		}
		canvas := paint.New()
		if snap, ok := m.closed[KindPaint]; ok {
			canvas = paint.Restore(snap)
		}
		w.Content = &PaintContent{Canvas: canvas}
	case KindImages:
		w.Frame.Height = m.screenHeight * 2 / 5
		w.Content = &ImagesContent{}
	case KindDoc:
		w.Frame.Width, w.Frame.Height = docWidth, docHeight
	case KindAudio:
		w.Frame.Width, w.Frame.Height = audioWidth, audioHeight
	}
	return w
}

// Close removes an open window and runs its kind's close hook: paint
// windows leave a snapshot behind, folder windows clear the icon selection,
// and the audio window stops playback.
func (m *Manager) Close(id string) bool {
	i := m.indexOpen(id)
	if i < 0 {
		return false
	}
	w := m.open[i]
	m.open = append(m.open[:i], m.open[i+1:]...)

	switch w.Kind {
	case KindPaint:
		if c, ok := w.Canvas(); ok {
			m.closed[KindPaint] = c.Snapshot()
		}
	case KindFolder:
		if m.selection != nil {
			m.selection.ClearFolderSelection(w.Name)
		}
	case KindAudio:
		if m.audio != nil {
			m.audio.Stop()
		}
	}
	return true
}

// CloseTopmost closes the window with the highest z-index and returns its id.
func (m *Manager) CloseTopmost() (string, bool) {
	w := m.topmost()
	if w == nil {
		return "", false
	}
	id := w.ID
	return id, m.Close(id)
}

// Minimize hides an open window. Its geometry and content are kept as-is
// until it is restored by OpenOrFocus.
func (m *Manager) Minimize(id string) bool {
	i := m.indexOpen(id)
	if i < 0 {
		return false
	}
	w := m.open[i]
	m.open = append(m.open[:i], m.open[i+1:]...)
	if c, ok := w.Canvas(); ok {
		// Drop any half-finished gesture.
		c.SetTool(c.Tool())
	}
	m.minimized = append(m.minimized, w)
	return true
}

// Move places a window and brings it to the front. The window may not leave
// the container past its left or top edge.
func (m *Manager) Move(id string, x, y int) bool {
	w := m.findOpen(id)
	if w == nil {
		return false
	}
	width, height := w.Frame.Size()
	w.Frame.X = max(0, min(x, m.screenWidth-width))
	w.Frame.Y = max(0, min(y, m.screenHeight-height))
	w.ZIndex = m.maxZ(w) + 1
	return true
}

// Focus brings a window to the front without moving it.
func (m *Manager) Focus(id string) bool {
	w := m.findOpen(id)
	if w == nil {
		return false
	}
	w.ZIndex = m.maxZ(w) + 1
	return true
}

// Resize sets a window's size, no smaller than MinWidth x MinHeight. Audio
// windows keep their fixed size.
func (m *Manager) Resize(id string, width, height int) bool {
	w := m.findOpen(id)
	if w == nil || !w.Kind.Resizable() {
		return false
	}
	w.Frame.Width, w.Frame.Height = max(MinWidth, width), max(MinHeight, height)
	return true
}

// DragResize applies a resize drag of (dx, dy) on handle, measured from the
// frame the window had when the drag started.
func (m *Manager) DragResize(id string, handle Handle, dx, dy int, start Frame) bool {
	w := m.findOpen(id)
	if w == nil || !w.Kind.Resizable() {
		return false
	}
	sw, sh := start.Size()
	f := Frame{X: start.X, Y: start.Y, Width: sw, Height: sh}

	if handle.has(HandleRight) {
		f.Width = max(MinWidth, sw+dx)
	}
	if handle.has(HandleLeft) {
		f.Width = max(MinWidth, sw-dx)
		f.X = start.X + dx
	}
	if handle.has(HandleBottom) {
		f.Height = max(MinHeight, sh+dy)
	}
	if handle.has(HandleTop) {
		f.Height = max(MinHeight, sh-dy)
		f.Y = start.Y + dy
	}
	f.Width = min(f.Width, m.screenWidth-f.X)
	f.Height = min(f.Height, m.screenHeight-f.Y)

	w.Frame.Width, w.Frame.Height = f.Width, f.Height
	return m.Move(id, f.X, f.Y)
}

// SetContentAspect sizes an images window to hug a picture of the given
// pixel size at half the viewport width.
func (m *Manager) SetContentAspect(id string, imgWidth, imgHeight int) bool {
	w := m.findOpen(id)
	if w == nil || w.Kind != KindImages || imgWidth <= 0 || imgHeight <= 0 {
		return false
	}
	avail := float64(m.screenWidth) * 0.5
	ratio := float64(imgHeight) / float64(imgWidth)
	w.Frame.Width = int(avail) + imagesBorder*2 + imagesPadding*2
	w.Frame.Height = int(avail*ratio) + imagesHeader + imagesBorder*2
	if ic, ok := w.Content.(*ImagesContent); ok {
		ic.AspectRatio = ratio
	}
	return true
}

// Get returns a copy of an open or minimized window.
func (m *Manager) Get(id string) (Window, error) {
	if w := m.findOpen(id); w != nil {
		return *w, nil
	}
	for _, w := range m.minimized {
		if w.ID == id {
			return *w, nil
		}
	}
	return Window{}, ErrWindowNotFound
}

// Canvas returns the live canvas of an open or minimized paint window.
func (m *Manager) Canvas(id string) (*paint.Canvas, bool) {
	w, err := m.Get(id)
	if err != nil {
		return nil, false
	}
	return w.Canvas()
}

// OpenCanvas returns the canvas of an open paint window. Minimized windows
// are excluded so their drawing stays as it was until restored.
func (m *Manager) OpenCanvas(id string) (*paint.Canvas, bool) {
	w := m.findOpen(id)
	if w == nil {
		return nil, false
	}
	return w.Canvas()
}

// Windows returns the open windows by ascending z-index.
func (m *Manager) Windows() []Window {
	out := make([]Window, len(m.open))
	for i, w := range m.open {
		out[i] = *w
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Minimized returns the minimized windows in the order they were hidden.
func (m *Manager) Minimized() []Window {
	out := make([]Window, len(m.minimized))
	for i, w := range m.minimized {
		out[i] = *w
	}
	return out
}

func (m *Manager) topmost() *Window {
	var top *Window
	for _, w := range m.open {
		if top == nil || w.ZIndex > top.ZIndex {
			top = w
		}
	}
	return top
}

// Topmost returns the open window with the highest z-index.
func (m *Manager) Topmost() (Window, bool) {
	if w := m.topmost(); w != nil {
		return *w, true
	}
	return Window{}, false
}

// OpenCount returns the number of open windows.
func (m *Manager) OpenCount() int {
	return len(m.open)
}

// IsFolderOpen reports whether a folder window with this name is open.
// Minimized folders do not count.
func (m *Manager) IsFolderOpen(name string) bool {
	for _, w := range m.open {
		if w.matches(KindFolder, name) {
			return true
		}
	}
	return false
}

// ClosedSnapshot returns the state left by the last closed window of kind.
func (m *Manager) ClosedSnapshot(kind Kind) (paint.State, bool) {
	s, ok := m.closed[kind]
	if !ok {
		return paint.State{}, false
	}
	return s.Clone(), true
}
