package wm

import (
	"strings"

	"retrodesk/pkg/paint"
)

// Kind is the window type. It matches the desktop item type that opened it,
// except that every folder item opens a KindFolder window.
type Kind string

const (
	KindFolder     Kind = "folder"
	KindPaint      Kind = "paint"
	KindImages     Kind = "images"
	KindDoc        Kind = "doc"
	KindWeb        Kind = "web"
	KindAudio      Kind = "audio"
	KindRecycle    Kind = "recycle"
	KindNotepad    Kind = "notepad"
	KindCalculator Kind = "calculator"
)

// IsFolderType reports whether a desktop item type belongs to the folder
// family ("folder" or a user folder such as "folder-3").
func IsFolderType(t string) bool {
	return t == string(KindFolder) || strings.HasPrefix(t, string(KindFolder)+"-")
}

// KindOf maps a desktop item type to its window kind.
func KindOf(t string) Kind {
	if IsFolderType(t) {
		return KindFolder
	}
	return Kind(t)
}

// Resizable reports whether windows of this kind accept size changes.
func (k Kind) Resizable() bool {
	return k != KindAudio
}

// Default window sizes.
const (
	// DefaultWidth and DefaultHeight apply when a window has no explicit size.
	DefaultWidth  = 500
	DefaultHeight = 300

	docWidth    = 400
	docHeight   = 480
	audioWidth  = 500
	audioHeight = 340

	// MinWidth and MinHeight bound drag-resizing.
	MinWidth  = 300
	MinHeight = 200

	// baseZIndex is the z-index below the first window.
	baseZIndex = 100

	// cascadeOrigin and cascadeStep place new windows diagonally.
	cascadeOrigin = 100
	cascadeStep   = 30

	// paintAspectW and paintAspectH are the paint window proportions.
	paintAspectW  = 1055
	paintAspectH  = 689
	paintRightGap = 50

	// images windows frame their picture with borders, padding and a header.
	imagesBorder  = 3
	imagesPadding = 7
	imagesHeader  = 37
)

// Frame represents the position and dimensions of a window. Zero width or
// height means the size is not set yet.
type Frame struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size returns the effective size, substituting defaults for unset values.
func (f Frame) Size() (w, h int) {
	w, h = f.Width, f.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Contains checks if a point is within the frame.
func (f Frame) Contains(x, y int) bool {
	w, h := f.Size()
	return x >= f.X && x <= f.X+w &&
		y >= f.Y && y <= f.Y+h
}

// Content is the kind-specific payload of a window: *PaintContent,
// *ImagesContent or *PlainContent.
type Content interface {
	content()
}

// PaintContent owns the live canvas of a paint window.
type PaintContent struct {
	Canvas *paint.Canvas
}

// ImagesContent records the aspect ratio (height/width) of the shown
// picture. Zero until the picture has loaded.
type ImagesContent struct {
	AspectRatio float64
}

// PlainContent is used by windows without model state.
type PlainContent struct{}

func (*PaintContent) content()  {}
func (*ImagesContent) content() {}
func (*PlainContent) content()  {}

// Window represents a window in the window manager.
type Window struct {
	ID      string  `json:"id"`
	Kind    Kind    `json:"type"`
	Name    string  `json:"name"`
	Frame   Frame   `json:"frame"`
	ZIndex  int     `json:"zIndex"`
	Content Content `json:"-"`
}

// Canvas returns the paint canvas of a paint window.
func (w *Window) Canvas() (*paint.Canvas, bool) {
	pc, ok := w.Content.(*PaintContent)
	if !ok || pc.Canvas == nil {
		return nil, false
	}
	return pc.Canvas, true
}

// matches reports whether w is the window an item of kind/name would open.
// Folder windows are told apart by name, everything else by kind.
func (w *Window) matches(kind Kind, name string) bool {
	if w.Kind != kind {
		return false
	}
	return kind != KindFolder || w.Name == name
}

// Handle names the edge or corner grabbed in a drag-resize.
type Handle string

const (
	HandleLeft        Handle = "left"
	HandleRight       Handle = "right"
	HandleTop         Handle = "top"
	HandleBottom      Handle = "bottom"
	HandleTopLeft     Handle = "top-left"
	HandleTopRight    Handle = "top-right"
	HandleBottomLeft  Handle = "bottom-left"
	HandleBottomRight Handle = "bottom-right"
)

func (h Handle) has(edge Handle) bool {
	return strings.Contains(string(h), string(edge))
}
