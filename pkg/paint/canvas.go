package paint

import (
	"github.com/google/uuid"
)

// Tool is the active canvas tool. Tools are mutually exclusive.
type Tool int

const (
	ToolSelect Tool = iota
	ToolFrame
	ToolShape
	ToolPen
	ToolText
	ToolHand
)

// String returns the tool name used by the toolbar.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolFrame:
		return "frame"
	case ToolShape:
		return "shape"
	case ToolPen:
		return "pen"
	case ToolText:
		return "text"
	case ToolHand:
		return "hand"
	default:
		return "unknown"
	}
}

// ParseTool maps a toolbar name to a Tool.
func ParseTool(name string) (Tool, bool) {
	for t := ToolSelect; t <= ToolHand; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return ToolSelect, false
}

// placeholderText is the content of a freshly placed text object.
const placeholderText = "Text"

// Canvas is the editable object model of one paint window. It is not safe
// for concurrent use.
type Canvas struct {
	state State
	tool  Tool

	// offset is the pan translation applied to the whole canvas.
	offset Point

	// frame/shape/pen gesture
	drawing bool
	anchor  Point
	current Point
	pending []Point

	// hand gesture
	panning  bool
	panStart Point

	// select gesture
	selected string
	moving   bool
	grab     Point
}

// New returns an empty canvas with the default layers and the select tool.
func New() *Canvas {
	return &Canvas{state: DefaultState()}
}

// Restore builds a canvas from a snapshot. The snapshot is copied.
func Restore(s State) *Canvas {
	st := s.Clone()
	st.normalize()
	return &Canvas{state: st}
}

// Snapshot returns a deep copy of the canvas state.
func (c *Canvas) Snapshot() State {
	return c.state.Clone()
}

// Tool returns the active tool.
func (c *Canvas) Tool() Tool {
	return c.tool
}

// SetTool switches tools and abandons any gesture in progress.
func (c *Canvas) SetTool(t Tool) {
	c.tool = t
	c.drawing = false
	c.pending = nil
	c.panning = false
	c.moving = false
}

// Offset returns the current pan offset.
func (c *Canvas) Offset() Point {
	return c.offset
}

// Title returns the drawing's name.
func (c *Canvas) Title() string {
	return c.state.UntitledName
}

// SetTitle renames the drawing. Blank names are ignored.
func (c *Canvas) SetTitle(name string) {
	if name != "" {
		c.state.UntitledName = name
	}
}

// Objects returns copies of all objects in insertion order.
func (c *Canvas) Objects() []Object {
	out := make([]Object, len(c.state.Objects))
	for i, o := range c.state.Objects {
		out[i] = o.clone()
	}
	return out
}

// Object returns a copy of the object with the given id.
func (c *Canvas) Object(id string) (Object, bool) {
	if o := c.find(id); o != nil {
		return o.clone(), true
	}
	return nil, false
}

// Selected returns a copy of the selected object, if any.
func (c *Canvas) Selected() (Object, bool) {
	if c.selected == "" {
		return nil, false
	}
	return c.Object(c.selected)
}

// Preview returns the live rectangle of a frame or shape gesture.
func (c *Canvas) Preview() (Rect, bool) {
	if !c.drawing || (c.tool != ToolFrame && c.tool != ToolShape) {
		return Rect{}, false
	}
	return RectFromPoints(c.anchor, c.current), true
}

// PendingPath returns the points collected by an unfinished pen stroke.
func (c *Canvas) PendingPath() []Point {
	return append([]Point(nil), c.pending...)
}

// toCanvas converts a container-relative point to canvas coordinates.
func (c *Canvas) toCanvas(p Point) Point {
	return p.Sub(c.offset)
}

// PointerDown starts the gesture for the active tool. The point is relative
// to the canvas container.
func (c *Canvas) PointerDown(raw Point) {
	switch c.tool {
	case ToolHand:
		c.panning = true
		c.panStart = raw
	case ToolSelect:
		c.beginSelect(c.toCanvas(raw))
	case ToolText:
		pos := c.toCanvas(raw)
		c.add(&Text{
			Header:  c.header("text"),
			X:       pos.X,
			Y:       pos.Y,
			Text:    placeholderText,
			Editing: true,
		})
	case ToolFrame, ToolShape:
		pos := c.toCanvas(raw)
		c.drawing = true
		c.anchor, c.current = pos, pos
	case ToolPen:
		pos := c.toCanvas(raw)
		c.drawing = true
		c.anchor, c.current = pos, pos
		c.pending = []Point{pos}
	}
}

// PointerMove continues the active gesture.
func (c *Canvas) PointerMove(raw Point) {
	switch c.tool {
	case ToolHand:
		if !c.panning {
			return
		}
		c.offset = c.offset.Add(raw.Sub(c.panStart))
		c.panStart = raw
	case ToolSelect:
		if !c.moving || c.selected == "" {
			return
		}
		o := c.find(c.selected)
		if o == nil || o.Head().Layer != c.state.SelectedLayer {
			return
		}
		o.MoveTo(c.toCanvas(raw).Sub(c.grab))
	default:
		if !c.drawing {
			return
		}
		c.current = c.toCanvas(raw)
		if c.tool == ToolPen {
			c.pending = append(c.pending, c.current)
		}
	}
}

// PointerUp finishes the active gesture, committing drawn objects.
func (c *Canvas) PointerUp() {
	switch c.tool {
	case ToolHand:
		c.panning = false
		return
	case ToolSelect:
		c.moving = false
		return
	}
	if !c.drawing {
		return
	}
	switch c.tool {
	case ToolFrame:
		c.add(&Frame{Header: c.header("frame"), Rect: RectFromPoints(c.anchor, c.current)})
	case ToolShape:
		c.add(&Rectangle{Header: c.header("shape"), Rect: RectFromPoints(c.anchor, c.current)})
	case ToolPen:
		if len(c.pending) >= 2 {
			c.add(&Path{Header: c.header("path"), Points: c.pending})
		}
		c.pending = nil
	}
	c.drawing = false
}

// PointerLeave behaves like PointerUp: leaving the container ends the gesture.
func (c *Canvas) PointerLeave() {
	c.PointerUp()
}

// CommitText stores the edited text of a text object and leaves edit mode.
func (c *Canvas) CommitText(id, text string) bool {
	t, ok := c.find(id).(*Text)
	if !ok {
		return false
	}
	t.Text = text
	t.Editing = false
	return true
}

// KeyDown handles canvas shortcuts and reports whether the key was used.
func (c *Canvas) KeyDown(key string) bool {
	switch key {
	case "v", "V":
		c.SetTool(ToolSelect)
		return true
	case "]":
		return c.RaiseSelected()
	case "[":
		return c.LowerSelected()
	}
	return false
}

// beginSelect hit-tests the current layer from the top down.
func (c *Canvas) beginSelect(pos Point) {
	for _, o := range c.layerObjectsDesc(c.state.SelectedLayer) {
		if o.Contains(pos) {
			c.selected = o.Head().ID
			c.moving = true
			c.grab = pos.Sub(o.Origin())
			return
		}
	}
	c.selected = ""
	c.moving = false
}

// header allocates the common fields of a new object on the current layer.
func (c *Canvas) header(prefix string) Header {
	return Header{
		ID:     prefix + "-" + uuid.New().String(),
		Layer:  c.state.SelectedLayer,
		ZIndex: c.maxZ(c.state.SelectedLayer) + 1,
	}
}

func (c *Canvas) add(o Object) {
	c.state.Objects = append(c.state.Objects, o)
}

func (c *Canvas) find(id string) Object {
	for _, o := range c.state.Objects {
		if o.Head().ID == id {
			return o
		}
	}
	return nil
}
