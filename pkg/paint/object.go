package paint

import "math"

// ObjectKind identifies the variant of a paint object.
type ObjectKind int

const (
	// KindFrame is an outlined, unfilled box.
	KindFrame ObjectKind = iota
	// KindRectangle is a filled box.
	KindRectangle
	// KindPath is a free-hand polyline.
	KindPath
	// KindText is a single-line text label.
	KindText
)

// String returns the wire name of the object kind.
func (k ObjectKind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindRectangle:
		return "rectangle"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints normalises two corner points into a box with
// non-negative width and height.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Text hit boxes are approximate: a fixed box anchored at the text origin.
const (
	textHitWidth  = 100
	textHitHeight = 20
	// pathHitRadius is the half-width of the square around each path vertex.
	pathHitRadius = 10
)

// Header holds the fields shared by every paint object.
type Header struct {
	ID     string `json:"id"`
	Layer  string `json:"layer"`
	ZIndex int    `json:"zIndex"`
}

// Object is a paint object. The concrete types are *Frame, *Rectangle,
// *Path and *Text.
type Object interface {
	Kind() ObjectKind
	Head() *Header
	// Contains reports whether the point hits the object.
	Contains(p Point) bool
	// Origin is the anchor used for move-drags.
	Origin() Point
	// MoveTo places the object's origin at p.
	MoveTo(p Point)
	clone() Object
}

// Frame is an outlined box.
type Frame struct {
	Header
	Rect
}

func (f *Frame) Kind() ObjectKind      { return KindFrame }
func (f *Frame) Head() *Header         { return &f.Header }
func (f *Frame) Contains(p Point) bool { return f.Rect.Contains(p) }
func (f *Frame) Origin() Point         { return Point{X: f.X, Y: f.Y} }
func (f *Frame) MoveTo(p Point)        { f.X, f.Y = p.X, p.Y }
func (f *Frame) clone() Object         { c := *f; return &c }

// Rectangle is a filled box.
type Rectangle struct {
	Header
	Rect
}

func (r *Rectangle) Kind() ObjectKind      { return KindRectangle }
func (r *Rectangle) Head() *Header         { return &r.Header }
func (r *Rectangle) Contains(p Point) bool { return r.Rect.Contains(p) }
func (r *Rectangle) Origin() Point         { return Point{X: r.X, Y: r.Y} }
func (r *Rectangle) MoveTo(p Point)        { r.X, r.Y = p.X, p.Y }
func (r *Rectangle) clone() Object         { c := *r; return &c }

// Path is a free-hand polyline. Its origin is its first vertex.
type Path struct {
	Header
	Points []Point `json:"points"`
}

func (p *Path) Kind() ObjectKind { return KindPath }
func (p *Path) Head() *Header    { return &p.Header }

// Contains reports whether pt lies within pathHitRadius of any vertex on
// both axes.
func (p *Path) Contains(pt Point) bool {
	for _, v := range p.Points {
		if math.Abs(v.X-pt.X) < pathHitRadius && math.Abs(v.Y-pt.Y) < pathHitRadius {
			return true
		}
	}
	return false
}

func (p *Path) Origin() Point {
	if len(p.Points) == 0 {
		return Point{}
	}
	return p.Points[0]
}

// MoveTo translates every vertex so the first one lands on pt.
func (p *Path) MoveTo(pt Point) {
	d := pt.Sub(p.Origin())
	for i := range p.Points {
		p.Points[i] = p.Points[i].Add(d)
	}
}

func (p *Path) clone() Object {
	c := *p
	c.Points = append([]Point(nil), p.Points...)
	return &c
}

// Text is a text label. Editing is true until the in-place editor commits.
type Text struct {
	Header
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text"`
	Editing bool    `json:"editing"`
}

func (t *Text) Kind() ObjectKind { return KindText }
func (t *Text) Head() *Header    { return &t.Header }

func (t *Text) Contains(p Point) bool {
	return Rect{X: t.X, Y: t.Y, Width: textHitWidth, Height: textHitHeight}.Contains(p)
}

func (t *Text) Origin() Point  { return Point{X: t.X, Y: t.Y} }
func (t *Text) MoveTo(p Point) { t.X, t.Y = p.X, p.Y }
func (t *Text) clone() Object  { c := *t; return &c }

// Clone returns a deep copy of o.
func Clone(o Object) Object {
	if o == nil {
		return nil
	}
	return o.clone()
}
