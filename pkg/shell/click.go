package shell

import "strings"

// DragThreshold is how far, in pixels on either axis, the pointer may travel
// between press and release for the press to still count as a click.
const DragThreshold = 5

// Element is the part of a DOM node the click policy looks at.
type Element struct {
	Tag             string            `json:"tag"`
	Classes         []string          `json:"classes,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	ContentEditable bool              `json:"contentEditable,omitempty"`
	// HasClickHandler is set when the node has an onclick property or
	// attribute.
	HasClickHandler bool     `json:"hasClickHandler,omitempty"`
	Parent          *Element `json:"parent,omitempty"`
}

func (e *Element) hasClass(c string) bool {
	for _, have := range e.Classes {
		if have == c {
			return true
		}
	}
	return false
}

// matches reports whether e matches a simple selector: ".class" or a tag.
func (e *Element) matches(selector string) bool {
	if strings.HasPrefix(selector, ".") {
		return e.hasClass(selector[1:])
	}
	return strings.EqualFold(e.Tag, selector)
}

// closest walks from e up through its ancestors, like Element.closest.
func (e *Element) closest(selector string) bool {
	for n := e; n != nil; n = n.Parent {
		if n.matches(selector) {
			return true
		}
	}
	return false
}

// ClickPolicy decides which elements make the click sound.
type ClickPolicy struct {
	Tags       []string
	Classes    []string
	Attributes []string
	// Ancestors are selectors checked against the element and its parents.
	Ancestors []string
}

// DefaultClickPolicy returns the desktop's interactive-element rules.
func DefaultClickPolicy() ClickPolicy {
	return ClickPolicy{
		Tags: []string{"BUTTON", "A", "INPUT", "TEXTAREA", "SELECT"},
		Classes: []string{
			"desktop-icon", "menu-item", "dropdown-item", "paint-tool-item",
			"window-close", "doc-window-close", "folder-window-close",
		},
		Attributes: []string{"data-icon"},
		Ancestors: []string{
			".desktop-icon", ".menu-item", ".dropdown-item", ".paint-tool-item",
			"button", "a",
		},
	}
}

// Interactive reports whether a press on e counts as a click on a control.
func (p ClickPolicy) Interactive(e *Element) bool {
	if e == nil {
		return false
	}
	for _, t := range p.Tags {
		if strings.EqualFold(e.Tag, t) {
			return true
		}
	}
	if e.ContentEditable || e.HasClickHandler {
		return true
	}
	for _, c := range p.Classes {
		if e.hasClass(c) {
			return true
		}
	}
	for _, a := range p.Attributes {
		if _, ok := e.Attributes[a]; ok {
			return true
		}
	}
	for _, sel := range p.Ancestors {
		if e.closest(sel) {
			return true
		}
	}
	return false
}

// ClickTracker follows one press at a time and decides on release whether
// to play the click sound.
type ClickTracker struct {
	policy ClickPolicy

	down         bool
	startX       int
	startY       int
	dragged      bool
	target       *Element
	originTarget *Element
}

// NewClickTracker creates a tracker using policy.
func NewClickTracker(policy ClickPolicy) *ClickTracker {
	return &ClickTracker{policy: policy}
}

// PointerDown starts tracking a press on target. origin is the element the
// event was first dispatched to, if it differs.
func (t *ClickTracker) PointerDown(x, y int, target, origin *Element) {
	t.down = true
	t.startX, t.startY = x, y
	t.dragged = false
	t.target, t.originTarget = target, origin
}

// PointerMove marks the press as a drag once it leaves the threshold.
func (t *ClickTracker) PointerMove(x, y int) {
	if !t.down {
		return
	}
	if abs(x-t.startX) > DragThreshold || abs(y-t.startY) > DragThreshold {
		t.dragged = true
	}
}

// PointerUp ends the press and reports whether the click sound should play.
func (t *ClickTracker) PointerUp() bool {
	if !t.down {
		return false
	}
	play := !t.dragged && (t.policy.Interactive(t.target) || t.policy.Interactive(t.originTarget))
	*t = ClickTracker{policy: t.policy}
	return play
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
