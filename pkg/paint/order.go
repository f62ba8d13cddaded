package paint

import "sort"

// maxZ returns the highest z-index on a layer, or -1 if it is empty.
func (c *Canvas) maxZ(layer string) int {
	m := -1
	for _, o := range c.state.Objects {
		if h := o.Head(); h.Layer == layer && h.ZIndex > m {
			m = h.ZIndex
		}
	}
	return m
}

// layerObjectsDesc returns the objects of one layer, topmost first.
func (c *Canvas) layerObjectsDesc(layer string) []Object {
	var out []Object
	for _, o := range c.state.Objects {
		if o.Head().Layer == layer {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Head().ZIndex > out[j].Head().ZIndex
	})
	return out
}

// reorderTarget returns the selected object if it can be reordered: select
// tool active and the selection on the current layer.
func (c *Canvas) reorderTarget() Object {
	if c.tool != ToolSelect || c.selected == "" {
		return nil
	}
	o := c.find(c.selected)
	if o == nil || o.Head().Layer != c.state.SelectedLayer {
		return nil
	}
	return o
}

// RaiseSelected swaps the selection with its nearest neighbour above. When
// it is already on top its z-index is incremented.
func (c *Canvas) RaiseSelected() bool {
	sel := c.reorderTarget()
	if sel == nil {
		return false
	}
	h := sel.Head()
	var next *Header
	for _, o := range c.state.Objects {
		oh := o.Head()
		if o == sel || oh.Layer != h.Layer || oh.ZIndex <= h.ZIndex {
			continue
		}
		if next == nil || oh.ZIndex < next.ZIndex {
			next = oh
		}
	}
	if next == nil {
		h.ZIndex++
		return true
	}
	h.ZIndex, next.ZIndex = next.ZIndex, h.ZIndex
	return true
}

// LowerSelected swaps the selection with its nearest neighbour below. When
// it is already at the bottom its z-index is decremented, never below zero.
func (c *Canvas) LowerSelected() bool {
	sel := c.reorderTarget()
	if sel == nil {
		return false
	}
	h := sel.Head()
	var prev *Header
	for _, o := range c.state.Objects {
		oh := o.Head()
		if o == sel || oh.Layer != h.Layer || oh.ZIndex >= h.ZIndex {
			continue
		}
		if prev == nil || oh.ZIndex > prev.ZIndex {
			prev = oh
		}
	}
	if prev == nil {
		if h.ZIndex > 0 {
			h.ZIndex--
		}
		return true
	}
	h.ZIndex, prev.ZIndex = prev.ZIndex, h.ZIndex
	return true
}

// RenderItem is one object in draw order.
type RenderItem struct {
	Object Object
	// Dimmed marks objects on layers other than the current one. They are
	// drawn translucent and ignore pointer input.
	Dimmed   bool
	Selected bool
}

// RenderOrder returns every object in paint order: other layers first, then
// the current layer, each by ascending z-index.
func (c *Canvas) RenderOrder() []RenderItem {
	cur := c.state.SelectedLayer
	objs := make([]Object, len(c.state.Objects))
	copy(objs, c.state.Objects)
	sort.SliceStable(objs, func(i, j int) bool {
		ci, cj := objs[i].Head().Layer == cur, objs[j].Head().Layer == cur
		if ci != cj {
			return cj
		}
		return objs[i].Head().ZIndex < objs[j].Head().ZIndex
	})
	out := make([]RenderItem, len(objs))
	for i, o := range objs {
		out[i] = RenderItem{
			Object:   o.clone(),
			Dimmed:   o.Head().Layer != cur,
			Selected: o.Head().ID == c.selected,
		}
	}
	return out
}
