package paint

import "strconv"

// newLayerName is the display name given to added layers.
const newLayerName = "untitled layer"

// Layer is a layer id with its display name.
type Layer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Layers returns the layers in sequence order.
func (c *Canvas) Layers() []Layer {
	out := make([]Layer, len(c.state.Layers))
	for i, id := range c.state.Layers {
		out[i] = Layer{ID: id, Name: c.layerName(id)}
	}
	return out
}

// SelectedLayer returns the id of the current layer.
func (c *Canvas) SelectedLayer() string {
	return c.state.SelectedLayer
}

func (c *Canvas) layerName(id string) string {
	if n, ok := c.state.LayerNames[id]; ok && n != "" {
		return n
	}
	return id
}

// AddLayer appends a new layer, selects it and returns its id.
func (c *Canvas) AddLayer() string {
	n := len(c.state.Layers) + 1
	id := newLayerName + " " + strconv.Itoa(n)
	for c.state.hasLayer(id) {
		n++
		id = newLayerName + " " + strconv.Itoa(n)
	}
	c.state.Layers = append(c.state.Layers, id)
	c.state.LayerNames[id] = newLayerName
	c.selectLayer(id)
	return id
}

// SelectLayer makes id the current layer.
func (c *Canvas) SelectLayer(id string) error {
	if !c.state.hasLayer(id) {
		return ErrLayerNotFound
	}
	c.selectLayer(id)
	return nil
}

// selectLayer switches layers. A selection on another layer can no longer be
// moved or reordered, so it is dropped.
func (c *Canvas) selectLayer(id string) {
	c.state.SelectedLayer = id
	if o := c.find(c.selected); o != nil && o.Head().Layer != id {
		c.selected = ""
	}
	c.moving = false
}

// RenameLayer changes a layer's display name. Blank names are ignored.
func (c *Canvas) RenameLayer(id, name string) error {
	if !c.state.hasLayer(id) {
		return ErrLayerNotFound
	}
	if name != "" {
		c.state.LayerNames[id] = name
	}
	return nil
}

// DeleteLayer removes a layer and every object on it. If the deleted layer
// was current, the preceding layer (or the new first layer) becomes current.
func (c *Canvas) DeleteLayer(id string) error {
	idx := -1
	for i, l := range c.state.Layers {
		if l == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrLayerNotFound
	}
	if len(c.state.Layers) == 1 {
		return ErrLastLayer
	}

	c.state.Layers = append(c.state.Layers[:idx:idx], c.state.Layers[idx+1:]...)
	delete(c.state.LayerNames, id)

	kept := make([]Object, 0, len(c.state.Objects))
	for _, o := range c.state.Objects {
		if o.Head().Layer != id {
			kept = append(kept, o)
		}
	}
	c.state.Objects = kept

	if c.state.SelectedLayer == id {
		next := idx - 1
		if next < 0 {
			next = 0
		}
		c.selectLayer(c.state.Layers[next])
	}
	if c.find(c.selected) == nil {
		c.selected = ""
	}
	return nil
}

// Restart clears the drawing back to the default layers. The title is kept.
func (c *Canvas) Restart() {
	title := c.state.UntitledName
	c.state = DefaultState()
	c.state.UntitledName = title
	c.selected = ""
	c.SetTool(c.tool)
}
