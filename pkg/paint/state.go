package paint

import (
	"encoding/json"
	"fmt"
)

// Default layer set for a fresh drawing.
const (
	DefaultLayer1 = "Layer 1"
	DefaultLayer2 = "Layer 2"
	DefaultTitle  = "untitled"
)

// State is a detached snapshot of a canvas. It is what a paint window
// carries while minimized and what the closed-window cache stores.
type State struct {
	Layers        []string          `json:"layers"`
	LayerNames    map[string]string `json:"layerNames"`
	SelectedLayer string            `json:"selectedLayer"`
	Objects       []Object          `json:"-"`
	UntitledName  string            `json:"untitledName"`
}

// DefaultState returns the state of a new, empty drawing.
func DefaultState() State {
	return State{
		Layers: []string{DefaultLayer1, DefaultLayer2},
		LayerNames: map[string]string{
			DefaultLayer1: DefaultLayer1,
			DefaultLayer2: DefaultLayer2,
		},
		SelectedLayer: DefaultLayer1,
		UntitledName:  DefaultTitle,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := State{
		Layers:        append([]string(nil), s.Layers...),
		LayerNames:    make(map[string]string, len(s.LayerNames)),
		SelectedLayer: s.SelectedLayer,
		UntitledName:  s.UntitledName,
	}
	for k, v := range s.LayerNames {
		c.LayerNames[k] = v
	}
	if s.Objects != nil {
		c.Objects = make([]Object, len(s.Objects))
		for i, o := range s.Objects {
			c.Objects[i] = o.clone()
		}
	}
	return c
}

// hasLayer reports whether id is one of the state's layers.
func (s *State) hasLayer(id string) bool {
	for _, l := range s.Layers {
		if l == id {
			return true
		}
	}
	return false
}

// normalize repairs a state loaded from outside: it guarantees at least one
// layer, a valid selected layer, and drops objects on unknown layers.
func (s *State) normalize() {
	if len(s.Layers) == 0 {
		d := DefaultState()
		s.Layers = d.Layers
		s.LayerNames = d.LayerNames
	}
	if s.LayerNames == nil {
		s.LayerNames = make(map[string]string, len(s.Layers))
	}
	if !s.hasLayer(s.SelectedLayer) {
		s.SelectedLayer = s.Layers[0]
	}
	if s.UntitledName == "" {
		s.UntitledName = DefaultTitle
	}
	kept := s.Objects[:0]
	for _, o := range s.Objects {
		if s.hasLayer(o.Head().Layer) {
			kept = append(kept, o)
		}
	}
	s.Objects = kept
}

type stateJSON struct {
	Layers        []string          `json:"layers"`
	LayerNames    map[string]string `json:"layerNames"`
	SelectedLayer string            `json:"selectedLayer"`
	Objects       []json.RawMessage `json:"objects"`
	UntitledName  string            `json:"untitledName"`
}

// MarshalJSON encodes the state with each object tagged by its "type".
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Layers:        s.Layers,
		LayerNames:    s.LayerNames,
		SelectedLayer: s.SelectedLayer,
		Objects:       make([]json.RawMessage, 0, len(s.Objects)),
		UntitledName:  s.UntitledName,
	}
	for _, o := range s.Objects {
		raw, err := MarshalObject(o)
		if err != nil {
			return nil, err
		}
		out.Objects = append(out.Objects, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a state and normalizes it.
func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = State{
		Layers:        in.Layers,
		LayerNames:    in.LayerNames,
		SelectedLayer: in.SelectedLayer,
		UntitledName:  in.UntitledName,
	}
	for i, raw := range in.Objects {
		o, err := UnmarshalObject(raw)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		s.Objects = append(s.Objects, o)
	}
	s.normalize()
	return nil
}

// MarshalObject encodes o with a "type" discriminator.
func MarshalObject(o Object) ([]byte, error) {
	switch v := o.(type) {
	case *Frame:
		return json.Marshal(struct {
			Type string `json:"type"`
			*Frame
		}{"frame", v})
	case *Rectangle:
		return json.Marshal(struct {
			Type string `json:"type"`
			*Rectangle
		}{"rectangle", v})
	case *Path:
		return json.Marshal(struct {
			Type string `json:"type"`
			*Path
		}{"path", v})
	case *Text:
		return json.Marshal(struct {
			Type string `json:"type"`
			*Text
		}{"text", v})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownObject, o)
	}
}

// UnmarshalObject decodes an object written by MarshalObject.
func UnmarshalObject(data []byte) (Object, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	var o Object
	switch tag.Type {
	case "frame":
		o = &Frame{}
	case "rectangle":
		o = &Rectangle{}
	case "path":
		o = &Path{}
	case "text":
		o = &Text{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, tag.Type)
	}
	if err := json.Unmarshal(data, o); err != nil {
		return nil, err
	}
	return o, nil
}
