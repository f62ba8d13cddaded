package paint

import "errors"

var (
	// ErrLastLayer is returned when deleting the only remaining layer.
	ErrLastLayer = errors.New("cannot delete the last layer")
	// ErrLayerNotFound is returned for an unknown layer id.
	ErrLayerNotFound = errors.New("layer not found")
	// ErrUnknownObject is returned when decoding an unrecognised object type.
	ErrUnknownObject = errors.New("unknown paint object")
)
