package installation

import "errors"

var (
	// ErrUnknownAction means the lifecycle action is not one the registry tracks.
	ErrUnknownAction = errors.New("unknown installation action")
)
