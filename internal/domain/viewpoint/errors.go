package viewpoint

import "errors"

// ErrUnsupportedCameraMode indicates the active camera cannot report or accept a look-at pair.
var ErrUnsupportedCameraMode = errors.New("active camera is not an orthographic/perspective controllable camera")
