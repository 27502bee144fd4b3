package viewpoint

import "github.com/rpggio/bimtodo/internal/geom"

// Camera is any camera the viewer can make active.
type Camera interface {
	Projection() Projection
}

// Controls is a camera that exposes look-at controls.
type Controls interface {
	Camera
	Position() geom.Vector3
	Target() geom.Vector3
	SetLookAt(position, target geom.Vector3, animate bool)
}
