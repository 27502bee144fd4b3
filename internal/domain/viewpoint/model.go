package viewpoint

import "github.com/rpggio/bimtodo/internal/geom"

// Projection identifies how the active camera projects the scene.
type Projection string

const (
	ProjectionPerspective  Projection = "perspective"
	ProjectionOrthographic Projection = "orthographic"
	// ProjectionFixed is a camera without look-at controls, e.g. a plan or
	// first-person navigation mode.
	ProjectionFixed Projection = "fixed"
)

// Controllable reports whether the projection supports look-at control.
func (p Projection) Controllable() bool {
	return p == ProjectionPerspective || p == ProjectionOrthographic
}

// Viewpoint is a camera position and look-at target.
type Viewpoint struct {
	Position geom.Vector3 `json:"position"`
	Target   geom.Vector3 `json:"target"`
}

// ApproxEqual compares both vectors within tol.
func (v Viewpoint) ApproxEqual(o Viewpoint, tol float32) bool {
	return v.Position.ApproxEqual(o.Position, tol) && v.Target.ApproxEqual(o.Target, tol)
}
