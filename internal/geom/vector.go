// Package geom holds the small amount of 3D math the viewer needs to
// describe camera placements.
package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vector3 is a point or direction in scene space.
type Vector3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

// Vec3 returns a new Vector3.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// MulScalar returns v scaled by s.
func (v Vector3) MulScalar(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the euclidean length of v.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the distance between v and o.
func (v Vector3) DistanceTo(o Vector3) float32 {
	return v.Sub(o).Length()
}

// Lerp interpolates from v towards o by t in [0,1].
func (v Vector3) Lerp(o Vector3, t float32) Vector3 {
	t = math32.Max(0, math32.Min(1, t))
	return v.Add(o.Sub(v).MulScalar(t))
}

// ApproxEqual reports whether every component of v and o differs by at most tol.
func (v Vector3) ApproxEqual(o Vector3, tol float32) bool {
	return math32.Abs(v.X-o.X) <= tol &&
		math32.Abs(v.Y-o.Y) <= tol &&
		math32.Abs(v.Z-o.Z) <= tol
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
