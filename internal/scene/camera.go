// Package scene is the in-process viewer the annotation service runs
// against: a tool registry, an ortho/perspective camera with look-at
// controls, a fixed camera, and a fragment highlighter.
package scene

import (
	"errors"
	"sync"
	"time"

	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
	"github.com/rpggio/bimtodo/internal/geom"
)

// DefaultTransition is how long an animated look-at takes to settle.
const DefaultTransition = 250 * time.Millisecond

// ErrInvalidProjection indicates a projection the camera cannot take.
var ErrInvalidProjection = errors.New("invalid camera projection")

// Transition describes a camera move from one viewpoint to another.
type Transition struct {
	From     viewpoint.Viewpoint `json:"from"`
	To       viewpoint.Viewpoint `json:"to"`
	Animated bool                `json:"animated"`
	Duration time.Duration       `json:"duration"`
}

// At returns the interpolated viewpoint at progress in [0,1]. Instant
// transitions are always at their destination.
func (t Transition) At(progress float32) viewpoint.Viewpoint {
	if !t.Animated {
		return t.To
	}
	return viewpoint.Viewpoint{
		Position: t.From.Position.Lerp(t.To.Position, progress),
		Target:   t.From.Target.Lerp(t.To.Target, progress),
	}
}

// OrthoPerspectiveCamera is a look-at camera that can switch between
// perspective and orthographic projection.
type OrthoPerspectiveCamera struct {
	mu          sync.RWMutex
	projection  viewpoint.Projection
	position    geom.Vector3
	target      geom.Vector3
	last        *Transition
	transitions int
}

// NewOrthoPerspectiveCamera creates a perspective camera at the given viewpoint.
func NewOrthoPerspectiveCamera(vp viewpoint.Viewpoint) *OrthoPerspectiveCamera {
	return &OrthoPerspectiveCamera{
		projection: viewpoint.ProjectionPerspective,
		position:   vp.Position,
		target:     vp.Target,
	}
}

func (c *OrthoPerspectiveCamera) Projection() viewpoint.Projection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projection
}

// SetProjection switches between perspective and orthographic.
func (c *OrthoPerspectiveCamera) SetProjection(p viewpoint.Projection) error {
	if !p.Controllable() {
		return ErrInvalidProjection
	}
	c.mu.Lock()
	c.projection = p
	c.mu.Unlock()
	return nil
}

func (c *OrthoPerspectiveCamera) Position() geom.Vector3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.position
}

func (c *OrthoPerspectiveCamera) Target() geom.Vector3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

// SetLookAt places the camera. The state is updated immediately; animated
// moves are recorded as a Transition for the renderer to interpolate.
func (c *OrthoPerspectiveCamera) SetLookAt(position, target geom.Vector3, animate bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tr := Transition{
		From:     viewpoint.Viewpoint{Position: c.position, Target: c.target},
		To:       viewpoint.Viewpoint{Position: position, Target: target},
		Animated: animate,
	}
	if animate {
		tr.Duration = DefaultTransition
	}
	c.position = position
	c.target = target
	c.last = &tr
	c.transitions++
}

// LastTransition returns the most recent SetLookAt move.
func (c *OrthoPerspectiveCamera) LastTransition() (Transition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return Transition{}, false
	}
	return *c.last, true
}

// Transitions counts SetLookAt calls.
func (c *OrthoPerspectiveCamera) Transitions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transitions
}

// FixedCamera is a camera without look-at controls, used for plan navigation.
type FixedCamera struct {
	Eye geom.Vector3
}

func (c *FixedCamera) Projection() viewpoint.Projection {
	return viewpoint.ProjectionFixed
}
