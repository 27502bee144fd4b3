package scene

import (
	"context"
	"sync"

	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/domain/viewpoint"
)

// State is a snapshot of the viewer.
type State struct {
	Mode   viewpoint.Projection `json:"mode"`
	Camera viewpoint.Viewpoint  `json:"camera"`
	Groups []GroupState         `json:"groups"`
}

// Viewer is the registry of shared viewer tools.
type Viewer struct {
	mu          sync.RWMutex
	controls    *OrthoPerspectiveCamera
	fixed       *FixedCamera
	active      viewpoint.Camera
	highlighter *FragmentHighlighter
}

// NewViewer creates a viewer with an active perspective camera at vp.
func NewViewer(vp viewpoint.Viewpoint) *Viewer {
	controls := NewOrthoPerspectiveCamera(vp)
	return &Viewer{
		controls:    controls,
		fixed:       &FixedCamera{Eye: vp.Position},
		active:      controls,
		highlighter: NewFragmentHighlighter(),
	}
}

// Camera returns the active camera.
func (v *Viewer) Camera(ctx context.Context) (viewpoint.Camera, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.active, nil
}

// Highlighter returns the shared highlighter.
func (v *Viewer) Highlighter(ctx context.Context) (highlight.Highlighter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.highlighter, nil
}

// Controls returns the look-at camera whether or not it is active.
func (v *Viewer) Controls() *OrthoPerspectiveCamera {
	return v.controls
}

// FragmentHighlighter returns the concrete highlighter.
func (v *Viewer) FragmentHighlighter() *FragmentHighlighter {
	return v.highlighter
}

// LookAt moves the look-at camera, whether or not it is active.
func (v *Viewer) LookAt(vp viewpoint.Viewpoint, animate bool) {
	v.controls.SetLookAt(vp.Position, vp.Target, animate)
}

// Select replaces the current user selection.
func (v *Viewer) Select(sel highlight.SelectionMap) {
	v.highlighter.Select(sel)
}

// SetCameraMode switches the active camera. Perspective and orthographic use
// the look-at camera; fixed swaps in a camera without controls.
func (v *Viewer) SetCameraMode(mode viewpoint.Projection) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch mode {
	case viewpoint.ProjectionPerspective, viewpoint.ProjectionOrthographic:
		if err := v.controls.SetProjection(mode); err != nil {
			return err
		}
		v.active = v.controls
	case viewpoint.ProjectionFixed:
		v.fixed.Eye = v.controls.Position()
		v.active = v.fixed
	default:
		return ErrInvalidProjection
	}
	return nil
}

// State returns a snapshot of camera and highlight groups.
func (v *Viewer) State() State {
	v.mu.RLock()
	mode := v.active.Projection()
	v.mu.RUnlock()

	return State{
		Mode: mode,
		Camera: viewpoint.Viewpoint{
			Position: v.controls.Position(),
			Target:   v.controls.Target(),
		},
		Groups: v.highlighter.Groups(),
	}
}
