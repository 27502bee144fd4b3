// Package viewpoint captures and restores camera placements.
package viewpoint

// Capture reads the position and target of the active camera.
func Capture(cam Camera) (Viewpoint, error) {
	ctl, err := controls(cam)
	if err != nil {
		return Viewpoint{}, err
	}
	return Viewpoint{
		Position: ctl.Position(),
		Target:   ctl.Target(),
	}, nil
}

// Restore moves the camera back to vp. The move is always animated.
func Restore(cam Camera, vp Viewpoint) error {
	ctl, err := controls(cam)
	if err != nil {
		return err
	}
	ctl.SetLookAt(vp.Position, vp.Target, true)
	return nil
}

func controls(cam Camera) (Controls, error) {
	if cam == nil {
		return nil, ErrUnsupportedCameraMode
	}
	ctl, ok := cam.(Controls)
	if !ok || !ctl.Projection().Controllable() {
		return nil, ErrUnsupportedCameraMode
	}
	return ctl, nil
}
