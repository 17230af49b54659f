package scale

import "github.com/pkg/errors"

// viewport is the per-surface wp_viewport state: the optional handle
// and the last destination size sent, so redundant requests can be
// skipped.
type viewport struct {
	handle  ViewportHandle
	destSet bool
	destW   int32
	destH   int32
}

// create issues the viewport creation request. A second create while
// a handle exists is a protocol violation.
func (v *viewport) create(vp Viewporter, surface uint32) error {
	if v.handle != nil {
		return errors.Wrapf(ErrDuplicateHandle, "viewport for surface %d", surface)
	}
	handle, err := vp.Viewport(surface)
	if err != nil {
		return errors.Wrapf(err, "unable to create viewport for surface %d", surface)
	}
	v.handle = handle
	return nil
}

// setDestination sends the logical destination size, skipping the
// request when nothing changed. Without a handle this is a no-op:
// the viewporter global was absent.
func (v *viewport) setDestination(width, height int32) error {
	if v.handle == nil {
		return nil
	}
	if width < 0 || height < 0 {
		width, height = -1, -1
	}
	if v.destSet && v.destW == width && v.destH == height {
		return nil
	}
	if err := v.handle.SetDestination(width, height); err != nil {
		return errors.Wrap(err, "unable to set viewport destination")
	}
	v.destSet = true
	v.destW = width
	v.destH = height
	return nil
}

// clear removes a previously set destination. A viewport that never
// had a destination is left untouched.
func (v *viewport) clear() error {
	if !v.destSet || (v.destW == -1 && v.destH == -1) {
		return nil
	}
	return v.setDestination(-1, -1)
}

// destroy issues the viewport destruction request and forgets the
// handle.
func (v *viewport) destroy() error {
	if v.handle == nil {
		return nil
	}
	err := v.handle.Destroy()
	v.handle = nil
	v.destSet = false
	return errors.Wrap(err, "unable to destroy viewport")
}
