package scale

import "github.com/pkg/errors"

var (
	// ErrSurfaceExists is returned when a surface id is registered
	// twice without an intervening DestroySurface.
	ErrSurfaceExists = errors.New("surface is already registered")

	// ErrDuplicateHandle is returned when an add-on creation request
	// is issued for a surface that already holds one. This is a
	// protocol violation and fatal for that surface's negotiation;
	// callers should tear the surface down and recreate it.
	ErrDuplicateHandle = errors.New("surface already holds a scaling add-on handle")
)
