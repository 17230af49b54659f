package scale

// Surface is the engine's per-surface record: identity, logical size,
// the outputs it currently spans and the optional scaling add-on
// slots. All mutation happens through Engine methods.
type Surface struct {
	id       uint32
	requests SurfaceRequests

	width  int32
	height int32

	outputs map[uint32]struct{}

	neg negotiation
	vp  viewport

	// last buffer scale actually requested; a fresh wl_surface
	// defaults to 1, so the engine never has to send the first 1.
	lastBufferScale int32

	decision Decision
	decided  bool
}

// ID returns the surface identity the record was registered under.
func (s *Surface) ID() uint32 {
	return s.id
}

// LogicalSize returns the current logical size in surface-local
// units.
func (s *Surface) LogicalSize() (width, height int32) {
	return s.width, s.height
}

// State returns the fractional negotiation state.
func (s *Surface) State() State {
	return s.neg.state
}

// Mode returns the scaling mode currently driving the surface. A
// surface is only Fractional once a preferred scale has arrived and
// a viewport exists to decouple its logical size from the buffer.
func (s *Surface) Mode() Mode {
	switch {
	case s.neg.state == Active && s.vp.handle != nil:
		return Fractional
	case s.neg.state != Unbound:
		return PendingFractional
	}
	return Legacy
}

// Outputs returns the number of outputs the surface currently spans.
func (s *Surface) Outputs() int {
	return len(s.outputs)
}
