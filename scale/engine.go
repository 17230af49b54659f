// Package scale implements the client side of wayland display
// scaling negotiation: per-output integer scales, per-surface
// fractional scale negotiation (fractional-scale-v1) and viewport
// sizing (viewporter). The Engine consumes compositor events and
// produces, per surface, the decision triple a buffer allocator
// needs: the legacy buffer-scale request, an optional viewport
// destination and the required buffer pixel size.
//
// The engine is single-threaded by contract: all events must be
// delivered serially from one dispatch point.
package scale

import "github.com/pkg/errors"

// Decision is the engine's output for one surface.
type Decision struct {
	// Factor is the effective scale the sizing was derived from.
	Factor Factor
	// BufferScale is the wl_surface.set_buffer_scale value in
	// effect; pinned to 1 whenever a viewport destination is used.
	BufferScale int32
	// PixelWidth and PixelHeight are the required buffer dimensions.
	PixelWidth  int32
	PixelHeight int32
	// Destination reports whether a viewport destination is in
	// effect; DestWidth and DestHeight are its logical size.
	Destination bool
	DestWidth   int32
	DestHeight  int32
}

// NotifyFunc receives the recomputed decision for a surface whenever
// an upstream input changed it.
type NotifyFunc func(surface uint32, d Decision)

// Engine composes the capability record, the output tracker and the
// per-surface negotiation state, and runs the decision algorithm.
type Engine struct {
	binder   *Binder
	outputs  *OutputTracker
	surfaces map[uint32]*Surface

	// Notify, if set, is called with every changed decision.
	Notify NotifyFunc
	// Warnf, if set, receives diagnostics for malformed or failed
	// updates that were absorbed rather than propagated.
	Warnf func(format string, args ...interface{})
}

func NewEngine(binder *Binder) *Engine {
	if binder == nil {
		binder = NewBinder()
	}
	return &Engine{
		binder:   binder,
		outputs:  NewOutputTracker(),
		surfaces: make(map[uint32]*Surface),
	}
}

func (e *Engine) warnf(format string, args ...interface{}) {
	if e.Warnf != nil {
		e.Warnf(format, args...)
	}
}

// Binder returns the capability record the engine was built with.
func (e *Engine) Binder() *Binder {
	return e.binder
}

// Surface returns the record registered under the given identity.
func (e *Engine) Surface(id uint32) (*Surface, bool) {
	s, ok := e.surfaces[id]
	return s, ok
}

// AddSurface registers a surface. When the viewporter global is
// bound a viewport add-on is created immediately; when the
// fractional-scale manager is bound, negotiation starts and the
// surface sits in Pending until the first preferred scale arrives.
// Registering an id twice is an error.
func (e *Engine) AddSurface(id uint32, requests SurfaceRequests) (*Surface, error) {
	if _, exists := e.surfaces[id]; exists {
		return nil, errors.Wrapf(ErrSurfaceExists, "surface %d", id)
	}
	s := &Surface{
		id:              id,
		requests:        requests,
		outputs:         make(map[uint32]struct{}),
		lastBufferScale: 1,
	}
	if e.binder.HasViewporter() {
		if err := s.vp.create(e.binder.viewporter, id); err != nil {
			return nil, err
		}
	}
	if e.binder.HasFractionalScale() {
		if err := s.neg.begin(e.binder.manager, id); err != nil {
			if verr := s.vp.destroy(); verr != nil {
				e.warnf("destroying viewport of surface %d: %v", id, verr)
			}
			return nil, err
		}
	}
	e.surfaces[id] = s
	return s, nil
}

// DestroySurface issues the destruction requests for the surface's
// add-on handles, in that order, before forgetting the surface. A
// destroyed id may be registered again, resetting negotiation.
func (e *Engine) DestroySurface(id uint32) error {
	s, ok := e.surfaces[id]
	if !ok {
		return nil
	}
	err := s.neg.end()
	if verr := s.vp.destroy(); err == nil {
		err = verr
	}
	delete(e.surfaces, id)
	return err
}

// Negotiate retriggers fractional negotiation for a surface whose
// add-on was never created, for instance because the manager global
// appeared after the surface. Calling it while the surface already
// holds an add-on handle is the duplicate-creation protocol
// violation and fatal for this surface's negotiation.
func (e *Engine) Negotiate(id uint32) error {
	s, ok := e.surfaces[id]
	if !ok {
		return errors.Errorf("surface %d is not registered", id)
	}
	if !e.binder.HasFractionalScale() {
		return nil
	}
	return s.neg.begin(e.binder.manager, id)
}

// BindFractionalScaleManager records a late-bound manager global and
// retroactively starts negotiation for every surface still Unbound.
func (e *Engine) BindFractionalScaleManager(m FractionalScaleManager) error {
	e.binder.BindFractionalScaleManager(m)
	var first error
	for id, s := range e.surfaces {
		if s.neg.state != Unbound || s.neg.failed {
			continue
		}
		if err := s.neg.begin(m, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BindViewporter records a late-bound viewporter global and creates
// viewports for surfaces that lack one. Surfaces with an Active
// negotiation switch onto the fractional path as a result.
func (e *Engine) BindViewporter(v Viewporter) error {
	e.binder.BindViewporter(v)
	var first error
	for id, s := range e.surfaces {
		if s.vp.handle != nil {
			continue
		}
		if err := s.vp.create(v, id); err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		e.recompute(s)
	}
	return first
}

// Resize sets a surface's logical size. Events for unregistered
// surfaces are dropped; negative sizes are rejected with the last
// known-good size retained.
func (e *Engine) Resize(id uint32, width, height int32) {
	s, ok := e.surfaces[id]
	if !ok {
		return
	}
	if width < 0 || height < 0 {
		e.warnf("rejecting negative logical size %dx%d for surface %d", width, height, id)
		return
	}
	if s.width == width && s.height == height {
		return
	}
	s.width = width
	s.height = height
	e.recompute(s)
}

// Enter records that a surface now spans an output.
func (e *Engine) Enter(id, output uint32) {
	s, ok := e.surfaces[id]
	if !ok {
		return
	}
	if _, spans := s.outputs[output]; spans {
		return
	}
	s.outputs[output] = struct{}{}
	e.recompute(s)
}

// Leave records that a surface no longer spans an output.
func (e *Engine) Leave(id, output uint32) {
	s, ok := e.surfaces[id]
	if !ok {
		return
	}
	if _, spans := s.outputs[output]; !spans {
		return
	}
	delete(s.outputs, output)
	e.recompute(s)
}

// AdvertiseScale stores a new integer scale for an output and
// recomputes every surface spanning it. Malformed factors are
// rejected with the last known-good value retained.
func (e *Engine) AdvertiseScale(output uint32, factor int32) {
	if err := e.outputs.Advertise(output, factor); err != nil {
		e.warnf("rejecting scale advertisement: %v", err)
		return
	}
	for _, s := range e.surfaces {
		if _, spans := s.outputs[output]; spans {
			e.recompute(s)
		}
	}
}

// WithdrawOutput forgets an output and drops every surface's
// reference to it.
func (e *Engine) WithdrawOutput(output uint32) {
	e.outputs.Withdraw(output)
	for _, s := range e.surfaces {
		if _, spans := s.outputs[output]; spans {
			delete(s.outputs, output)
			e.recompute(s)
		}
	}
}

// PreferredScale records a preferred-scale notification for a
// surface's fractional add-on. Zero numerators are rejected with the
// last known-good value retained; notifications for surfaces without
// a live add-on are stale and dropped.
func (e *Engine) PreferredScale(id, numerator uint32) {
	s, ok := e.surfaces[id]
	if !ok {
		return
	}
	if numerator == 0 {
		e.warnf("rejecting zero preferred-scale numerator for surface %d", id)
		return
	}
	if s.neg.preferred(numerator) {
		e.recompute(s)
	}
}

// Decision returns the current decision for a surface. It is only
// valid once the surface has a positive logical size.
func (e *Engine) Decision(id uint32) (Decision, bool) {
	s, ok := e.surfaces[id]
	if !ok || !s.decided {
		return Decision{}, false
	}
	return s.decision, true
}

// recompute runs the decision algorithm for one surface and, if the
// result changed, issues the necessary sizing requests and notifies
// the consumer.
func (e *Engine) recompute(s *Surface) {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	var d Decision
	if s.Mode() == Fractional {
		d.Factor = FractionalFactor(s.neg.numerator)
		d.BufferScale = 1
		d.PixelWidth, d.PixelHeight = d.Factor.PixelSize(s.width, s.height)
		d.Destination = true
		d.DestWidth = s.width
		d.DestHeight = s.height
	} else {
		d.Factor = LegacyFactor(e.outputs.Max(s.outputs))
		d.BufferScale = int32(d.Factor.Numerator() / Denominator)
		d.PixelWidth, d.PixelHeight = d.Factor.PixelSize(s.width, s.height)
	}
	if s.decided && d == s.decision {
		return
	}
	s.decision = d
	s.decided = true
	e.apply(s)
}

// apply issues the protocol requests a freshly changed decision
// calls for, then hands the decision to the consumer.
func (e *Engine) apply(s *Surface) {
	d := s.decision
	if s.lastBufferScale != d.BufferScale {
		if err := s.requests.SetBufferScale(d.BufferScale); err != nil {
			e.warnf("set_buffer_scale(%d) on surface %d: %v", d.BufferScale, s.id, err)
		} else {
			s.lastBufferScale = d.BufferScale
		}
	}
	if d.Destination {
		if err := s.vp.setDestination(d.DestWidth, d.DestHeight); err != nil {
			e.warnf("viewport destination on surface %d: %v", s.id, err)
		}
	} else {
		if err := s.vp.clear(); err != nil {
			e.warnf("clearing viewport destination on surface %d: %v", s.id, err)
		}
	}
	if e.Notify != nil {
		e.Notify(s.id, d)
	}
}
