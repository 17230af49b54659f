package scale

// FractionalScaleManager abstracts wp_fractional_scale_manager_v1:
// the creation side of fractional negotiation add-ons. The returned
// handle must already have its notification routing in place when
// FractionalScale returns, so no preferred-scale event can precede
// the creation request.
type FractionalScaleManager interface {
	FractionalScale(surface uint32) (FractionalHandle, error)
}

// FractionalHandle abstracts a wp_fractional_scale_v1 add-on object
// owned by exactly one surface.
type FractionalHandle interface {
	Destroy() error
}

// Viewporter abstracts wp_viewporter, the creation side of viewport
// add-ons.
type Viewporter interface {
	Viewport(surface uint32) (ViewportHandle, error)
}

// ViewportHandle abstracts a wp_viewport add-on object owned by
// exactly one surface. Passing -1/-1 to SetDestination clears any
// previous destination.
type ViewportHandle interface {
	SetDestination(width, height int32) error
	Destroy() error
}

// SurfaceRequests is the subset of wl_surface requests the engine
// issues on its own.
type SurfaceRequests interface {
	SetBufferScale(factor int32) error
}

// Binder records which of the optional scaling globals the compositor
// advertised. Absence of either is a legitimate, common configuration
// and simply routes every surface down the legacy path.
type Binder struct {
	manager    FractionalScaleManager
	viewporter Viewporter
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) BindFractionalScaleManager(m FractionalScaleManager) {
	b.manager = m
}

func (b *Binder) BindViewporter(v Viewporter) {
	b.viewporter = v
}

func (b *Binder) HasFractionalScale() bool {
	return b.manager != nil
}

func (b *Binder) HasViewporter() bool {
	return b.viewporter != nil
}
