package scale

import "github.com/pkg/errors"

// State tracks a surface's fractional negotiation progress.
type State int32

const (
	// Unbound means no fractional add-on exists for the surface.
	Unbound State = iota
	// Pending means the add-on creation request has been issued but
	// no preferred scale has been received yet.
	Pending
	// Active means at least one preferred scale has arrived.
	Active
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Pending:
		return "pending"
	case Active:
		return "active"
	}
	return "state(?)"
}

// negotiation is the per-surface fractional-scale state machine.
type negotiation struct {
	state     State
	handle    FractionalHandle
	numerator uint32
	failed    bool
}

// begin issues the add-on creation request through the manager and
// moves Unbound -> Pending. Beginning while a handle already exists
// is a protocol violation and permanently fails the negotiation for
// this surface; the surface stays on the legacy path.
func (n *negotiation) begin(m FractionalScaleManager, surface uint32) error {
	if n.handle != nil {
		n.failed = true
		return errors.Wrapf(ErrDuplicateHandle, "fractional scale for surface %d", surface)
	}
	if n.failed {
		return errors.Errorf("negotiation previously failed for surface %d", surface)
	}
	handle, err := m.FractionalScale(surface)
	if err != nil {
		return errors.Wrapf(err, "unable to create fractional scale add-on for surface %d", surface)
	}
	n.handle = handle
	n.state = Pending
	return nil
}

// preferred records a preferred-scale numerator, moving Pending ->
// Active on the first notification. It reports whether the stored
// numerator changed. Notifications without a live handle are stale
// and dropped.
func (n *negotiation) preferred(numerator uint32) bool {
	if n.handle == nil {
		return false
	}
	changed := n.state != Active || n.numerator != numerator
	n.state = Active
	n.numerator = numerator
	return changed
}

// end issues the add-on destruction request and resets the state
// machine, so a recreated surface may negotiate again.
func (n *negotiation) end() error {
	if n.handle == nil {
		return nil
	}
	err := n.handle.Destroy()
	n.handle = nil
	n.state = Unbound
	n.numerator = 0
	return errors.Wrap(err, "unable to destroy fractional scale add-on")
}
