package scale

import "github.com/pkg/errors"

// OutputTracker records the advertised integer scale of every live
// output. An output defaults to factor 1 until the compositor
// advertises otherwise, and again if it never does.
type OutputTracker struct {
	scales map[uint32]int32
}

func NewOutputTracker() *OutputTracker {
	return &OutputTracker{scales: make(map[uint32]int32)}
}

// Advertise stores a new integer scale factor for an output,
// replacing any prior value. Non-positive factors are rejected and
// the last known-good value is retained.
func (t *OutputTracker) Advertise(output uint32, factor int32) error {
	if factor < 1 {
		return errors.Errorf("non-positive scale factor %d for output %d", factor, output)
	}
	t.scales[output] = factor
	return nil
}

// Withdraw forgets an output. Surfaces referencing it must drop the
// reference; the Engine handles that part.
func (t *OutputTracker) Withdraw(output uint32) {
	delete(t.scales, output)
}

// Scale returns the advertised factor for an output, defaulting to 1.
func (t *OutputTracker) Scale(output uint32) int32 {
	if factor, tracked := t.scales[output]; tracked {
		return factor
	}
	return 1
}

// Max returns the largest advertised factor among the given outputs,
// or 1 when the set is empty or nothing was ever advertised. This is
// the effective legacy scale of a surface spanning those outputs.
func (t *OutputTracker) Max(outputs map[uint32]struct{}) int32 {
	max := int32(1)
	for output := range outputs {
		if factor := t.Scale(output); factor > max {
			max = factor
		}
	}
	return max
}
