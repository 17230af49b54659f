package scale

import (
	"fmt"
	"strconv"
)

// Denominator is the fixed denominator of every fractional scale
// numerator, per the fractional-scale-v1 protocol.
const Denominator = 120

// Mode identifies which scaling mechanism currently drives a surface.
type Mode int32

const (
	// Legacy means the surface is sized by the whole-number output
	// scale mechanism, either because no fractional-scale manager is
	// bound or because negotiation never started.
	Legacy Mode = iota
	// PendingFractional means the fractional add-on exists but no
	// preferred scale has arrived yet; sizing still follows the
	// legacy path.
	PendingFractional
	// Fractional means a preferred scale has been received and sizing
	// follows the numerator/120 rational.
	Fractional
)

func (m Mode) String() string {
	switch m {
	case Legacy:
		return "legacy"
	case PendingFractional:
		return "pending-fractional"
	case Fractional:
		return "fractional"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Factor is the effective scale of a surface: a whole-number legacy
// factor or a fractional numerator, both held as a rational over 120.
type Factor struct {
	numerator  uint32
	fractional bool
}

// LegacyFactor wraps a whole-number output scale. The factor must be
// positive; the tracker guarantees this for everything it hands out.
func LegacyFactor(factor int32) Factor {
	return Factor{numerator: uint32(factor) * Denominator}
}

// FractionalFactor wraps a preferred-scale numerator over 120.
func FractionalFactor(numerator uint32) Factor {
	return Factor{numerator: numerator, fractional: true}
}

// IsFractional reports whether the factor came out of fractional
// negotiation rather than the legacy integer mechanism.
func (f Factor) IsFractional() bool {
	return f.fractional
}

// Numerator returns the scale numerator over a denominator of 120.
func (f Factor) Numerator() uint32 {
	return f.numerator
}

// Float returns the scale as a float, for display purposes only:
// sizing math must go through PixelSize to get the rounding right.
func (f Factor) Float() float64 {
	return float64(f.numerator) / Denominator
}

// PixelSize converts a logical size to the buffer pixel size this
// factor requires. Fractional factors round up; legacy factors are
// exact integer multiples.
func (f Factor) PixelSize(width, height int32) (int32, int32) {
	w := (int64(width)*int64(f.numerator) + Denominator - 1) / Denominator
	h := (int64(height)*int64(f.numerator) + Denominator - 1) / Denominator
	return int32(w), int32(h)
}

func (f Factor) String() string {
	if f.fractional {
		return fmt.Sprintf("%d/%d", f.numerator, Denominator)
	}
	return strconv.Itoa(int(f.numerator / Denominator))
}
