package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactorPixelSize(t *testing.T) {
	tests := []struct {
		name   string
		factor Factor
		w, h   int32
		pw, ph int32
	}{
		{"identity", LegacyFactor(1), 640, 480, 640, 480},
		{"double", LegacyFactor(2), 400, 300, 800, 600},
		{"fractional exact", FractionalFactor(150), 800, 600, 1000, 750},
		{"fractional rounds up", FractionalFactor(150), 333, 333, 417, 417},
		{"fractional identity", FractionalFactor(120), 640, 480, 640, 480},
		{"zero size", LegacyFactor(3), 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pw, ph := tt.factor.PixelSize(tt.w, tt.h)
			assert.Equal(t, tt.pw, pw)
			assert.Equal(t, tt.ph, ph)
		})
	}
}

func TestFactorAccessors(t *testing.T) {
	f := FractionalFactor(150)
	assert.True(t, f.IsFractional())
	assert.Equal(t, uint32(150), f.Numerator())
	assert.InDelta(t, 1.25, f.Float(), 1e-9)
	assert.Equal(t, "150/120", f.String())

	l := LegacyFactor(2)
	assert.False(t, l.IsFractional())
	assert.Equal(t, uint32(240), l.Numerator())
	assert.Equal(t, "2", l.String())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "legacy", Legacy.String())
	assert.Equal(t, "pending-fractional", PendingFractional.String())
	assert.Equal(t, "fractional", Fractional.String())
}
