package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputTrackerDefaults(t *testing.T) {
	tr := NewOutputTracker()
	assert.Equal(t, int32(1), tr.Scale(7))
	assert.Equal(t, int32(1), tr.Max(nil))
	assert.Equal(t, int32(1), tr.Max(map[uint32]struct{}{7: {}}))
}

func TestOutputTrackerAdvertise(t *testing.T) {
	tr := NewOutputTracker()
	assert.NoError(t, tr.Advertise(7, 2))
	assert.Equal(t, int32(2), tr.Scale(7))

	// replacement
	assert.NoError(t, tr.Advertise(7, 3))
	assert.Equal(t, int32(3), tr.Scale(7))

	// malformed factors are rejected, last known-good retained
	assert.Error(t, tr.Advertise(7, 0))
	assert.Error(t, tr.Advertise(7, -1))
	assert.Equal(t, int32(3), tr.Scale(7))
}

func TestOutputTrackerMax(t *testing.T) {
	tr := NewOutputTracker()
	tr.Advertise(1, 2)
	tr.Advertise(2, 3)
	spanned := map[uint32]struct{}{1: {}, 2: {}, 5: {}}
	assert.Equal(t, int32(3), tr.Max(spanned))

	tr.Withdraw(2)
	assert.Equal(t, int32(2), tr.Max(spanned))
	assert.Equal(t, int32(1), tr.Scale(2))
}
