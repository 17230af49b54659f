package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrdering(t *testing.T) {
	q := &Queue{}
	q.Start()
	defer q.Stop()

	require.NoError(t, q.Push(NewOutputScale(1, 2)))
	require.NoError(t, q.Push(NewSurfaceEnter(5, 1)))
	require.NoError(t, q.Push(NewPreferredScale(5, 150)))
	assert.Equal(t, 3, q.Count())

	ev, err := q.Poll()
	require.NoError(t, err)
	assert.Equal(t, uint32(OutputScale), ev.Type())
	oe := Output(ev.Raw())
	assert.Equal(t, uint32(1), oe.OutputID())
	assert.Equal(t, int32(2), oe.Factor())

	ev, err = q.Poll()
	require.NoError(t, err)
	assert.Equal(t, uint32(SurfaceEnter), ev.Type())
	se := Surface(ev.Raw())
	assert.Equal(t, uint32(5), se.SurfaceID())
	assert.Equal(t, uint32(1), se.OutputID())

	ev, err = q.Poll()
	require.NoError(t, err)
	assert.Equal(t, uint32(150), Surface(ev.Raw()).Numerator())

	_, err = q.Poll()
	assert.Equal(t, WaitTimeoutExceeded, err)
	assert.Equal(t, 0, q.Count())
}

func TestQueueResizeRecord(t *testing.T) {
	d := NewSurfaceResize(9, 400, 300)
	se := Surface(d)
	assert.Equal(t, uint32(9), se.SurfaceID())
	assert.Equal(t, int32(400), se.Width())
	assert.Equal(t, int32(300), se.Height())
}

func TestQueueFlushTypes(t *testing.T) {
	q := &Queue{}
	q.Start()
	defer q.Stop()

	q.Push(NewOutputScale(1, 2))
	q.Push(NewOutputWithdrawn(1))
	q.Push(NewSurfaceLeave(5, 1))

	assert.True(t, q.HasType(OutputWithdrawn))
	q.FlushTypes(OutputScale, OutputWithdrawn)
	assert.False(t, q.HasType(OutputWithdrawn))
	assert.Equal(t, 1, q.Count())

	ev, err := q.Poll()
	require.NoError(t, err)
	assert.Equal(t, uint32(SurfaceLeave), ev.Type())
}

func TestQueueWaitTimeout(t *testing.T) {
	q := &Queue{}
	q.Start()
	defer q.Stop()

	start := time.Now()
	_, err := q.WaitTimeout(30 * time.Millisecond)
	assert.Equal(t, WaitTimeoutExceeded, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestQueueInactivePush(t *testing.T) {
	q := &Queue{}
	q.Start()
	q.Stop()
	assert.Error(t, q.Push(NewOutputScale(1, 1)))
}

func TestQueueFreeListReuse(t *testing.T) {
	q := &Queue{}
	q.Start()
	defer q.Stop()

	for i := 0; i < 100; i++ {
		require.NoError(t, q.Push(NewOutputScale(uint32(i), 1)))
	}
	for i := 0; i < 100; i++ {
		ev, err := q.Poll()
		require.NoError(t, err)
		assert.Equal(t, uint32(i), Output(ev.Raw()).OutputID())
	}
	assert.Equal(t, 0, q.Count())
}
