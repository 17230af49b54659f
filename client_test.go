package wlscale

import (
	"os"
	"testing"

	"github.com/elliotmr/wlscale/event"
	"github.com/elliotmr/wlscale/scale"
	"github.com/elliotmr/wlscale/wlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSurface struct{}

func (nopSurface) SetBufferScale(int32) error { return nil }

func dispatchClient() *Client {
	c := &Client{
		ctx:    wlp.NewContext(nil),
		queue:  &event.Queue{},
		engine: scale.NewEngine(nil),
	}
	c.queue.Start()
	return c
}

func TestDispatchRoutesToEngine(t *testing.T) {
	c := dispatchClient()
	defer c.queue.Stop()

	_, err := c.engine.AddSurface(5, nopSurface{})
	require.NoError(t, err)

	require.NoError(t, c.queue.Push(event.NewSurfaceResize(5, 400, 300)))
	require.NoError(t, c.queue.Push(event.NewSurfaceEnter(5, 9)))
	require.NoError(t, c.queue.Push(event.NewOutputScale(9, 2)))
	require.NoError(t, c.Dispatch())

	d, ok := c.engine.Decision(5)
	require.True(t, ok)
	assert.Equal(t, int32(2), d.BufferScale)
	assert.Equal(t, int32(800), d.PixelWidth)
	assert.Equal(t, int32(600), d.PixelHeight)
	assert.False(t, d.Destination)
}

func TestDispatchOutputWithdrawal(t *testing.T) {
	c := dispatchClient()
	defer c.queue.Stop()

	_, err := c.engine.AddSurface(5, nopSurface{})
	require.NoError(t, err)

	c.queue.Push(event.NewSurfaceResize(5, 400, 300))
	c.queue.Push(event.NewSurfaceEnter(5, 9))
	c.queue.Push(event.NewOutputScale(9, 3))
	require.NoError(t, c.Dispatch())

	d, _ := c.engine.Decision(5)
	assert.Equal(t, int32(3), d.BufferScale)

	c.queue.Push(event.NewOutputWithdrawn(9))
	require.NoError(t, c.Dispatch())

	d, _ = c.engine.Decision(5)
	assert.Equal(t, int32(1), d.BufferScale)
}

func TestConnect(t *testing.T) {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Skip("no wayland session")
	}
	c := &Client{}
	require.NoError(t, c.Connect(""))
	defer c.Close()

	w, err := c.CreateWindow(640, 480)
	require.NoError(t, err)
	defer w.Destroy()

	require.NoError(t, c.Dispatch())
}
