package wlscale

import (
	"github.com/elliotmr/wlscale/event"
	"github.com/elliotmr/wlscale/scale"
	"github.com/elliotmr/wlscale/wlp"
	"github.com/pkg/errors"
)

type buffer struct {
	*wlp.Buffer

	bound bool
	w     *Window
}

func (b *buffer) Release() {
	b.bound = false
}

// Window is a wl_surface whose backing buffers are kept in step with
// the scaling engine's decisions. Buffer sizing, buffer scale and the
// viewport destination are all driven from Dispatch; the window only
// reallocates and commits.
type Window struct {
	*wlp.Surface

	c *Client

	width  int32
	height int32

	decision    scale.Decision
	hasDecision bool

	pool          *Pool
	buffers       [2]buffer
	currentBuffer int
	pageSize      int32
}

// LogicalSize returns the window size in surface-local coordinates.
func (w *Window) LogicalSize() (int32, int32) {
	return w.width, w.height
}

// Decision returns the sizing decision currently applied to the
// window, if one has been computed yet.
func (w *Window) Decision() (scale.Decision, bool) {
	return w.decision, w.hasDecision
}

// Resize queues a logical size change. The buffer reallocation
// happens on the next Dispatch once the engine has recomputed.
func (w *Window) Resize(width, height int32) error {
	w.width = width
	w.height = height
	return w.c.queue.Push(event.NewSurfaceResize(w.Surface.ID(), width, height))
}

// decided reallocates the window's backing buffer for a changed
// decision and commits it. The engine has already issued the buffer
// scale and viewport requests; the commit applies them atomically with
// the new buffer.
func (w *Window) decided(d scale.Decision) {
	w.decision = d
	w.hasDecision = true

	pageSize := d.PixelWidth * 4 * d.PixelHeight
	if err := w.ensurePool(pageSize); err != nil {
		w.c.warnf("window %d: %v", w.Surface.ID(), err)
		return
	}

	next := 1 - w.currentBuffer
	b := &w.buffers[next]
	if b.bound {
		b.Destroy()
		b.bound = false
	}
	var err error
	b.Buffer, err = w.pool.shm.CreateBuffer(b, int32(next)*w.pageSize,
		d.PixelWidth, d.PixelHeight, d.PixelWidth*4, wlp.ShmFormatXrgb8888)
	if err != nil {
		w.c.warnf("window %d: unable to create buffer: %v", w.Surface.ID(), err)
		return
	}
	b.bound = true
	w.currentBuffer = next

	w.Attach(b.Buffer.ID(), 0, 0)
	w.DamageBuffer(0, 0, d.PixelWidth, d.PixelHeight)
	w.Commit()
}

// ensurePool guarantees room for two pages of the given size.
func (w *Window) ensurePool(pageSize int32) error {
	if w.pool == nil {
		pool, err := w.c.CreateMemoryPool(pageSize * 2)
		if err != nil {
			return errors.Wrap(err, "unable to create memory pool")
		}
		w.pool = pool
		w.pageSize = pageSize
		return nil
	}
	if pageSize <= w.pageSize {
		return nil
	}
	// Buffers at old offsets stay valid until destroyed; only the
	// page stride for new allocations changes.
	if err := w.pool.Grow(pageSize * 2); err != nil {
		return errors.Wrap(err, "unable to grow memory pool")
	}
	w.pageSize = pageSize
	return nil
}

// Pixels returns the mapped bytes of the buffer currently attached,
// laid out as PixelWidth*4 byte rows.
func (w *Window) Pixels() []byte {
	if w.pool == nil || !w.buffers[w.currentBuffer].bound {
		return nil
	}
	off := int32(w.currentBuffer) * w.pageSize
	size := w.decision.PixelWidth * 4 * w.decision.PixelHeight
	return w.pool.Data[off : off+size]
}

// Destroy tears down the scaling add-ons, buffers, pool and surface.
func (w *Window) Destroy() error {
	err := w.c.engine.DestroySurface(w.Surface.ID())
	for i := range w.buffers {
		if w.buffers[i].bound {
			if berr := w.buffers[i].Buffer.Destroy(); err == nil {
				err = berr
			}
			w.buffers[i].bound = false
		}
	}
	if w.pool != nil {
		if perr := w.pool.Close(); err == nil {
			err = perr
		}
		w.pool = nil
	}
	if serr := w.Surface.Destroy(); err == nil {
		err = serr
	}
	for i, win := range w.c.Windows {
		if win == w {
			w.c.Windows = append(w.c.Windows[:i], w.c.Windows[i+1:]...)
			break
		}
	}
	return err
}

// Enter implements wlp.SurfaceListener. It runs on the read loop and
// is queued for the engine.
func (w *Window) Enter(output uint32) {
	w.c.queue.Push(event.NewSurfaceEnter(w.Surface.ID(), output))
}

// Leave implements wlp.SurfaceListener.
func (w *Window) Leave(output uint32) {
	w.c.queue.Push(event.NewSurfaceLeave(w.Surface.ID(), output))
}
