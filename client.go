// Package wlscale negotiates client-side display scaling with a
// wayland compositor. It connects over the wayland socket, tracks
// per-output integer scales and per-surface fractional scales, and
// keeps each window's buffer size, buffer scale and viewport
// destination consistent with the compositor's preferences.
package wlscale

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/elliotmr/wlscale/event"
	"github.com/elliotmr/wlscale/scale"
	"github.com/elliotmr/wlscale/wlp"
	"github.com/pkg/errors"
)

type Client struct {
	ctx        *wlp.Context
	compositor *wlp.Compositor
	shm        *wlp.Shm
	fractional *wlp.WpFractionalScaleManagerV1
	viewporter *wlp.WpViewporter

	queue  *event.Queue
	engine *scale.Engine

	formats map[uint32]struct{}

	Screens []*Screen
	Windows []*Window
}

type cbListener struct {
	*sync.Cond
	Data uint32
}

func newCallbackListener() *cbListener {
	return &cbListener{Cond: sync.NewCond(&sync.Mutex{})}
}

func (cbl *cbListener) Done(callbackData uint32) {
	cbl.Data = callbackData
	cbl.Broadcast()
}

// Implements ShmListener
func (c *Client) Format(format uint32) {
	c.formats[format] = struct{}{}
}

// Connect dials the wayland socket, binds the globals relevant to
// scaling and starts the event queue. An empty sockName falls back to
// WAYLAND_DISPLAY and then to "wayland-0"; relative names are resolved
// under XDG_RUNTIME_DIR.
func (c *Client) Connect(sockName string) error {
	if sockName == "" {
		sockName = os.Getenv("WAYLAND_DISPLAY")
	}
	if sockName == "" {
		sockName = "wayland-0"
	}

	pathIsAbsolute := sockName[0] == '/'
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if !pathIsAbsolute && runtimeDir == "" {
		return errors.New("XDG_RUNTIME_DIR is not set in environment")
	}

	absSockName := filepath.Join(runtimeDir, sockName)
	addr, err := net.ResolveUnixAddr("unix", absSockName)
	if err != nil {
		return errors.Wrapf(err, "unable to resolve unix socket address (%s)", absSockName)
	}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return errors.Wrapf(err, "unable to connect to wayland server at (%s)", absSockName)
	}

	c.formats = make(map[uint32]struct{})
	c.queue = &event.Queue{}
	c.queue.Start()

	c.ctx = wlp.NewContext(conn)
	c.ctx.Start()
	err = c.Roundtrip()
	if err != nil {
		return errors.Wrap(err, "starting context failed")
	}

	cmp, err := c.ctx.BindGlobal("wl_compositor", c)
	if err != nil {
		return errors.Wrap(err, "unable to bind wl_compositor")
	}
	c.compositor = cmp.(*wlp.Compositor)

	shm, err := c.ctx.BindGlobal("wl_shm", c)
	if err != nil {
		return errors.Wrap(err, "unable to bind wl_shm")
	}
	c.shm = shm.(*wlp.Shm)

	for i := 0; i < c.ctx.NumGlobals("wl_output"); i++ {
		scr := &Screen{
			Mu:     &sync.RWMutex{},
			Factor: 1,
			q:      c.queue,
		}
		scr.name, err = c.ctx.GlobalName("wl_output", i)
		if err != nil {
			return errors.Wrap(err, "unable to resolve wl_output name")
		}
		output, err := c.ctx.BindGlobalIndex("wl_output", scr, i)
		if err != nil {
			return errors.Wrap(err, "unable to bind wl_output")
		}
		scr.output = output.(*wlp.Output)
		c.Screens = append(c.Screens, scr)
	}

	binder := scale.NewBinder()
	if c.ctx.NumGlobals("wp_fractional_scale_manager_v1") > 0 {
		fsm, err := c.ctx.BindGlobal("wp_fractional_scale_manager_v1", c)
		if err != nil {
			return errors.Wrap(err, "unable to bind wp_fractional_scale_manager_v1")
		}
		c.fractional = fsm.(*wlp.WpFractionalScaleManagerV1)
		binder.BindFractionalScaleManager(&fractionalManager{m: c.fractional, q: c.queue})
	}
	if c.ctx.NumGlobals("wp_viewporter") > 0 {
		vp, err := c.ctx.BindGlobal("wp_viewporter", c)
		if err != nil {
			return errors.Wrap(err, "unable to bind wp_viewporter")
		}
		c.viewporter = vp.(*wlp.WpViewporter)
		binder.BindViewporter(&viewporterAdapter{v: c.viewporter})
	}

	c.engine = scale.NewEngine(binder)
	c.engine.Warnf = log.Printf
	c.engine.Notify = c.decided

	c.ctx.NotifyRemove(c.globalRemoved)

	return c.Roundtrip()
}

// Roundtrip is a convenience wrapper around Sync. It will sleep the
// calling go-routine until all pending wayland commands are processed.
func (c *Client) Roundtrip() error {
	cbl := newCallbackListener()
	cbl.L.Lock()
	_, err := c.ctx.Display.Sync(cbl)
	if err != nil {
		return errors.Wrap(err, "unable to create display sync")
	}
	cbl.Wait()
	return c.ctx.Err
}

// Engine exposes the scaling engine, primarily so callers can read
// decisions directly.
func (c *Client) Engine() *scale.Engine {
	return c.engine
}

func (c *Client) warnf(format string, args ...interface{}) {
	if c.engine != nil && c.engine.Warnf != nil {
		c.engine.Warnf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// globalRemoved runs on the read loop whenever the server withdraws a
// global. Output withdrawals are funneled through the queue so the
// engine only ever sees them from the dispatch point.
func (c *Client) globalRemoved(iface string, name uint32) {
	if iface != "wl_output" {
		return
	}
	for _, scr := range c.Screens {
		if scr.name == name {
			c.queue.Push(event.NewOutputWithdrawn(scr.output.ID()))
			return
		}
	}
}

// decided implements scale.NotifyFunc, routing a changed decision to
// the owning window.
func (c *Client) decided(surface uint32, d scale.Decision) {
	for _, w := range c.Windows {
		if w.Surface.ID() == surface {
			w.decided(d)
			return
		}
	}
}

// Dispatch drains the event queue into the scaling engine. It returns
// once the queue is empty. All engine access happens here, so Dispatch
// must be called from a single goroutine.
func (c *Client) Dispatch() error {
	for {
		ev, err := c.queue.Poll()
		if err == event.WaitTimeoutExceeded {
			return c.ctx.Err
		}
		if err != nil {
			return err
		}
		c.deliver(ev)
	}
}

// WaitDispatch blocks up to timeout for at least one event, then
// drains the rest of the queue. A negative timeout waits forever.
func (c *Client) WaitDispatch(timeout time.Duration) error {
	ev, err := c.queue.WaitTimeout(timeout)
	if err == event.WaitTimeoutExceeded {
		return c.ctx.Err
	}
	if err != nil {
		return err
	}
	c.deliver(ev)
	return c.Dispatch()
}

func (c *Client) deliver(ev event.Event) {
	switch ev.Type() {
	case event.OutputScale:
		oe := event.Output(ev.Raw())
		c.engine.AdvertiseScale(oe.OutputID(), oe.Factor())
	case event.OutputWithdrawn:
		oe := event.Output(ev.Raw())
		c.engine.WithdrawOutput(oe.OutputID())
	case event.SurfaceEnter:
		se := event.Surface(ev.Raw())
		c.engine.Enter(se.SurfaceID(), se.OutputID())
	case event.SurfaceLeave:
		se := event.Surface(ev.Raw())
		c.engine.Leave(se.SurfaceID(), se.OutputID())
	case event.SurfaceResize:
		se := event.Surface(ev.Raw())
		c.engine.Resize(se.SurfaceID(), se.Width(), se.Height())
	case event.PreferredScale:
		se := event.Surface(ev.Raw())
		c.engine.PreferredScale(se.SurfaceID(), se.Numerator())
	}
}

// CreateWindow creates a surface with the given logical size and
// registers it with the scaling engine. The first buffer is allocated
// once the initial decision arrives through Dispatch.
func (c *Client) CreateWindow(width, height int32) (*Window, error) {
	var err error

	w := &Window{c: c, width: width, height: height}

	w.Surface, err = c.compositor.CreateSurface(w)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create surface")
	}
	_, err = c.engine.AddSurface(w.Surface.ID(), w.Surface)
	if err != nil {
		w.Surface.Destroy()
		return nil, errors.Wrap(err, "unable to register surface for scaling")
	}

	c.Windows = append(c.Windows, w)
	err = c.queue.Push(event.NewSurfaceResize(w.Surface.ID(), width, height))
	if err != nil {
		return nil, errors.Wrap(err, "unable to queue initial size")
	}
	return w, c.Roundtrip()
}

// Close shuts down the event queue. Windows should be destroyed first.
func (c *Client) Close() {
	c.queue.Stop()
}

// fractionalManager adapts wp_fractional_scale_manager_v1 to the
// engine's manager interface. Preferred-scale events arrive on the
// read loop and are queued rather than delivered directly, keeping the
// engine single-threaded.
type fractionalManager struct {
	m *wlp.WpFractionalScaleManagerV1
	q *event.Queue
}

func (fm *fractionalManager) FractionalScale(surface uint32) (scale.FractionalHandle, error) {
	h, err := fm.m.GetFractionalScale(&fractionalListener{q: fm.q, surface: surface}, surface)
	if err != nil {
		return nil, err
	}
	return h, nil
}

type fractionalListener struct {
	q       *event.Queue
	surface uint32
}

func (fl *fractionalListener) PreferredScale(numerator uint32) {
	fl.q.Push(event.NewPreferredScale(fl.surface, numerator))
}

// viewporterAdapter adapts wp_viewporter to the engine's viewporter
// interface.
type viewporterAdapter struct {
	v *wlp.WpViewporter
}

func (va *viewporterAdapter) Viewport(surface uint32) (scale.ViewportHandle, error) {
	h, err := va.v.GetViewport(nil, surface)
	if err != nil {
		return nil, err
	}
	return h, nil
}
