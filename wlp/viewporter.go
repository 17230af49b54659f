package wlp

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

const (
	WpViewporterErrorViewportExists = 0 // the surface already has a viewport object associated
)

const (
	opCodeWpViewporterDestroy     = 0
	opCodeWpViewporterGetViewport = 1
)

// WpViewporterListener is empty because wp_viewporter has no events.
type WpViewporterListener interface {
}

// The global interface exposing surface cropping and scaling
// capabilities. A wp_viewport object created through it lets the
// client set the surface size independently of the buffer size.
type WpViewporter struct {
	i uint32
	l WpViewporterListener
	c *Context
}

func newWpViewporter(c *Context) Object {
	o := &WpViewporter{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wp_viewporter", 1, newWpViewporter)
}

// ID returns the wayland object identifier
func (this *WpViewporter) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *WpViewporter) Type() string {
	return "wp_viewporter"
}

func (this *WpViewporter) setListener(listener interface{}) error {
	l, ok := listener.(WpViewporterListener)
	if !ok {
		return errors.Errorf("listener must implement WpViewporter interface")
	}
	this.l = l
	return nil
}

func (this *WpViewporter) dispatch(opCode uint16, payload []byte, file *os.File) {
}

// Informs the server that the client will not be using this
// protocol object anymore. This does not affect any other objects,
// wp_viewport objects included.
func (this *WpViewporter) Destroy() error {
	if this == nil {
		return errors.New("object is nil")
	}
	this.c.mu.Lock()
	defer this.c.mu.Unlock()
	if err := this.c.writable(this.i); err != nil {
		return err
	}
	this.c.buf.Reset()
	this.c.buf.Write(hdrPad[:])
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpViewporterDestroy, this.c.buf.Len())
	return this.c.flush(nil)
}

// Instantiate an interface extension for the given wl_surface to
// crop and scale its content. If the given wl_surface already has
// a wp_viewport object associated, the viewport_exists protocol
// error is raised.
func (this *WpViewporter) GetViewport(l WpViewportListener, surface uint32) (*WpViewport, error) {
	if this == nil {
		return nil, errors.New("object is nil")
	}
	this.c.mu.Lock()
	defer this.c.mu.Unlock()
	if err := this.c.writable(this.i); err != nil {
		return nil, err
	}
	this.c.buf.Reset()
	this.c.buf.Write(hdrPad[:])
	ret := newWpViewport(this.c).(*WpViewport)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	binary.Write(this.c.buf, hostByteOrder, surface)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpViewporterGetViewport, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

const (
	WpViewportErrorBadValue    = 0 // negative or zero values in width or height
	WpViewportErrorBadSize     = 1 // destination size is not integer
	WpViewportErrorOutOfBuffer = 2 // source rectangle extends outside of the content area
	WpViewportErrorNoSurface   = 3 // the wl_surface was destroyed
)

const (
	opCodeWpViewportDestroy        = 0
	opCodeWpViewportSetSource      = 1
	opCodeWpViewportSetDestination = 2
)

// WpViewportListener is empty because wp_viewport has no events.
type WpViewportListener interface {
}

// An additional interface to a wl_surface object, which allows the
// client to specify the cropping and scaling of the surface
// contents. The source rectangle selects the buffer content to
// show, the destination size sets the surface size it is scaled
// to, in surface-local coordinates.
//
// The two requests are double-buffered state, see
// wl_surface.commit.
type WpViewport struct {
	i uint32
	l WpViewportListener
	c *Context
}

func newWpViewport(c *Context) Object {
	o := &WpViewport{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wp_viewport", 1, newWpViewport)
}

// ID returns the wayland object identifier
func (this *WpViewport) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *WpViewport) Type() string {
	return "wp_viewport"
}

func (this *WpViewport) setListener(listener interface{}) error {
	l, ok := listener.(WpViewportListener)
	if !ok {
		return errors.Errorf("listener must implement WpViewport interface")
	}
	this.l = l
	return nil
}

func (this *WpViewport) dispatch(opCode uint16, payload []byte, file *os.File) {
}

// The associated wl_surface's crop and scale state is removed. The
// change is applied on the next wl_surface.commit.
func (this *WpViewport) Destroy() error {
	if this == nil {
		return errors.New("object is nil")
	}
	this.c.mu.Lock()
	defer this.c.mu.Unlock()
	if err := this.c.writable(this.i); err != nil {
		return err
	}
	this.c.buf.Reset()
	this.c.buf.Write(hdrPad[:])
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpViewportDestroy, this.c.buf.Len())
	return this.c.flush(nil)
}

// Set the source rectangle of the associated wl_surface. The
// rectangle is specified in buffer coordinates. If all of x, y,
// width and height are -1.0, the source rectangle is unset.
func (this *WpViewport) SetSource(x float64, y float64, width float64, height float64) error {
	if this == nil {
		return errors.New("object is nil")
	}
	this.c.mu.Lock()
	defer this.c.mu.Unlock()
	if err := this.c.writable(this.i); err != nil {
		return err
	}
	this.c.buf.Reset()
	this.c.buf.Write(hdrPad[:])
	binary.Write(this.c.buf, hostByteOrder, uint32(float64ToFixed(x)))
	binary.Write(this.c.buf, hostByteOrder, uint32(float64ToFixed(y)))
	binary.Write(this.c.buf, hostByteOrder, uint32(float64ToFixed(width)))
	binary.Write(this.c.buf, hostByteOrder, uint32(float64ToFixed(height)))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpViewportSetSource, this.c.buf.Len())
	return this.c.flush(nil)
}

// Set the destination size of the associated wl_surface in
// surface-local coordinates. Setting the destination size to its
// natural size can be done by setting both width and height to -1;
// any other pair with a non-positive member raises the bad_value
// protocol error.
func (this *WpViewport) SetDestination(width int32, height int32) error {
	if this == nil {
		return errors.New("object is nil")
	}
	this.c.mu.Lock()
	defer this.c.mu.Unlock()
	if err := this.c.writable(this.i); err != nil {
		return err
	}
	this.c.buf.Reset()
	this.c.buf.Write(hdrPad[:])
	binary.Write(this.c.buf, hostByteOrder, uint32(width))
	binary.Write(this.c.buf, hostByteOrder, uint32(height))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpViewportSetDestination, this.c.buf.Len())
	return this.c.flush(nil)
}
