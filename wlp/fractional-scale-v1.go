package wlp

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

const (
	// FractionalScaleDenominator is the fixed denominator of every
	// preferred_scale numerator sent by the compositor.
	FractionalScaleDenominator = 120
)

const (
	WpFractionalScaleManagerV1ErrorFractionalScaleExists = 0 // the surface already has a fractional_scale object associated
)

const (
	opCodeWpFractionalScaleManagerV1Destroy            = 0
	opCodeWpFractionalScaleManagerV1GetFractionalScale = 1
)

// WpFractionalScaleManagerV1Listener is empty because
// wp_fractional_scale_manager_v1 has no events.
type WpFractionalScaleManagerV1Listener interface {
}

// A global interface for requesting surfaces to use fractional
// scales. Fractional scale add-on objects created through it let
// the compositor suggest a non-integer scale per surface.
type WpFractionalScaleManagerV1 struct {
	i uint32
	l WpFractionalScaleManagerV1Listener
	c *Context
}

func newWpFractionalScaleManagerV1(c *Context) Object {
	o := &WpFractionalScaleManagerV1{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wp_fractional_scale_manager_v1", 1, newWpFractionalScaleManagerV1)
}

// ID returns the wayland object identifier
func (this *WpFractionalScaleManagerV1) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *WpFractionalScaleManagerV1) Type() string {
	return "wp_fractional_scale_manager_v1"
}

func (this *WpFractionalScaleManagerV1) setListener(listener interface{}) error {
	l, ok := listener.(WpFractionalScaleManagerV1Listener)
	if !ok {
		return errors.Errorf("listener must implement WpFractionalScaleManagerV1 interface")
	}
	this.l = l
	return nil
}

func (this *WpFractionalScaleManagerV1) dispatch(opCode uint16, payload []byte, file *os.File) {
}

// Informs the server that the client will not be using this
// protocol object anymore. This does not affect any other objects,
// wp_fractional_scale_v1 objects included.
func (this *WpFractionalScaleManagerV1) Destroy() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpFractionalScaleManagerV1Destroy, this.c.buf.Len())
	return this.c.flush(nil)
}

// Create an add-on object for the wl_surface to let the compositor
// request fractional scales. If the given wl_surface already has a
// wp_fractional_scale_v1 object associated, the
// fractional_scale_exists protocol error is raised.
func (this *WpFractionalScaleManagerV1) GetFractionalScale(l WpFractionalScaleV1Listener, surface uint32) (*WpFractionalScaleV1, error) {
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
	ret := newWpFractionalScaleV1(this.c).(*WpFractionalScaleV1)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	binary.Write(this.c.buf, hostByteOrder, surface)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpFractionalScaleManagerV1GetFractionalScale, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

const (
	opCodeWpFractionalScaleV1PreferredScale = 0
)

const (
	opCodeWpFractionalScaleV1Destroy = 0
)

// WpFractionalScaleV1 Events
//
// PreferredScale
// Notification of a new preferred scale for this surface that the
// compositor suggests that the client should use. The sent scale
// is the numerator of a fraction with a denominator of 120.
type WpFractionalScaleV1Listener interface {
	PreferredScale(scale uint32)
}

// An additional interface to a wl_surface object which allows the
// compositor to inform the client of the preferred scale.
type WpFractionalScaleV1 struct {
	i uint32
	l WpFractionalScaleV1Listener
	c *Context
}

func newWpFractionalScaleV1(c *Context) Object {
	o := &WpFractionalScaleV1{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wp_fractional_scale_v1", 1, newWpFractionalScaleV1)
}

// ID returns the wayland object identifier
func (this *WpFractionalScaleV1) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *WpFractionalScaleV1) Type() string {
	return "wp_fractional_scale_v1"
}

func (this *WpFractionalScaleV1) setListener(listener interface{}) error {
	l, ok := listener.(WpFractionalScaleV1Listener)
	if !ok {
		return errors.Errorf("listener must implement WpFractionalScaleV1 interface")
	}
	this.l = l
	return nil
}

func (this *WpFractionalScaleV1) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeWpFractionalScaleV1PreferredScale:
		scale := hostByteOrder.Uint32(payload[0:4])
		this.l.PreferredScale(scale)
	}
}

// Destroy the fractional scale object. When this object is
// destroyed, preferred_scale events will no longer be sent.
func (this *WpFractionalScaleV1) Destroy() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeWpFractionalScaleV1Destroy, this.c.buf.Len())
	return this.c.flush(nil)
}
