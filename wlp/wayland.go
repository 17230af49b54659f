package wlp

import (
	"encoding/binary"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// hdrPad reserves space for the 8-byte message header, which is
// back-filled once the full request length is known.
var hdrPad [8]byte

const (
	DisplayErrorInvalidObject = 0 // server couldn't find object
	DisplayErrorInvalidMethod = 1 // method doesn't exist on the specified interface
	DisplayErrorNoMemory      = 2 // server is out of memory
)

const (
	opCodeDisplayError    = 0
	opCodeDisplayDeleteID = 1
)

const (
	opCodeDisplaySync        = 0
	opCodeDisplayGetRegistry = 1
)

// Display Events
//
// Error
// The error event is sent out when a fatal (non-recoverable)
// error has occurred. The object_id argument is the object where
// the error occurred, the code identifies the error and is defined
// by the object interface.
//
// DeleteID
// Used internally by the object ID management logic. When the
// client receives this event, it knows it can safely reuse the
// object ID.
type DisplayListener interface {
	Error(objectID uint32, code uint32, message string)
	DeleteID(id uint32)
}

// The core global object. This is a special singleton object. It
// is used for internal Wayland protocol features.
type Display struct {
	i uint32
	l DisplayListener
	c *Context
}

func newDisplay(c *Context) Object {
	o := &Display{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_display", 1, newDisplay)
}

// ID returns the wayland object identifier
func (this *Display) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Display) Type() string {
	return "wl_display"
}

func (this *Display) setListener(listener interface{}) error {
	l, ok := listener.(DisplayListener)
	if !ok {
		return errors.Errorf("listener must implement Display interface")
	}
	this.l = l
	return nil
}

func (this *Display) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeDisplayError:
		objectID := hostByteOrder.Uint32(payload[0:4])
		code := hostByteOrder.Uint32(payload[4:8])
		l := int(hostByteOrder.Uint32(payload[8:12]))
		message := string(payload[12 : 12+l-1])
		this.l.Error(objectID, code, message)
	case opCodeDisplayDeleteID:
		id := hostByteOrder.Uint32(payload[0:4])
		this.l.DeleteID(id)
	}
}

// The sync request asks the server to emit the 'done' event on the
// returned wl_callback object. Since requests are handled in-order
// and events are delivered in-order, this can be used as a barrier
// to ensure all previous requests and the resulting events have
// been handled.
//
// The object returned by this request will be destroyed by the
// compositor after the callback is fired and as such the client
// must not attempt to use it after that point.
func (this *Display) Sync(l CallbackListener) (*Callback, error) {
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
	ret := newCallback(this.c).(*Callback)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeDisplaySync, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

// This request creates a registry object that allows the client
// to list and bind the global objects available from the
// compositor.
func (this *Display) GetRegistry(l RegistryListener) (*Registry, error) {
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
	ret := newRegistry(this.c).(*Registry)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeDisplayGetRegistry, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

const (
	opCodeRegistryGlobal       = 0
	opCodeRegistryGlobalRemove = 1
)

const (
	opCodeRegistryBind = 0
)

// Registry Events
//
// Global
// Notify the client of global objects. The event notifies the
// client that a global object with the given name is now
// available, and it implements the given version of the given
// interface.
//
// GlobalRemove
// Notify the client of removed global objects. If the client
// bound to the global using the bind request, the client should
// now destroy that object.
type RegistryListener interface {
	Global(name uint32, iface string, version uint32)
	GlobalRemove(name uint32)
}

// The singleton global registry object. The server has a number of
// global objects that are available to all clients. Globals come
// and go as a result of device or monitor hotplugs, and the
// registry sends out global and global_remove events to keep the
// client up to date with the changes.
type Registry struct {
	i uint32
	l RegistryListener
	c *Context
}

func newRegistry(c *Context) Object {
	o := &Registry{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_registry", 1, newRegistry)
}

// ID returns the wayland object identifier
func (this *Registry) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Registry) Type() string {
	return "wl_registry"
}

func (this *Registry) setListener(listener interface{}) error {
	l, ok := listener.(RegistryListener)
	if !ok {
		return errors.Errorf("listener must implement Registry interface")
	}
	this.l = l
	return nil
}

func (this *Registry) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeRegistryGlobal:
		name := hostByteOrder.Uint32(payload[0:4])
		l := int(hostByteOrder.Uint32(payload[4:8]))
		iface := string(payload[8 : 8+l-1])
		off := l
		if off%4 != 0 {
			off += 4 - off%4
		}
		version := hostByteOrder.Uint32(payload[8+off : 12+off])
		this.l.Global(name, iface, version)
	case opCodeRegistryGlobalRemove:
		name := hostByteOrder.Uint32(payload[0:4])
		this.l.GlobalRemove(name)
	}
}

// Binds a new, client-created object to the server using the
// specified name as the identifier.
func (this *Registry) Bind(name uint32, iface string, version uint32, id uint32) error {
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
	binary.Write(this.c.buf, hostByteOrder, name)
	binary.Write(this.c.buf, hostByteOrder, uint32(len(iface)+1))
	this.c.buf.WriteString(iface)
	this.c.buf.WriteByte(0)
	for this.c.buf.Len()%4 != 0 {
		this.c.buf.WriteByte(0)
	}
	binary.Write(this.c.buf, hostByteOrder, version)
	binary.Write(this.c.buf, hostByteOrder, id)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeRegistryBind, this.c.buf.Len())
	return this.c.flush(nil)
}

const (
	opCodeCallbackDone = 0
)

// Callback Events
//
// Done
// Notify the client when the related request is done.
type CallbackListener interface {
	Done(callbackData uint32)
}

// Clients can handle the 'done' event to get notified when
// the related request is done.
type Callback struct {
	i uint32
	l CallbackListener
	c *Context
}

func newCallback(c *Context) Object {
	o := &Callback{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_callback", 1, newCallback)
}

// ID returns the wayland object identifier
func (this *Callback) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Callback) Type() string {
	return "wl_callback"
}

func (this *Callback) setListener(listener interface{}) error {
	l, ok := listener.(CallbackListener)
	if !ok {
		return errors.Errorf("listener must implement Callback interface")
	}
	this.l = l
	return nil
}

func (this *Callback) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeCallbackDone:
		callbackData := hostByteOrder.Uint32(payload[0:4])
		this.l.Done(callbackData)
	}
}

const (
	opCodeCompositorCreateSurface = 0
	opCodeCompositorCreateRegion  = 1
)

// CompositorListener is empty because wl_compositor has no events.
type CompositorListener interface {
}

// A compositor. This object is a singleton global. The compositor
// is in charge of combining the contents of multiple surfaces into
// one displayable output.
type Compositor struct {
	i uint32
	l CompositorListener
	c *Context
}

func newCompositor(c *Context) Object {
	o := &Compositor{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_compositor", 4, newCompositor)
}

// ID returns the wayland object identifier
func (this *Compositor) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Compositor) Type() string {
	return "wl_compositor"
}

func (this *Compositor) setListener(listener interface{}) error {
	l, ok := listener.(CompositorListener)
	if !ok {
		return errors.Errorf("listener must implement Compositor interface")
	}
	this.l = l
	return nil
}

func (this *Compositor) dispatch(opCode uint16, payload []byte, file *os.File) {
}

// Ask the compositor to create a new surface.
func (this *Compositor) CreateSurface(l SurfaceListener) (*Surface, error) {
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
	ret := newSurface(this.c).(*Surface)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeCompositorCreateSurface, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

// Ask the compositor to create a new region.
func (this *Compositor) CreateRegion(l RegionListener) (*Region, error) {
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
	ret := newRegion(this.c).(*Region)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeCompositorCreateRegion, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

const (
	opCodeRegionDestroy  = 0
	opCodeRegionAdd      = 1
	opCodeRegionSubtract = 2
)

// RegionListener is empty because wl_region has no events.
type RegionListener interface {
}

// A region object describes an area. Region objects are used to
// describe the opaque and input regions of a surface.
type Region struct {
	i uint32
	l RegionListener
	c *Context
}

func newRegion(c *Context) Object {
	o := &Region{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_region", 1, newRegion)
}

// ID returns the wayland object identifier
func (this *Region) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Region) Type() string {
	return "wl_region"
}

func (this *Region) setListener(listener interface{}) error {
	l, ok := listener.(RegionListener)
	if !ok {
		return errors.Errorf("listener must implement Region interface")
	}
	this.l = l
	return nil
}

func (this *Region) dispatch(opCode uint16, payload []byte, file *os.File) {
}

// Destroy the region. This will invalidate the object ID.
func (this *Region) Destroy() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeRegionDestroy, this.c.buf.Len())
	return this.c.flush(nil)
}

// Add the specified rectangle to the region.
func (this *Region) Add(x int32, y int32, width int32, height int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, uint32(x))
	binary.Write(this.c.buf, hostByteOrder, uint32(y))
	binary.Write(this.c.buf, hostByteOrder, uint32(width))
	binary.Write(this.c.buf, hostByteOrder, uint32(height))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeRegionAdd, this.c.buf.Len())
	return this.c.flush(nil)
}

// Subtract the specified rectangle from the region.
func (this *Region) Subtract(x int32, y int32, width int32, height int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, uint32(x))
	binary.Write(this.c.buf, hostByteOrder, uint32(y))
	binary.Write(this.c.buf, hostByteOrder, uint32(width))
	binary.Write(this.c.buf, hostByteOrder, uint32(height))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeRegionSubtract, this.c.buf.Len())
	return this.c.flush(nil)
}

const (
	opCodeSurfaceEnter = 0
	opCodeSurfaceLeave = 1
)

const (
	opCodeSurfaceDestroy            = 0
	opCodeSurfaceAttach             = 1
	opCodeSurfaceDamage             = 2
	opCodeSurfaceFrame              = 3
	opCodeSurfaceSetOpaqueRegion    = 4
	opCodeSurfaceSetInputRegion     = 5
	opCodeSurfaceCommit             = 6
	opCodeSurfaceSetBufferTransform = 7
	opCodeSurfaceSetBufferScale     = 8
	opCodeSurfaceDamageBuffer       = 9
)

// Surface Events
//
// Enter
// This is emitted whenever a surface's creation, movement, or
// resizing results in some part of it being within the scanout
// region of an output. Note that a surface may be overlapping
// with zero or more outputs.
//
// Leave
// This is emitted whenever a surface's creation, movement, or
// resizing results in it no longer having any part of it within
// the scanout region of an output.
type SurfaceListener interface {
	Enter(output uint32)
	Leave(output uint32)
}

// A surface is a rectangular area that is displayed on the screen.
// It has a location, size and pixel contents.
//
// The size of a surface (and relative positions on it) is described
// in surface-local coordinates, which may differ from the buffer
// coordinates of the pixel content, in case a buffer_transform
// or a buffer_scale is used.
type Surface struct {
	i uint32
	l SurfaceListener
	c *Context
}

func newSurface(c *Context) Object {
	o := &Surface{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_surface", 4, newSurface)
}

// ID returns the wayland object identifier
func (this *Surface) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Surface) Type() string {
	return "wl_surface"
}

func (this *Surface) setListener(listener interface{}) error {
	l, ok := listener.(SurfaceListener)
	if !ok {
		return errors.Errorf("listener must implement Surface interface")
	}
	this.l = l
	return nil
}

func (this *Surface) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeSurfaceEnter:
		output := hostByteOrder.Uint32(payload[0:4])
		this.l.Enter(output)
	case opCodeSurfaceLeave:
		output := hostByteOrder.Uint32(payload[0:4])
		this.l.Leave(output)
	}
}

// Deletes the surface and invalidates its object ID.
func (this *Surface) Destroy() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceDestroy, this.c.buf.Len())
	return this.c.flush(nil)
}

// Set a buffer as the content of this surface.
//
// The new size of the surface is calculated based on the buffer
// size transformed by the inverse buffer_transform and the
// inverse buffer_scale. This means that the supplied buffer
// must be an integer multiple of the buffer_scale.
//
// Surface contents are double-buffered state, see wl_surface.commit.
func (this *Surface) Attach(buffer uint32, x int32, y int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, buffer)
	binary.Write(this.c.buf, hostByteOrder, uint32(x))
	binary.Write(this.c.buf, hostByteOrder, uint32(y))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceAttach, this.c.buf.Len())
	return this.c.flush(nil)
}

// This request is used to describe the regions where the pending
// buffer is different from the current surface contents, and where
// the surface therefore needs to be repainted. The damage
// rectangle is specified in surface-local coordinates.
//
// Damage is double-buffered state, see wl_surface.commit.
func (this *Surface) Damage(x int32, y int32, width int32, height int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, uint32(x))
	binary.Write(this.c.buf, hostByteOrder, uint32(y))
	binary.Write(this.c.buf, hostByteOrder, uint32(width))
	binary.Write(this.c.buf, hostByteOrder, uint32(height))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceDamage, this.c.buf.Len())
	return this.c.flush(nil)
}

// Request a notification when it is a good time to start drawing a
// new frame, by creating a frame callback. This is useful for
// throttling redrawing operations, and driving animations.
//
// The frame request will take effect on the next wl_surface.commit.
// The notification will only be posted for one frame unless
// requested again.
func (this *Surface) Frame(l CallbackListener) (*Callback, error) {
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
	ret := newCallback(this.c).(*Callback)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceFrame, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

// This request sets the region of the surface that contains opaque
// content. The opaque region is an optimization hint for the
// compositor. A NULL (zero) wl_region causes the pending opaque
// region to be set to empty.
//
// Opaque region is double-buffered state, see wl_surface.commit.
func (this *Surface) SetOpaqueRegion(region uint32) error {
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
	binary.Write(this.c.buf, hostByteOrder, region)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceSetOpaqueRegion, this.c.buf.Len())
	return this.c.flush(nil)
}

// This request sets the region of the surface that can receive
// pointer and touch events. A NULL (zero) wl_region causes the
// input region to be set to infinite.
//
// Input region is double-buffered state, see wl_surface.commit.
func (this *Surface) SetInputRegion(region uint32) error {
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
	binary.Write(this.c.buf, hostByteOrder, region)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceSetInputRegion, this.c.buf.Len())
	return this.c.flush(nil)
}

// Surface state (input, opaque, and damage regions, attached
// buffers, etc.) is double-buffered. Protocol requests modify the
// pending state, as opposed to the current state in use by the
// compositor. A commit request atomically applies all pending
// state, replacing the current state.
func (this *Surface) Commit() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceCommit, this.c.buf.Len())
	return this.c.flush(nil)
}

// This request sets an optional transformation on how the
// compositor interprets the contents of the buffer attached to the
// surface. The accepted values for the transform parameter are the
// values for wl_output.transform.
//
// Buffer transform is double-buffered state, see wl_surface.commit.
func (this *Surface) SetBufferTransform(transform int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, uint32(transform))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceSetBufferTransform, this.c.buf.Len())
	return this.c.flush(nil)
}

// This request sets an optional scaling factor on how the
// compositor interprets the contents of the buffer attached to the
// window. A newly created surface has its buffer scale set to 1.
//
// Note that if the scale is larger than 1, then you have to attach
// a buffer that is larger (by a factor of scale in each dimension)
// than the desired surface size.
//
// If scale is not positive the invalid_scale protocol error is
// raised.
//
// Buffer scale is double-buffered state, see wl_surface.commit.
func (this *Surface) SetBufferScale(scale int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, uint32(scale))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceSetBufferScale, this.c.buf.Len())
	return this.c.flush(nil)
}

// This request is used to describe the regions where the pending
// buffer is different from the current surface contents, in buffer
// coordinates. It is the preferred alternative to wl_surface.damage
// when a buffer_scale or buffer_transform is in use.
//
// Damage is double-buffered state, see wl_surface.commit.
func (this *Surface) DamageBuffer(x int32, y int32, width int32, height int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, uint32(x))
	binary.Write(this.c.buf, hostByteOrder, uint32(y))
	binary.Write(this.c.buf, hostByteOrder, uint32(width))
	binary.Write(this.c.buf, hostByteOrder, uint32(height))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeSurfaceDamageBuffer, this.c.buf.Len())
	return this.c.flush(nil)
}

const (
	OutputSubpixelUnknown       = 0
	OutputSubpixelNone          = 1
	OutputSubpixelHorizontalRgb = 2
	OutputSubpixelHorizontalBgr = 3
	OutputSubpixelVerticalRgb   = 4
	OutputSubpixelVerticalBgr   = 5
)

const (
	OutputTransformNormal     = 0
	OutputTransform90         = 1
	OutputTransform180        = 2
	OutputTransform270        = 3
	OutputTransformFlipped    = 4
	OutputTransformFlipped90  = 5
	OutputTransformFlipped180 = 6
	OutputTransformFlipped270 = 7
)

const (
	OutputModeCurrent   = 0x1 // indicates this is the current mode
	OutputModePreferred = 0x2 // indicates this is the preferred mode
)

const (
	opCodeOutputGeometry = 0
	opCodeOutputMode     = 1
	opCodeOutputDone     = 2
	opCodeOutputScale    = 3
)

const (
	opCodeOutputRelease = 0
)

// Output Events
//
// Geometry
// The geometry event describes geometric properties of the output.
// The event is sent when binding to the output object and whenever
// any of the properties change.
//
// Mode
// The mode event describes an available mode for the output.
//
// Done
// This event is sent after all other properties have been sent
// after binding to the output object and after any other property
// changes done after that. This allows changes to the output
// properties to be seen as atomic, even if they happen via
// multiple events.
//
// Scale
// This event contains scaling geometry information that is not in
// the geometry event. It may be sent after binding the output
// object or if the output scale changes later. If it is not sent,
// the client should assume a scale of 1. A scale larger than 1
// means that the compositor will automatically scale surface
// buffers by this amount when rendering.
type OutputListener interface {
	Geometry(x int32, y int32, physicalWidth int32, physicalHeight int32, subpixel int32, make string, model string, transform int32)
	Mode(flags uint32, width int32, height int32, refresh int32)
	Done()
	Scale(factor int32)
}

// An output describes part of the compositor geometry. The
// compositor works in the 'compositor coordinate system' and an
// output corresponds to a rectangular area in that space that is
// actually visible. This typically corresponds to a monitor that
// displays part of the compositor space.
type Output struct {
	i uint32
	l OutputListener
	c *Context
}

func newOutput(c *Context) Object {
	o := &Output{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_output", 3, newOutput)
}

// ID returns the wayland object identifier
func (this *Output) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Output) Type() string {
	return "wl_output"
}

func (this *Output) setListener(listener interface{}) error {
	l, ok := listener.(OutputListener)
	if !ok {
		return errors.Errorf("listener must implement Output interface")
	}
	this.l = l
	return nil
}

func (this *Output) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeOutputGeometry:
		x := int32(hostByteOrder.Uint32(payload[0:4]))
		y := int32(hostByteOrder.Uint32(payload[4:8]))
		physicalWidth := int32(hostByteOrder.Uint32(payload[8:12]))
		physicalHeight := int32(hostByteOrder.Uint32(payload[12:16]))
		subpixel := int32(hostByteOrder.Uint32(payload[16:20]))
		l := int(hostByteOrder.Uint32(payload[20:24]))
		make := string(payload[24 : 24+l-1])
		off := l
		if off%4 != 0 {
			off += 4 - off%4
		}
		l = int(hostByteOrder.Uint32(payload[24+off : 28+off]))
		model := string(payload[28+off : 28+off+l-1])
		off += l
		if off%4 != 0 {
			off += 4 - off%4
		}
		transform := int32(hostByteOrder.Uint32(payload[28+off : 32+off]))
		this.l.Geometry(x, y, physicalWidth, physicalHeight, subpixel, make, model, transform)
	case opCodeOutputMode:
		flags := hostByteOrder.Uint32(payload[0:4])
		width := int32(hostByteOrder.Uint32(payload[4:8]))
		height := int32(hostByteOrder.Uint32(payload[8:12]))
		refresh := int32(hostByteOrder.Uint32(payload[12:16]))
		this.l.Mode(flags, width, height, refresh)
	case opCodeOutputDone:
		this.l.Done()
	case opCodeOutputScale:
		factor := int32(hostByteOrder.Uint32(payload[0:4]))
		this.l.Scale(factor)
	}
}

// Using this request a client can tell the server that it is not
// going to use the output object anymore.
func (this *Output) Release() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeOutputRelease, this.c.buf.Len())
	return this.c.flush(nil)
}

const (
	ShmErrorInvalidFormat = 0 // buffer format is not known
	ShmErrorInvalidStride = 1 // invalid size or stride during pool or buffer creation
	ShmErrorInvalidFd     = 2 // mmapping the file descriptor failed
)

const (
	ShmFormatArgb8888 = 0 // 32-bit ARGB format, [31:0] A:R:G:B 8:8:8:8 little endian
	ShmFormatXrgb8888 = 1 // 32-bit RGB format, [31:0] x:R:G:B 8:8:8:8 little endian
)

const (
	opCodeShmFormat = 0
)

const (
	opCodeShmCreatePool = 0
)

// Shm Events
//
// Format
// Informs the client about a valid pixel format that can be used
// for buffers. Known formats include argb8888 and xrgb8888.
type ShmListener interface {
	Format(format uint32)
}

// A singleton global object that provides support for shared
// memory. Clients can create wl_shm_pool objects using the
// create_pool request. At connection setup time, the wl_shm object
// emits one or more format events to inform clients about the
// valid pixel formats that can be used for buffers.
type Shm struct {
	i uint32
	l ShmListener
	c *Context
}

func newShm(c *Context) Object {
	o := &Shm{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_shm", 1, newShm)
}

// ID returns the wayland object identifier
func (this *Shm) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Shm) Type() string {
	return "wl_shm"
}

func (this *Shm) setListener(listener interface{}) error {
	l, ok := listener.(ShmListener)
	if !ok {
		return errors.Errorf("listener must implement Shm interface")
	}
	this.l = l
	return nil
}

func (this *Shm) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeShmFormat:
		format := hostByteOrder.Uint32(payload[0:4])
		this.l.Format(format)
	}
}

// Create a new wl_shm_pool object. The pool can be used to create
// shared memory based buffer objects. The server will mmap size
// bytes of the passed file descriptor, to use as backing memory
// for the pool.
func (this *Shm) CreatePool(l ShmPoolListener, fd *os.File, size int32) (*ShmPool, error) {
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
	ret := newShmPool(this.c).(*ShmPool)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	binary.Write(this.c.buf, hostByteOrder, uint32(size))
	oob := syscall.UnixRights(int(fd.Fd()))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeShmCreatePool, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(oob)
}

const (
	opCodeShmPoolCreateBuffer = 0
	opCodeShmPoolDestroy      = 1
	opCodeShmPoolResize       = 2
)

// ShmPoolListener is empty because wl_shm_pool has no events.
type ShmPoolListener interface {
}

// The wl_shm_pool object encapsulates a piece of memory shared
// between the compositor and client. Through the wl_shm_pool
// object, the client can allocate shared memory wl_buffer objects.
// All objects created through the same pool share the same
// underlying mapped memory.
type ShmPool struct {
	i uint32
	l ShmPoolListener
	c *Context
}

func newShmPool(c *Context) Object {
	o := &ShmPool{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_shm_pool", 1, newShmPool)
}

// ID returns the wayland object identifier
func (this *ShmPool) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *ShmPool) Type() string {
	return "wl_shm_pool"
}

func (this *ShmPool) setListener(listener interface{}) error {
	l, ok := listener.(ShmPoolListener)
	if !ok {
		return errors.Errorf("listener must implement ShmPool interface")
	}
	this.l = l
	return nil
}

func (this *ShmPool) dispatch(opCode uint16, payload []byte, file *os.File) {
}

// Create a wl_buffer object from the pool. The buffer is created
// offset bytes into the pool and has the specified width and
// height. The stride argument specifies the number of bytes from
// the beginning of one row to the beginning of the next.
//
// A buffer will keep a reference to the pool it was created from
// so it is valid to destroy the pool immediately after creating a
// buffer from it.
func (this *ShmPool) CreateBuffer(l BufferListener, offset int32, width int32, height int32, stride int32, format uint32) (*Buffer, error) {
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
	ret := newBuffer(this.c).(*Buffer)
	binary.Write(this.c.buf, hostByteOrder, ret.i)
	binary.Write(this.c.buf, hostByteOrder, uint32(offset))
	binary.Write(this.c.buf, hostByteOrder, uint32(width))
	binary.Write(this.c.buf, hostByteOrder, uint32(height))
	binary.Write(this.c.buf, hostByteOrder, uint32(stride))
	binary.Write(this.c.buf, hostByteOrder, format)
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeShmPoolCreateBuffer, this.c.buf.Len())
	ret.l = l
	return ret, this.c.flush(nil)
}

// Destroy the shared memory pool. The mmapped memory will be
// released when all buffers that have been created from this pool
// are gone.
func (this *ShmPool) Destroy() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeShmPoolDestroy, this.c.buf.Len())
	return this.c.flush(nil)
}

// This request will cause the server to remap the backing memory
// for the pool from the file descriptor passed when the pool was
// created, but using the new size. This request can only be used
// to make the pool bigger.
func (this *ShmPool) Resize(size int32) error {
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
	binary.Write(this.c.buf, hostByteOrder, uint32(size))
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeShmPoolResize, this.c.buf.Len())
	return this.c.flush(nil)
}

const (
	opCodeBufferRelease = 0
)

const (
	opCodeBufferDestroy = 0
)

// Buffer Events
//
// Release
// Sent when this wl_buffer is no longer used by the compositor.
// The client is now free to reuse or destroy this buffer and its
// backing storage.
type BufferListener interface {
	Release()
}

// A buffer provides the content for a wl_surface. Buffers are
// created through factory interfaces such as wl_shm_pool. A buffer
// has a width and height, which define the size of the surface it
// is attached to.
type Buffer struct {
	i uint32
	l BufferListener
	c *Context
}

func newBuffer(c *Context) Object {
	o := &Buffer{
		i: c.next(),
		c: c,
	}
	c.obj[o.i] = o
	return o
}

func init() {
	register("wl_buffer", 1, newBuffer)
}

// ID returns the wayland object identifier
func (this *Buffer) ID() uint32 {
	return this.i
}

// Type returns the string wayland type
func (this *Buffer) Type() string {
	return "wl_buffer"
}

func (this *Buffer) setListener(listener interface{}) error {
	l, ok := listener.(BufferListener)
	if !ok {
		return errors.Errorf("listener must implement Buffer interface")
	}
	this.l = l
	return nil
}

func (this *Buffer) dispatch(opCode uint16, payload []byte, file *os.File) {
	if this.l == nil {
		return
	}
	switch opCode {
	case opCodeBufferRelease:
		this.l.Release()
	}
}

// Destroy a buffer. If and how you need to release the backing
// storage is defined by the buffer factory interface. For possible
// side-effects to a surface, see wl_surface.attach.
func (this *Buffer) Destroy() error {
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
	EncodeHeader(this.c.buf.Bytes(), this.i, opCodeBufferDestroy, this.c.buf.Len())
	return this.c.flush(nil)
}
