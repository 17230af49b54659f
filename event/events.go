// Package event carries scaling-relevant compositor notifications
// from the connection read loop to the single-threaded dispatch
// point, as fixed-size records in a bounded FIFO queue.
package event

import "encoding/binary"

// Output events
const (
	OutputScale = 0x100 + iota
	OutputWithdrawn
)

// Surface events
const (
	SurfaceEnter = 0x200 + iota
	SurfaceLeave
	SurfaceResize
	PreferredScale
)

const (
	FirstEvent = 0
	UserEvent  = 0x8000
	LastEvent  = 0xFFFF
)

// Data is the raw event record. Byte layout: type, timestamp, then
// two or three event-specific fields, all little-endian uint32.
type Data [32]byte

func (ed Data) Type() uint32 {
	return binary.LittleEndian.Uint32(ed[0:4])
}

func (ed Data) Timestamp() uint32 {
	return binary.LittleEndian.Uint32(ed[4:8])
}

func (ed Data) Raw() Data {
	return ed
}

type Event interface {
	Type() uint32
	Timestamp() uint32
	Raw() Data
}

func newData(evType uint32) Data {
	var d Data
	binary.LittleEndian.PutUint32(d[0:4], evType)
	return d
}

// Output event data (output id and, for OutputScale, the factor).
type Output Data

func (oe Output) OutputID() uint32 {
	return binary.LittleEndian.Uint32(oe[8:12])
}

func (oe Output) Factor() int32 {
	return int32(binary.LittleEndian.Uint32(oe[12:16]))
}

// NewOutputScale builds an OutputScale record.
func NewOutputScale(output uint32, factor int32) Data {
	d := newData(OutputScale)
	binary.LittleEndian.PutUint32(d[8:12], output)
	binary.LittleEndian.PutUint32(d[12:16], uint32(factor))
	return d
}

// NewOutputWithdrawn builds an OutputWithdrawn record.
func NewOutputWithdrawn(output uint32) Data {
	d := newData(OutputWithdrawn)
	binary.LittleEndian.PutUint32(d[8:12], output)
	return d
}

// Surface event data. OutputID is meaningful for enter/leave,
// Numerator for PreferredScale, Width/Height for SurfaceResize.
type Surface Data

func (se Surface) SurfaceID() uint32 {
	return binary.LittleEndian.Uint32(se[8:12])
}

func (se Surface) OutputID() uint32 {
	return binary.LittleEndian.Uint32(se[12:16])
}

func (se Surface) Numerator() uint32 {
	return binary.LittleEndian.Uint32(se[12:16])
}

func (se Surface) Width() int32 {
	return int32(binary.LittleEndian.Uint32(se[12:16]))
}

func (se Surface) Height() int32 {
	return int32(binary.LittleEndian.Uint32(se[16:20]))
}

// NewSurfaceEnter builds a SurfaceEnter record.
func NewSurfaceEnter(surface, output uint32) Data {
	d := newData(SurfaceEnter)
	binary.LittleEndian.PutUint32(d[8:12], surface)
	binary.LittleEndian.PutUint32(d[12:16], output)
	return d
}

// NewSurfaceLeave builds a SurfaceLeave record.
func NewSurfaceLeave(surface, output uint32) Data {
	d := newData(SurfaceLeave)
	binary.LittleEndian.PutUint32(d[8:12], surface)
	binary.LittleEndian.PutUint32(d[12:16], output)
	return d
}

// NewSurfaceResize builds a SurfaceResize record with the new
// logical size.
func NewSurfaceResize(surface uint32, width, height int32) Data {
	d := newData(SurfaceResize)
	binary.LittleEndian.PutUint32(d[8:12], surface)
	binary.LittleEndian.PutUint32(d[12:16], uint32(width))
	binary.LittleEndian.PutUint32(d[16:20], uint32(height))
	return d
}

// NewPreferredScale builds a PreferredScale record carrying the
// numerator over 120.
func NewPreferredScale(surface, numerator uint32) Data {
	d := newData(PreferredScale)
	binary.LittleEndian.PutUint32(d[8:12], surface)
	binary.LittleEndian.PutUint32(d[12:16], numerator)
	return d
}
