package wlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 12)
	EncodeHeader(buf, 42, opCodeSurfaceSetBufferScale, 12)
	id, opcode, size := DecodeHeader(buf)
	assert.Equal(t, uint32(42), id)
	assert.Equal(t, uint16(opCodeSurfaceSetBufferScale), opcode)
	assert.Equal(t, 12, size)
}

func TestFixedRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 1.25, 1.5, -2.75, 100.5} {
		assert.Equal(t, v, fixedToFloat64(float64ToFixed(v)))
	}
}

type globalRecorder struct {
	name    uint32
	iface   string
	version uint32
	removed []uint32
}

func (g *globalRecorder) Global(name uint32, iface string, version uint32) {
	g.name = name
	g.iface = iface
	g.version = version
}

func (g *globalRecorder) GlobalRemove(name uint32) {
	g.removed = append(g.removed, name)
}

func TestRegistryGlobalDispatch(t *testing.T) {
	c := NewContext(nil)
	rec := &globalRecorder{}
	reg := newRegistry(c).(*Registry)
	assert.NoError(t, reg.setListener(rec))

	iface := "wp_viewporter"
	tmp := make([]byte, 4)
	payload := make([]byte, 0, 32)
	hostByteOrder.PutUint32(tmp, 7)
	payload = append(payload, tmp...)
	hostByteOrder.PutUint32(tmp, uint32(len(iface)+1))
	payload = append(payload, tmp...)
	payload = append(payload, iface...)
	payload = append(payload, 0)
	for len(payload)%4 != 0 {
		payload = append(payload, 0)
	}
	hostByteOrder.PutUint32(tmp, 1)
	payload = append(payload, tmp...)

	reg.dispatch(opCodeRegistryGlobal, payload, nil)
	assert.Equal(t, uint32(7), rec.name)
	assert.Equal(t, "wp_viewporter", rec.iface)
	assert.Equal(t, uint32(1), rec.version)
}

type scaleRecorder struct {
	factors   []int32
	preferred []uint32
}

func (s *scaleRecorder) Geometry(x, y, pw, ph, subpixel int32, make, model string, transform int32) {
}
func (s *scaleRecorder) Mode(flags uint32, width, height, refresh int32) {}
func (s *scaleRecorder) Done()                                          {}
func (s *scaleRecorder) Scale(factor int32) {
	s.factors = append(s.factors, factor)
}
func (s *scaleRecorder) PreferredScale(scale uint32) {
	s.preferred = append(s.preferred, scale)
}

func TestOutputScaleDispatch(t *testing.T) {
	c := NewContext(nil)
	rec := &scaleRecorder{}
	out := newOutput(c).(*Output)
	assert.NoError(t, out.setListener(rec))

	payload := make([]byte, 4)
	hostByteOrder.PutUint32(payload, uint32(2))
	out.dispatch(opCodeOutputScale, payload, nil)
	assert.Equal(t, []int32{2}, rec.factors)
}

func TestPreferredScaleDispatch(t *testing.T) {
	c := NewContext(nil)
	rec := &scaleRecorder{}
	fs := newWpFractionalScaleV1(c).(*WpFractionalScaleV1)
	assert.NoError(t, fs.setListener(rec))

	payload := make([]byte, 4)
	hostByteOrder.PutUint32(payload, 150)
	fs.dispatch(opCodeWpFractionalScaleV1PreferredScale, payload, nil)
	assert.Equal(t, []uint32{150}, rec.preferred)
}

func TestDispatchWithoutListener(t *testing.T) {
	c := NewContext(nil)
	out := newOutput(c).(*Output)
	payload := make([]byte, 4)
	hostByteOrder.PutUint32(payload, 3)
	assert.NotPanics(t, func() {
		out.dispatch(opCodeOutputScale, payload, nil)
	})
}
