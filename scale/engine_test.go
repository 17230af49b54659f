package scale

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	destroyed int
}

func (h *fakeHandle) Destroy() error {
	h.destroyed++
	return nil
}

type fakeManager struct {
	created []uint32
	handles []*fakeHandle
}

func (m *fakeManager) FractionalScale(surface uint32) (FractionalHandle, error) {
	m.created = append(m.created, surface)
	h := &fakeHandle{}
	m.handles = append(m.handles, h)
	return h, nil
}

type fakeViewport struct {
	dests     [][2]int32
	destroyed int
}

func (v *fakeViewport) SetDestination(width, height int32) error {
	v.dests = append(v.dests, [2]int32{width, height})
	return nil
}

func (v *fakeViewport) Destroy() error {
	v.destroyed++
	return nil
}

type fakeViewporter struct {
	created []uint32
	ports   []*fakeViewport
}

func (v *fakeViewporter) Viewport(surface uint32) (ViewportHandle, error) {
	v.created = append(v.created, surface)
	p := &fakeViewport{}
	v.ports = append(v.ports, p)
	return p, nil
}

type fakeSurface struct {
	scales []int32
}

func (s *fakeSurface) SetBufferScale(factor int32) error {
	s.scales = append(s.scales, factor)
	return nil
}

func fractionalEngine() (*Engine, *fakeManager, *fakeViewporter) {
	m := &fakeManager{}
	vp := &fakeViewporter{}
	b := NewBinder()
	b.BindFractionalScaleManager(m)
	b.BindViewporter(vp)
	return NewEngine(b), m, vp
}

func countNotifications(e *Engine) *int {
	n := new(int)
	e.Notify = func(surface uint32, d Decision) { *n++ }
	return n
}

// Scenario: no fractional manager, one output at scale 2, logical
// size 400x300.
func TestLegacyPath(t *testing.T) {
	e := NewEngine(nil)
	sr := &fakeSurface{}
	s, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	assert.Equal(t, Unbound, s.State())
	assert.Equal(t, Legacy, s.Mode())

	e.Enter(1, 10)
	e.AdvertiseScale(10, 2)
	e.Resize(1, 400, 300)

	d, ok := e.Decision(1)
	require.True(t, ok)
	assert.Equal(t, int32(2), d.BufferScale)
	assert.Equal(t, int32(800), d.PixelWidth)
	assert.Equal(t, int32(600), d.PixelHeight)
	assert.False(t, d.Destination)
	assert.False(t, d.Factor.IsFractional())
	assert.Equal(t, []int32{2}, sr.scales)
}

// Scenario: fractional manager present, preferred numerator 150
// (1.25x), logical size 800x600.
func TestFractionalPath(t *testing.T) {
	e, m, vp := fractionalEngine()
	sr := &fakeSurface{}
	s, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	assert.Equal(t, Pending, s.State())

	e.Resize(1, 800, 600)
	e.PreferredScale(1, 150)

	assert.Equal(t, Active, s.State())
	assert.Equal(t, Fractional, s.Mode())
	d, ok := e.Decision(1)
	require.True(t, ok)
	assert.Equal(t, int32(1), d.BufferScale)
	assert.Equal(t, int32(1000), d.PixelWidth)
	assert.Equal(t, int32(750), d.PixelHeight)
	assert.True(t, d.Destination)
	assert.Equal(t, int32(800), d.DestWidth)
	assert.Equal(t, int32(600), d.DestHeight)
	assert.Equal(t, uint32(150), d.Factor.Numerator())

	// buffer scale never left its default of 1
	assert.Empty(t, sr.scales)
	assert.Equal(t, []uint32{1}, m.created)
	require.Len(t, vp.ports, 1)
	assert.Contains(t, vp.ports[0].dests, [2]int32{800, 600})
}

// Scenario: manager present but no preferred_scale ever received;
// the surface sizes via the legacy path.
func TestPendingFallsBackToLegacy(t *testing.T) {
	e, _, _ := fractionalEngine()
	sr := &fakeSurface{}
	s, err := e.AddSurface(1, sr)
	require.NoError(t, err)

	e.Enter(1, 10)
	e.AdvertiseScale(10, 2)
	e.Resize(1, 400, 300)

	assert.Equal(t, Pending, s.State())
	assert.Equal(t, PendingFractional, s.Mode())
	d, ok := e.Decision(1)
	require.True(t, ok)
	assert.Equal(t, int32(2), d.BufferScale)
	assert.Equal(t, int32(800), d.PixelWidth)
	assert.False(t, d.Factor.IsFractional())
	assert.Equal(t, []int32{2}, sr.scales)
}

// Scenario: a second add-on creation for a surface already holding
// one must fail loudly, not be dropped.
func TestDuplicateNegotiationIsFatal(t *testing.T) {
	e, m, _ := fractionalEngine()
	_, err := e.AddSurface(1, &fakeSurface{})
	require.NoError(t, err)

	err = e.Negotiate(1)
	require.Error(t, err)
	assert.Equal(t, ErrDuplicateHandle, errors.Cause(err))
	assert.Equal(t, []uint32{1}, m.created)
}

func TestAddSurfaceTwice(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.AddSurface(1, &fakeSurface{})
	require.NoError(t, err)
	_, err = e.AddSurface(1, &fakeSurface{})
	require.Error(t, err)
	assert.Equal(t, ErrSurfaceExists, errors.Cause(err))
}

func TestEffectiveLegacyScaleIsMaxOverOutputs(t *testing.T) {
	e := NewEngine(nil)
	sr := &fakeSurface{}
	_, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	e.Resize(1, 100, 100)

	// no outputs spanned: default factor 1
	d, ok := e.Decision(1)
	require.True(t, ok)
	assert.Equal(t, int32(1), d.BufferScale)

	e.AdvertiseScale(10, 2)
	e.AdvertiseScale(11, 3)
	e.Enter(1, 10)
	e.Enter(1, 11)
	d, _ = e.Decision(1)
	assert.Equal(t, int32(3), d.BufferScale)
	assert.Equal(t, int32(300), d.PixelWidth)

	e.Leave(1, 11)
	d, _ = e.Decision(1)
	assert.Equal(t, int32(2), d.BufferScale)
}

func TestWithdrawOutputDropsReference(t *testing.T) {
	e := NewEngine(nil)
	sr := &fakeSurface{}
	s, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	e.Resize(1, 100, 100)
	e.Enter(1, 10)
	e.AdvertiseScale(10, 2)

	d, _ := e.Decision(1)
	assert.Equal(t, int32(2), d.BufferScale)
	assert.Equal(t, 1, s.Outputs())

	e.WithdrawOutput(10)
	assert.Equal(t, 0, s.Outputs())
	d, _ = e.Decision(1)
	assert.Equal(t, int32(1), d.BufferScale)
	assert.Equal(t, []int32{2, 1}, sr.scales)

	// a late event for the withdrawn output is stale and ignored
	e.AdvertiseScale(10, 4)
	d, _ = e.Decision(1)
	assert.Equal(t, int32(1), d.BufferScale)
}

// Delivering the same preferred numerator twice must not change the
// decision, notify anyone, or create another add-on.
func TestPreferredScaleIdempotence(t *testing.T) {
	e, m, _ := fractionalEngine()
	_, err := e.AddSurface(1, &fakeSurface{})
	require.NoError(t, err)
	e.Resize(1, 800, 600)

	n := countNotifications(e)
	e.PreferredScale(1, 150)
	first, _ := e.Decision(1)
	e.PreferredScale(1, 150)
	second, _ := e.Decision(1)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, *n)
	assert.Equal(t, []uint32{1}, m.created)
}

// Destroy-then-recreate resets negotiation and allows exactly one
// new add-on creation, never two outstanding for the same surface.
func TestDestroyAndRecreate(t *testing.T) {
	e, m, vp := fractionalEngine()
	_, err := e.AddSurface(1, &fakeSurface{})
	require.NoError(t, err)
	e.PreferredScale(1, 180)

	require.NoError(t, e.DestroySurface(1))
	require.Len(t, m.handles, 1)
	assert.Equal(t, 1, m.handles[0].destroyed)
	assert.Equal(t, 1, vp.ports[0].destroyed)
	_, ok := e.Surface(1)
	assert.False(t, ok)

	// stale notification for the destroyed surface is dropped
	e.PreferredScale(1, 240)

	s, err := e.AddSurface(1, &fakeSurface{})
	require.NoError(t, err)
	assert.Equal(t, Pending, s.State())
	assert.Equal(t, []uint32{1, 1}, m.created)

	// destroying an unknown surface is not an error
	assert.NoError(t, e.DestroySurface(99))
}

// Once Active, output scale churn must never pull the surface back
// onto the integer path while its fractional handle is alive.
func TestFractionalPreferenceIsMonotonic(t *testing.T) {
	e, _, _ := fractionalEngine()
	sr := &fakeSurface{}
	_, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	e.Resize(1, 800, 600)
	e.PreferredScale(1, 150)

	e.Enter(1, 10)
	e.AdvertiseScale(10, 3)
	e.AdvertiseScale(10, 2)

	d, _ := e.Decision(1)
	assert.True(t, d.Factor.IsFractional())
	assert.Equal(t, int32(1), d.BufferScale)
	assert.Equal(t, int32(1000), d.PixelWidth)
	assert.Empty(t, sr.scales)
}

// A manager discovered after surface creation retriggers negotiation
// for surfaces still on the legacy track.
func TestLateBoundManager(t *testing.T) {
	e := NewEngine(nil)
	sr := &fakeSurface{}
	s, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	e.Resize(1, 400, 300)
	assert.Equal(t, Unbound, s.State())

	m := &fakeManager{}
	require.NoError(t, e.BindFractionalScaleManager(m))
	assert.Equal(t, Pending, s.State())
	assert.Equal(t, []uint32{1}, m.created)

	vp := &fakeViewporter{}
	require.NoError(t, e.BindViewporter(vp))
	e.PreferredScale(1, 180)

	assert.Equal(t, Fractional, s.Mode())
	d, _ := e.Decision(1)
	assert.Equal(t, int32(600), d.PixelWidth)
	assert.Equal(t, int32(450), d.PixelHeight)
}

func TestMalformedValuesAreRejected(t *testing.T) {
	e, _, _ := fractionalEngine()
	var warnings []string
	e.Warnf = func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	sr := &fakeSurface{}
	_, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	e.Enter(1, 10)
	e.AdvertiseScale(10, 2)
	e.Resize(1, 100, 100)

	e.AdvertiseScale(10, 0)
	e.AdvertiseScale(10, -3)
	e.PreferredScale(1, 0)
	e.Resize(1, -5, 100)

	d, ok := e.Decision(1)
	require.True(t, ok)
	assert.Equal(t, int32(2), d.BufferScale)
	assert.Equal(t, int32(200), d.PixelWidth)
	assert.Len(t, warnings, 4)
}

func TestStaleSurfaceEventsAreDropped(t *testing.T) {
	e := NewEngine(nil)
	assert.NotPanics(t, func() {
		e.Resize(99, 100, 100)
		e.Enter(99, 1)
		e.Leave(99, 1)
		e.PreferredScale(99, 120)
	})
	_, ok := e.Decision(99)
	assert.False(t, ok)
}

// Ceiling behavior: 125% of an odd logical size rounds the buffer up.
func TestFractionalRoundsUp(t *testing.T) {
	e, _, _ := fractionalEngine()
	_, err := e.AddSurface(1, &fakeSurface{})
	require.NoError(t, err)
	e.Resize(1, 333, 333)
	e.PreferredScale(1, 150)

	d, _ := e.Decision(1)
	// 333 * 150 / 120 = 416.25 -> 417
	assert.Equal(t, int32(417), d.PixelWidth)
	assert.Equal(t, int32(417), d.PixelHeight)
}

// Moving from an established legacy factor to fractional must pin
// the legacy buffer scale back to 1.
func TestActivationPinsBufferScale(t *testing.T) {
	e, _, vp := fractionalEngine()
	sr := &fakeSurface{}
	_, err := e.AddSurface(1, sr)
	require.NoError(t, err)
	e.Enter(1, 10)
	e.AdvertiseScale(10, 2)
	e.Resize(1, 400, 300)
	assert.Equal(t, []int32{2}, sr.scales)

	e.PreferredScale(1, 180)
	assert.Equal(t, []int32{2, 1}, sr.scales)
	d, _ := e.Decision(1)
	assert.Equal(t, int32(600), d.PixelWidth)
	assert.Equal(t, int32(450), d.PixelHeight)
	assert.Contains(t, vp.ports[0].dests, [2]int32{400, 300})
}
