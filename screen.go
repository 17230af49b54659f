package wlscale

import (
	"sync"

	"github.com/elliotmr/wlscale/event"
	"github.com/elliotmr/wlscale/wlp"
)

// Screen mirrors the state of one wl_output. Property events run on
// the connection read loop; scale changes are additionally queued for
// the engine.
type Screen struct {
	output *wlp.Output
	name   uint32
	q      *event.Queue

	Mu             *sync.RWMutex
	X              int32
	Y              int32
	PhysicalWidth  int32
	PhysicalHeight int32
	Subpixel       int32
	Make           string
	Model          string
	Transform      int32
	Flags          uint32
	Width          int32
	Height         int32
	Refresh        int32
	Factor         int32
}

// ID returns the wl_output object identifier, the key surfaces use in
// enter and leave events.
func (s *Screen) ID() uint32 {
	return s.output.ID()
}

func (s *Screen) Geometry(x int32, y int32, physicalWidth int32, physicalHeight int32, subpixel int32, make string, model string, transform int32) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.X = x
	s.Y = y
	s.PhysicalWidth = physicalWidth
	s.PhysicalHeight = physicalHeight
	s.Subpixel = subpixel
	s.Make = make
	s.Model = model
	s.Transform = transform
}

func (s *Screen) Mode(flags uint32, width int32, height int32, refresh int32) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.Flags = flags
	s.Width = width
	s.Height = height
	s.Refresh = refresh
}

func (s *Screen) Done() {

}

func (s *Screen) Scale(factor int32) {
	s.Mu.Lock()
	s.Factor = factor
	s.Mu.Unlock()
	s.q.Push(event.NewOutputScale(s.output.ID(), factor))
}
