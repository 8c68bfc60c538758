package renderer

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
)

// RecordedView is what the headless backend kept of one view.
type RecordedView struct {
	Viewport Viewport
	Pixels   [4]uint32
	Items    []DrawItem
	Uniform  []byte
}

// RecordedFrame is what the headless backend kept of one frame.
type RecordedFrame struct {
	Clear common.Color
	Views []RecordedView
}

// headlessRendererBackend runs the frame protocol without a GPU and keeps the last frame.
type headlessRendererBackend struct {
	mu *sync.Mutex

	width, height int
	presentMode   PresentMode

	inFrame bool
	current RecordedFrame
	last    RecordedFrame
}

var _ RendererBackend = &headlessRendererBackend{}

var errFrameInProgress = errors.New("previous frame not yet presented")

func newHeadlessRendererBackend() *headlessRendererBackend {
	return &headlessRendererBackend{mu: &sync.Mutex{}, width: 1, height: 1}
}

func (b *headlessRendererBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *headlessRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *headlessRendererBackend) BeginFrame(plan FramePlan) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFrame {
		return errFrameInProgress
	}
	b.inFrame = true
	b.current = RecordedFrame{Clear: plan.Clear, Views: make([]RecordedView, 0, plan.Views)}
	return nil
}

func (b *headlessRendererBackend) DrawView(index int, view View, items []DrawItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	x, y, w, h := view.Viewport.Pixels(b.width, b.height)
	var uniform []byte
	if view.Camera != nil {
		uniform = marshalFrameUniform(view.Camera, view.Lights)
	}
	b.current.Views = append(b.current.Views, RecordedView{
		Viewport: view.Viewport,
		Pixels:   [4]uint32{x, y, w, h},
		Items:    items,
		Uniform:  uniform,
	})
	return nil
}

func (b *headlessRendererBackend) EndFrame() {}

func (b *headlessRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return
	}
	b.inFrame = false
	b.last = b.current
	b.current = RecordedFrame{}
}

func (b *headlessRendererBackend) Release() {}

// LastFrame returns the last presented frame.
func (b *headlessRendererBackend) LastFrame() RecordedFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// LastFrame returns the last frame recorded by a headless renderer.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - RecordedFrame: the frame
//   - bool: false when r does not use the headless backend
func LastFrame(r Renderer) (RecordedFrame, bool) {
	impl, ok := r.(*renderer)
	if !ok {
		return RecordedFrame{}, false
	}
	h, ok := impl.backend.(*headlessRendererBackend)
	if !ok {
		return RecordedFrame{}, false
	}
	return h.LastFrame(), true
}
