package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width  int
	height int
	stats  FrameStats

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	verbose              bool
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Frame    uint64
	Views    int
	Draws    int
	ClipSets int
}

// Renderer draws views of the scene graph to a surface.
//
// A frame renders every view passed to Render in order: the first fills the surface, later
// views draw over it inside their viewports with a cleared depth buffer. The display uses a
// second view for the overlay camera.
type Renderer interface {
	// Resize configures the backend for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Size returns the surface size in pixels.
	//
	// Returns:
	//   - int: width
	//   - int: height
	Size() (int, int)

	// SetPresentMode changes how frames are delivered and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Render draws one frame.
	//
	// Parameters:
	//   - clear: the color the surface is cleared to
	//   - views: the views to draw, in order
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or a draw could not be encoded
	Render(clear common.Color, views ...View) error

	// Stats returns the counts of the last rendered frame.
	//
	// Returns:
	//   - FrameStats: the stats
	Stats() FrameStats

	// Release frees the backend's resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the given backend. The WGPU backend needs a window for
// its surface; the headless backend ignores it and takes its size from WithSize.
//
// Parameters:
//   - backendType: the backend to create
//   - win: the window providing the surface, may be nil for the headless backend
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the WGPU backend is requested without a window
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		width:       1,
		height:      1,
	}

	// Options first so adapter flags are known before the backend requests a device.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend()
	default:
		if win == nil {
			return nil, fmt.Errorf("renderer: %w", ErrNoSurface)
		}
		backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
		if err != nil {
			return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
		}
		r.backend = backend
		r.width, r.height = win.Width(), win.Height()
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(r.width, r.height)
	return r, nil
}

func (r *renderer) debugf(format string, args ...any) {
	if r.verbose {
		log.Printf("[renderer] "+format, args...)
	}
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
	r.debugf("resized to %dx%d", width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(r.width, r.height)
}

func (r *renderer) Render(clear common.Color, views ...View) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists := make([][]DrawItem, len(views))
	draws := 0
	for i, v := range views {
		lists[i] = CollectDrawList(v)
		draws += len(lists[i])
	}
	plan := FramePlan{
		Clear:    clear,
		Views:    len(views),
		Draws:    draws,
		ClipSets: countClipSets(lists),
	}

	if err := r.backend.BeginFrame(plan); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	var drawErr error
	for i, v := range views {
		if err := r.backend.DrawView(i, v, lists[i]); err != nil {
			drawErr = fmt.Errorf("failed to draw view %d: %w", i, err)
			break
		}
	}
	r.backend.EndFrame()
	r.backend.Present()

	r.stats = FrameStats{
		Frame:    r.stats.Frame + 1,
		Views:    plan.Views,
		Draws:    plan.Draws,
		ClipSets: plan.ClipSets,
	}
	return drawErr
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
