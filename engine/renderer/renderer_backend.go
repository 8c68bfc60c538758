package renderer

import "github.com/Carmen-Shannon/phoenix-go/common"

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU backend drawing to a window surface.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless records frames without a GPU. Used when no window exists.
	BackendTypeHeadless
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples used for multisample anti-aliasing.
// WebGPU guarantees 1 and 4; higher counts depend on the adapter.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// FramePlan sizes the per-frame uniform storage before any pass is encoded, so no buffer
// or bind group is replaced while a frame references it.
type FramePlan struct {
	Clear    common.Color
	Views    int
	Draws    int
	ClipSets int
}

// RendererBackend draws collected views. A frame is BeginFrame, one DrawView per view in
// order, EndFrame and Present. The first view clears the color target; later views load
// it and clear only depth, so they overlay the earlier ones.
type RendererBackend interface {
	// ConfigureSurface sizes the surface and its attachments.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets how frames are delivered to the display. Applied on the next
	// ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the frame target and reserves uniform storage for the plan.
	//
	// Parameters:
	//   - plan: the frame's clear color and resource counts
	//
	// Returns:
	//   - error: an error if the frame target could not be acquired
	BeginFrame(plan FramePlan) error

	// DrawView encodes one view's render pass.
	//
	// Parameters:
	//   - index: the position of the view in the frame
	//   - view: the view
	//   - items: the view's draw list
	//
	// Returns:
	//   - error: an error if a pipeline or mesh buffer could not be created
	DrawView(index int, view View, items []DrawItem) error

	// EndFrame uploads the frame's uniforms and submits the encoded passes.
	EndFrame()

	// Present displays the frame and releases the frame target.
	Present()

	// Release frees every resource held by the backend.
	Release()
}
