package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Topology is the primitive assembly of a pipeline.
type Topology int

const (
	Triangles Topology = iota
	Lines
	Points
)

func (t Topology) String() string {
	switch t {
	case Lines:
		return "lines"
	case Points:
		return "points"
	}
	return "triangles"
}

// Cull selects which triangle faces are discarded.
type Cull int

const (
	CullNone Cull = iota
	CullBack
	CullFront
)

// Key identifies a pipeline variant. Every material state that cannot change inside a
// WebGPU render pipeline is part of the key.
type Key struct {
	Topology   Topology
	Cull       Cull
	Blend      bool
	DepthTest  bool
	DepthWrite bool
}

// String returns the cache key of the variant.
func (k Key) String() string {
	return fmt.Sprintf("%s/cull%d/blend=%t/depth=%t,%t", k.Topology, k.Cull, k.Blend, k.DepthTest, k.DepthWrite)
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key Key

	renderPipeline *wgpu.RenderPipeline

	frontFace  wgpu.FrontFace
	writeMask  wgpu.ColorWriteMask
	blendState *wgpu.BlendState
	depthBias  int32
}

// Pipeline is one render pipeline variant of the object shader: its fixed function state
// and, once registered with the renderer backend, the GPU pipeline object.
type Pipeline interface {
	// Key returns the variant key.
	//
	// Returns:
	//   - Key: the key
	Key() Key

	// PipelineKey returns the key as a string for caching and labels.
	//
	// Returns:
	//   - string: the cache key
	PipelineKey() string

	// Pipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline
	Pipeline() *wgpu.RenderPipeline

	// Topology returns the WebGPU primitive topology of the variant.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: triangle list, line list or point list
	Topology() wgpu.PrimitiveTopology

	// CullMode returns the WebGPU cull mode of the variant.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// DepthCompare returns the depth comparison, Always when depth testing is off.
	//
	// Returns:
	//   - wgpu.CompareFunction: the comparison
	DepthCompare() wgpu.CompareFunction

	DepthWriteEnabled() bool
	DepthBias() int32
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state, nil for opaque variants.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state or nil
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU pipeline created by the backend.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release releases the GPU pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates an unregistered pipeline variant. Transparent variants use straight
// alpha blending unless WithBlendState overrides it.
//
// Parameters:
//   - key: the variant key
//   - opts: a variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: the pipeline
func NewPipeline(key Key, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:       key,
		frontFace: wgpu.FrontFaceCCW,
		writeMask: wgpu.ColorWriteMaskAll,
	}
	if key.Blend {
		p.blendState = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() Key {
	return p.key
}

func (p *pipeline) PipelineKey() string {
	return p.key.String()
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	switch p.key.Topology {
	case Lines:
		return wgpu.PrimitiveTopologyLineList
	case Points:
		return wgpu.PrimitiveTopologyPointList
	}
	return wgpu.PrimitiveTopologyTriangleList
}

func (p *pipeline) CullMode() wgpu.CullMode {
	if p.key.Topology != Triangles {
		return wgpu.CullModeNone
	}
	switch p.key.Cull {
	case CullBack:
		return wgpu.CullModeBack
	case CullFront:
		return wgpu.CullModeFront
	}
	return wgpu.CullModeNone
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	if !p.key.DepthTest {
		return wgpu.CompareFunctionAlways
	}
	return wgpu.CompareFunctionLessEqual
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.key.DepthWrite
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
