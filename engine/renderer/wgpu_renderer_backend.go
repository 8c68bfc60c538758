package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// meshEvictFrames is how many frames a mesh buffer survives without being drawn.
const meshEvictFrames = 120

var errNoFrame = errors.New("no frame in progress")

type meshKey struct {
	geometry *model.Geometry
	mode     drawMode
}

// meshEntry caches the GPU buffers of one geometry in one draw mode. The source slices
// are remembered by identity; geometries replace their slices rather than edit them.
type meshEntry struct {
	provider      bind_group_provider.BindGroupProvider
	positions     *mgl32.Vec3
	positionCount int
	indices       *uint32
	indexCount    int
	lastUsed      uint64
}

func (e *meshEntry) matches(positions []mgl32.Vec3, indices []uint32) bool {
	return e.positions == firstOf(positions) && e.positionCount == len(positions) &&
		e.indices == firstOf(indices) && e.indexCount == len(indices)
}

func firstOf[T any](s []T) *T {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    *wgpu.TextureFormat
	width, height    int
	msaaTexture      *wgpu.Texture
	msaaTextureView  *wgpu.TextureView
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	objectShader   shader.Shader
	shaderModule   *wgpu.ShaderModule
	frameLayout    *wgpu.BindGroupLayout
	objectLayout   *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	pipelines      map[pipeline.Key]pipeline.Pipeline

	// frameUniforms holds one camera and light slot per view at binding 0.
	frameUniforms bind_group_provider.BindGroupProvider
	// objectUniforms holds one object slot per draw at binding 0 and the frame's clip sets
	// at binding 1. Clip set slot 0 is the empty set.
	objectUniforms bind_group_provider.BindGroupProvider
	meshes         map[meshKey]*meshEntry

	// Frame state
	frameEncoder *wgpu.CommandEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	clear        wgpu.Color
	frameCount   uint64
	frameData    []byte
	objectData   []byte
	clipData     []byte
	clipOffsets  map[clipSetKey]uint32
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:             &sync.Mutex{},
		instance:       wgpu.CreateInstance(nil),
		presentMode:    wgpu.PresentModeFifo,
		sampleCount:    sampleCount,
		pipelines:      make(map[pipeline.Key]pipeline.Pipeline),
		meshes:         make(map[meshKey]*meshEntry),
		frameUniforms:  bind_group_provider.NewBindGroupProvider("Frame Uniforms"),
		objectUniforms: bind_group_provider.NewBindGroupProvider("Object Uniforms"),
		clipOffsets:    make(map[clipSetKey]uint32),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.createLayouts(); err != nil {
		return nil, err
	}
	return b, nil
}

// createLayouts builds the shader module and the bind group and pipeline layouts shared by
// every pipeline variant, all reflected from the object shader.
func (b *wgpuRendererBackendImpl) createLayouts() error {
	objectShader, err := newObjectShader()
	if err != nil {
		return err
	}
	b.objectShader = objectShader

	module, err := b.device.CreateShaderModule(objectShader.Module())
	if err != nil {
		return fmt.Errorf("failed to create object shader: %w", err)
	}
	b.shaderModule = module

	layouts := make([]*wgpu.BindGroupLayout, 0, 2)
	for _, g := range objectShader.Groups() {
		desc, _ := objectShader.BindGroupLayoutDescriptor(g)
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, err)
		}
		layouts = append(layouts, layout)
	}
	if len(layouts) != 2 {
		return fmt.Errorf("object shader declares %d bind groups, want 2", len(layouts))
	}
	b.frameLayout, b.objectLayout = layouts[0], layouts[1]

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Object Pipeline Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	b.width, b.height = width, height

	capabilities := b.surface.GetCapabilities(b.adapter)
	format := capabilities.Formats[0]
	if b.surfaceFormat != nil && *b.surfaceFormat != format {
		b.releasePipelines()
	}
	b.surfaceFormat = &format

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()
	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if count > 1 {
		// Passes draw into the MSAA texture and resolve into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        format,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame(plan FramePlan) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	if b.surfaceFormat == nil {
		return fmt.Errorf("surface not configured")
	}
	if err := b.reserveUniforms(plan); err != nil {
		return err
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	r, g, bl := plan.Clear.RGB()
	b.clear = wgpu.Color{R: float64(r), G: float64(g), B: float64(bl), A: 1}
	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.frameCount++
	b.frameData = b.frameData[:0]
	b.objectData = b.objectData[:0]
	b.clipData = append(b.clipData[:0], make([]byte, material.GPUClipSetSize)...)
	clear(b.clipOffsets)
	return nil
}

// reserveUniforms grows the uniform buffers to hold the plan, recreating the bind groups
// of any buffer replaced.
func (b *wgpuRendererBackendImpl) reserveUniforms(plan FramePlan) error {
	frameSize := uint64(max(plan.Views, 1) * uniformStride)
	if b.frameUniforms.BufferCapacity(0) < frameSize {
		buf, size, err := b.createUniformBuffer("Frame Uniform Buffer", frameSize, b.frameUniforms.BufferCapacity(0))
		if err != nil {
			return err
		}
		b.frameUniforms.SetBuffer(0, buf, size)
		bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Frame Bind Group",
			Layout: b.frameLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buf, Offset: 0, Size: frameUniformSize},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create frame bind group: %w", err)
		}
		b.frameUniforms.SetBindGroup(bg)
	}

	objectSize := uint64(max(plan.Draws, 1) * uniformStride)
	clipSize := uint64((plan.ClipSets + 1) * material.GPUClipSetSize)
	objectGrown := b.objectUniforms.BufferCapacity(0) < objectSize
	clipGrown := b.objectUniforms.BufferCapacity(1) < clipSize
	if !objectGrown && !clipGrown {
		return nil
	}
	if objectGrown {
		buf, size, err := b.createUniformBuffer("Object Uniform Buffer", objectSize, b.objectUniforms.BufferCapacity(0))
		if err != nil {
			return err
		}
		b.objectUniforms.SetBuffer(0, buf, size)
	}
	if clipGrown {
		buf, size, err := b.createUniformBuffer("Clip Set Buffer", clipSize, b.objectUniforms.BufferCapacity(1))
		if err != nil {
			return err
		}
		b.objectUniforms.SetBuffer(1, buf, size)
	}
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Object Bind Group",
		Layout: b.objectLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.objectUniforms.Buffer(0), Offset: 0, Size: objectUniformSize},
			{Binding: 1, Buffer: b.objectUniforms.Buffer(1), Offset: 0, Size: material.GPUClipSetSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create object bind group: %w", err)
	}
	b.objectUniforms.SetBindGroup(bg)
	return nil
}

// createUniformBuffer allocates at least need bytes, doubling the previous capacity.
func (b *wgpuRendererBackendImpl) createUniformBuffer(label string, need, previous uint64) (*wgpu.Buffer, uint64, error) {
	size := max(need, previous*2)
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create %s: %w", label, err)
	}
	return buf, size, nil
}

func (b *wgpuRendererBackendImpl) DrawView(index int, view View, items []DrawItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return errNoFrame
	}

	frameOffset := uint32(len(b.frameData))
	if view.Camera != nil {
		b.frameData = append(b.frameData, marshalFrameUniform(view.Camera, view.Lights)...)
	} else {
		b.frameData = append(b.frameData, make([]byte, frameUniformSize)...)
	}

	pass := b.frameEncoder.BeginRenderPass(b.passDescriptor(index == 0))
	x, y, w, h := view.Viewport.Pixels(b.width, b.height)
	pass.SetViewport(float32(x), float32(y), float32(w), float32(h), 0, 1)
	pass.SetScissorRect(x, y, w, h)

	var err error
	for _, item := range items {
		if err = b.draw(pass, frameOffset, item); err != nil {
			break
		}
	}
	pass.End()
	return err
}

// passDescriptor describes the render pass of one view. Only the first view clears color;
// every view clears depth so overlays draw on top.
func (b *wgpuRendererBackendImpl) passDescriptor(first bool) *wgpu.RenderPassDescriptor {
	color := wgpu.RenderPassColorAttachment{
		LoadOp:     wgpu.LoadOpLoad,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: b.clear,
	}
	if first {
		color.LoadOp = wgpu.LoadOpClear
	}
	if b.sampleCount > 1 {
		color.View = b.msaaTextureView
		color.ResolveTarget = b.frameView
	} else {
		color.View = b.frameView
	}
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) draw(pass *wgpu.RenderPassEncoder, frameOffset uint32, item DrawItem) error {
	mesh, err := b.mesh(item)
	if err != nil {
		return err
	}
	p, err := b.pipelineFor(item.Key)
	if err != nil {
		return err
	}

	objectOffset := uint32(len(b.objectData))
	data := marshalObjectUniform(item)
	b.objectData = append(b.objectData, data...)
	b.objectData = append(b.objectData, make([]byte, uniformStride-len(data))...)
	clipOffset := b.clipOffset(item.Object.Material.ClippingPlanes())

	pass.SetPipeline(p.Pipeline())
	pass.SetBindGroup(0, b.frameUniforms.BindGroup(), []uint32{frameOffset})
	pass.SetBindGroup(1, b.objectUniforms.BindGroup(), []uint32{objectOffset, clipOffset})
	pass.SetVertexBuffer(0, mesh.provider.VertexBuffer(), 0, wgpu.WholeSize)

	first, count := drawRange(item.Object.Type, item.Object.Material.Wireframe(), item.Object.Geometry)
	if ib := mesh.provider.IndexBuffer(); ib != nil {
		pass.SetIndexBuffer(ib, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(count), 1, uint32(first), 0, 0)
		return nil
	}
	pass.Draw(uint32(count), 1, uint32(first), 0)
	return nil
}

// clipOffset returns the offset of a plane set in the frame's clip buffer, packing it on
// first use.
func (b *wgpuRendererBackendImpl) clipOffset(planes []*common.Plane) uint32 {
	key := clipKeyOf(planes)
	if key.count == 0 {
		return 0
	}
	if off, ok := b.clipOffsets[key]; ok {
		return off
	}
	off := uint32(len(b.clipData))
	b.clipData = append(b.clipData, material.MarshalClipSet(planes)...)
	b.clipOffsets[key] = off
	return off
}

func (b *wgpuRendererBackendImpl) pipelineFor(key pipeline.Key) (pipeline.Pipeline, error) {
	if p, ok := b.pipelines[key]; ok {
		return p, nil
	}
	var opts []pipeline.PipelineBuilderOption
	if key.Topology == pipeline.Triangles {
		// Push surfaces back so outlines and tracks drawn on them stay visible.
		opts = append(opts, pipeline.WithDepthBias(1))
	}
	p := pipeline.NewPipeline(key, opts...)
	if err := b.registerRenderPipeline(p); err != nil {
		return nil, fmt.Errorf("failed to register pipeline %s: %w", p.PipelineKey(), err)
	}
	b.pipelines[key] = p
	return p, nil
}

func (b *wgpuRendererBackendImpl) registerRenderPipeline(p pipeline.Pipeline) error {
	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shaderModule,
			EntryPoint: b.objectShader.EntryPoint(shader.StageVertex),
			Buffers:    []wgpu.VertexBufferLayout{b.objectShader.VertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shaderModule,
			EntryPoint: b.objectShader.EntryPoint(shader.StageFragment),
			Targets: []wgpu.ColorTargetState{{
				Format:    *b.surfaceFormat,
				Blend:     p.BlendState(),
				WriteMask: p.WriteMask(),
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      p.DepthCompare(),
			DepthBias:         p.DepthBias(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

// mesh returns the cached buffers of an item's geometry, uploading them when the geometry
// is new or its slices were replaced.
func (b *wgpuRendererBackendImpl) mesh(item DrawItem) (*meshEntry, error) {
	g := item.Object.Geometry
	mode := modeOf(item.Object.Type, item.Object.Material.Wireframe())
	key := meshKey{geometry: g, mode: mode}
	positions, indices := g.Positions(), g.Indices()

	e := b.meshes[key]
	if e != nil && e.matches(positions, indices) {
		e.lastUsed = b.frameCount
		return e, nil
	}
	if e == nil {
		e = &meshEntry{provider: bind_group_provider.NewBindGroupProvider(item.Object.Name + " Mesh")}
		b.meshes[key] = e
	}

	label := e.provider.Label()
	vb, err := b.createBufferInit(label+" Vertex Buffer", g.MarshalVertices(), wgpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	var ib *wgpu.Buffer
	list := drawIndices(mode, g)
	if len(list) > 0 {
		ib, err = b.createBufferInit(label+" Index Buffer", marshalIndexList(list), wgpu.BufferUsageIndex)
		if err != nil {
			vb.Release()
			return nil, err
		}
	}
	e.provider.SetMesh(vb, len(positions), ib, len(list))
	e.positions, e.positionCount = firstOf(positions), len(positions)
	e.indices, e.indexCount = firstOf(indices), len(indices)
	e.lastUsed = b.frameCount
	return e, nil
}

func (b *wgpuRendererBackendImpl) createBufferInit(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(data)),
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", label, err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func marshalIndexList(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return
	}

	// Uniform writes are ordered before the submit that reads them.
	if len(b.frameData) > 0 {
		b.queue.WriteBuffer(b.frameUniforms.Buffer(0), 0, b.frameData)
	}
	if len(b.objectData) > 0 {
		b.queue.WriteBuffer(b.objectUniforms.Buffer(0), 0, b.objectData)
	}
	if len(b.clipData) > 0 {
		b.queue.WriteBuffer(b.objectUniforms.Buffer(1), 0, b.clipData)
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameSurface = nil
		b.frameView = nil
		return
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	for key, e := range b.meshes {
		if b.frameCount-e.lastUsed > meshEvictFrames {
			e.provider.Release()
			delete(b.meshes, key)
		}
	}
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) releasePipelines() {
	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, e := range b.meshes {
		e.provider.Release()
		delete(b.meshes, key)
	}
	b.releasePipelines()
	b.frameUniforms.Release()
	b.objectUniforms.Release()
	b.releaseAttachments()
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	if b.objectLayout != nil {
		b.objectLayout.Release()
	}
	if b.frameLayout != nil {
		b.frameLayout.Release()
	}
	if b.shaderModule != nil {
		b.shaderModule.Release()
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
