package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineShader = `
struct Globals {
    view_proj: mat4x4<f32>,
    tint: vec3<f32>, // rgb
    width: f32,
};

/* per draw
   state */
struct Draw {
    offsets: array<vec4<f32>, 4>,
    count: u32,
};

@group(0) @binding(0) var<uniform> globals: Globals;
@group(1) @binding(1) var<storage, read> points: array<vec4<f32>>;
@group(1) @binding(0) var<uniform> draw: Draw;
@group(2) @binding(0) var tex: texture_2d<f32>;
@group(2) @binding(1) var samp: sampler;

@vertex
fn vertex_main(@builtin(vertex_index) index: u32, @location(0) position: vec3<f32>, @location(2) color: vec4<f32>) -> @builtin(position) vec4<f32> {
    return globals.view_proj * vec4<f32>(position, 1.0);
}

@fragment
fn fragment_main() -> @location(0) vec4<f32> {
    return vec4<f32>(globals.tint, 1.0);
}
`

func TestNewShaderReflectsEntryPoints(t *testing.T) {
	s, err := NewShader("lines", lineShader)
	require.NoError(t, err)
	assert.Equal(t, "lines", s.Key())
	assert.Equal(t, "vertex_main", s.EntryPoint(StageVertex))
	assert.Equal(t, "fragment_main", s.EntryPoint(StageFragment))
	assert.Equal(t, lineShader, s.Module().WGSLDescriptor.Code)
}

func TestNewShaderReflectsBindGroups(t *testing.T) {
	s, err := NewShader("lines", lineShader, WithDynamicOffsets(), WithVisibility(2, 0, wgpu.ShaderStageFragment))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, s.Groups())

	g0, ok := s.BindGroupLayoutDescriptor(0)
	require.True(t, ok)
	require.Len(t, g0.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, g0.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), g0.Entries[0].Buffer.MinBindingSize)
	assert.True(t, g0.Entries[0].Buffer.HasDynamicOffset)

	g1, _ := s.BindGroupLayoutDescriptor(1)
	require.Len(t, g1.Entries, 2)
	assert.Equal(t, uint32(0), g1.Entries[0].Binding)
	assert.Equal(t, uint64(80), g1.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, g1.Entries[1].Buffer.Type)
	assert.Equal(t, uint64(16), g1.Entries[1].Buffer.MinBindingSize)
	assert.False(t, g1.Entries[1].Buffer.HasDynamicOffset)

	g2, _ := s.BindGroupLayoutDescriptor(2)
	require.Len(t, g2.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, g2.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.ShaderStageFragment, g2.Entries[0].Visibility)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, g2.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g2.Entries[1].Visibility)

	assert.Equal(t, "draw", s.BindingName(1, 0))
	assert.Equal(t, "points", s.BindingName(1, 1))
	assert.Empty(t, s.BindingName(3, 0))

	_, ok = s.BindGroupLayoutDescriptor(3)
	assert.False(t, ok)
}

func TestNewShaderReflectsVertexInputs(t *testing.T) {
	s, err := NewShader("lines", lineShader)
	require.NoError(t, err)
	layout := s.VertexLayout()
	assert.Equal(t, uint64(28), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 2},
	}, layout.Attributes)
}

func TestStructSizesFollowWGSLAlignment(t *testing.T) {
	s, err := NewShader("lines", lineShader)
	require.NoError(t, err)

	size, ok := s.StructSize("Globals")
	require.True(t, ok)
	assert.Equal(t, uint64(80), size)

	size, _ = s.StructSize("Draw")
	assert.Equal(t, uint64(80), size)

	_, ok = s.StructSize("Missing")
	assert.False(t, ok)
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{
			name:   "no fragment stage",
			source: "@vertex fn vs() -> @builtin(position) vec4<f32> { return vec4<f32>(); }",
			want:   ErrMissingEntryPoint,
		},
		{
			name:   "commented out entry point",
			source: "@vertex fn vs() {}\n// @fragment fn fs() {}",
			want:   ErrMissingEntryPoint,
		},
		{
			name:   "unknown bound struct",
			source: "@group(0) @binding(0) var<uniform> u: Unknown;\n@vertex fn vs() {}\n@fragment fn fs() {}",
			want:   ErrUnsupportedType,
		},
		{
			name:   "unknown vertex input",
			source: "@vertex fn vs(@location(0) m: mat2x2<f32>) {}\n@fragment fn fs() {}",
			want:   ErrUnsupportedType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShader(tt.name, tt.source)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStripComments(t *testing.T) {
	got := stripComments("a // b\nc /* d /* e */ f */ g")
	assert.Equal(t, "a \nc  g", got)
}
