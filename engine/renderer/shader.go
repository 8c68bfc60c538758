package renderer

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/light"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// uniformStride is the dynamic offset alignment every slot is padded to.
	uniformStride = 256

	// frameLightSlots is one ambient light plus the directional rig.
	frameLightSlots = light.MaxGPULights + 1

	frameUniformSize  = uniformStride
	objectUniformSize = 96
	lightsOffset      = 80
	lightCountOffset  = lightsOffset + frameLightSlots*light.GPULightSize
)

const objectShaderBody = `
struct Frame {
    camera: CameraUniform,
    lights: array<Light, 5>,
    light_count: u32,
};

struct Object {
    model: mat4x4<f32>,
    material: Material,
};

@group(0) @binding(0) var<uniform> frame: Frame;
@group(1) @binding(0) var<uniform> object: Object;
@group(1) @binding(1) var<uniform> clip: ClipSet;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> VertexOutput {
    let world = object.model * vec4<f32>(position, 1.0);
    var out: VertexOutput;
    out.clip_position = frame.camera.view_proj * world;
    out.world = world.xyz;
    return out;
}

fn is_clipped(p: vec3<f32>) -> bool {
    let count = object.material.clip_count;
    if (count == 0u) {
        return false;
    }
    var outside_any = false;
    var outside_all = true;
    for (var i = 0u; i < count; i = i + 1u) {
        let plane = clip.planes[i];
        let outside = dot(plane.xyz, p) + plane.w < 0.0;
        outside_any = outside_any || outside;
        outside_all = outside_all && outside;
    }
    if (object.material.clip_intersection == 1u) {
        return outside_all;
    }
    return outside_any;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let normal = normalize(cross(dpdx(in.world), dpdy(in.world)));
    if (is_clipped(in.world)) {
        discard;
    }
    let base = object.material.color;
    if (object.material.lit == 0u) {
        return base;
    }
    var shade = vec3<f32>(0.0);
    for (var i = 0u; i < frame.light_count; i = i + 1u) {
        let l = frame.lights[i];
        var amount = 1.0;
        if (l.kind == 1u) {
            amount = abs(dot(normal, -l.direction));
        }
        shade = shade + l.color * l.intensity * amount;
    }
    return vec4<f32>(base.rgb * shade, base.a);
}
`

// objectShaderSource assembles the object shader from the uniform definitions of the
// camera, light and material packages.
func objectShaderSource() string {
	var sb strings.Builder
	sb.WriteString(camera.GPUCameraUniformSource)
	sb.WriteString("\n\n")
	sb.WriteString(light.GPULightSource)
	sb.WriteString("\n\n")
	sb.WriteString(material.GPUMaterialSource)
	sb.WriteString("\n")
	sb.WriteString(objectShaderBody)
	return sb.String()
}

// newObjectShader reflects the object shader. Every uniform takes a dynamic offset and the
// clip set is only read by the fragment stage.
func newObjectShader() (shader.Shader, error) {
	return shader.NewShader("Object Shader", objectShaderSource(),
		shader.WithDynamicOffsets(),
		shader.WithVisibility(1, 1, wgpu.ShaderStageFragment),
	)
}

// marshalFrameUniform packs the camera and up to frameLightSlots lights into one
// uniform slot. Ambient lights are packed first.
func marshalFrameUniform(cam camera.Camera, lights []light.Light) []byte {
	buf := make([]byte, frameUniformSize)
	cu := camera.NewGPUCameraUniform(cam)
	copy(buf, cu.Marshal())

	ordered := make([]light.Light, 0, len(lights))
	for _, l := range lights {
		if l.Type() == light.LightTypeAmbient {
			ordered = append(ordered, l)
		}
	}
	for _, l := range lights {
		if l.Type() != light.LightTypeAmbient {
			ordered = append(ordered, l)
		}
	}
	n := min(len(ordered), frameLightSlots)
	for i, l := range ordered[:n] {
		gl := light.NewGPULight(l)
		copy(buf[lightsOffset+i*light.GPULightSize:], gl.Marshal())
	}
	binary.LittleEndian.PutUint32(buf[lightCountOffset:], uint32(n))
	return buf
}

// marshalObjectUniform packs the model matrix and material state of one draw.
func marshalObjectUniform(item DrawItem) []byte {
	buf := make([]byte, objectUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(item.World[i]))
	}
	gm := material.NewGPUMaterial(item.Object.Material, item.Lit)
	copy(buf[64:], gm.Marshal())
	return buf
}
