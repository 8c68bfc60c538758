package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during reflection.
type ShaderBuilderOption func(*shader)

// WithDynamicOffsets marks every uniform buffer binding as taking a dynamic offset.
func WithDynamicOffsets() ShaderBuilderOption {
	return func(s *shader) {
		s.dynamic = true
	}
}

// WithVisibility overrides the stages a binding is visible to. Bindings default to the
// vertex and fragment stages.
//
// Parameters:
//   - group: the @group index
//   - binding: the @binding index
//   - stages: the visibility flags
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithVisibility(group, binding int, stages wgpu.ShaderStage) ShaderBuilderOption {
	return func(s *shader) {
		s.visibility[[2]int{group, binding}] = stages
	}
}
