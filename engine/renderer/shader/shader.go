// Package shader reflects WGSL source into the layouts a render pipeline is built from:
// entry points, the vertex buffer layout and one bind group layout per @group.
package shader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

var (
	// ErrMissingEntryPoint is returned when a render shader lacks a @vertex or @fragment function.
	ErrMissingEntryPoint = errors.New("shader has no entry point for stage")

	// ErrUnsupportedType is returned when a bound or vertex input type has no known layout.
	ErrUnsupportedType = errors.New("unsupported WGSL type")
)

// shader is the implementation of the Shader interface.
type shader struct {
	key         string
	source      string
	entryPoints map[Stage]string
	groups      map[int]wgpu.BindGroupLayoutDescriptor
	varNames    map[int]map[int]string
	structs     map[string]typeLayout
	vertex      wgpu.VertexBufferLayout

	dynamic    bool
	visibility map[[2]int]wgpu.ShaderStage
}

// Shader is a reflected WGSL render shader.
type Shader interface {
	// Key returns the identifier the shader was created with.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Source returns the WGSL source.
	//
	// Returns:
	//   - string: the source
	Source() string

	// EntryPoint returns the function name of a stage.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the entry point, empty when the stage has none
	EntryPoint(stage Stage) string

	// Groups returns the declared group indices in ascending order.
	//
	// Returns:
	//   - []int: the group indices
	Groups() []int

	// BindGroupLayoutDescriptor returns the layout of one group, entries sorted by binding.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor
	//   - bool: false when the group is not declared
	BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool)

	// BindingName returns the variable declared at a group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - string: the variable name, empty when undeclared
	BindingName(group, binding int) string

	// StructSize returns the host-shareable size of a declared struct.
	//
	// Parameters:
	//   - name: the struct name
	//
	// Returns:
	//   - uint64: the size in bytes
	//   - bool: false when the struct is unknown or unsized
	StructSize(name string) (uint64, bool)

	// VertexLayout returns the buffer layout of the vertex entry point's @location inputs.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the layout, zero stride when the entry point takes none
	VertexLayout() wgpu.VertexBufferLayout

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader reflects a render shader.
//
// Parameters:
//   - key: identifier used for labels
//   - source: the WGSL source with one @vertex and one @fragment function
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the reflected shader
//   - error: a missing entry point or an unsupported bound type
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		source:     source,
		visibility: make(map[[2]int]wgpu.ShaderStage),
	}
	for _, opt := range options {
		opt(s)
	}

	cleaned := stripComments(source)
	s.entryPoints = map[Stage]string{
		StageVertex:   findEntryPoint(cleaned, StageVertex),
		StageFragment: findEntryPoint(cleaned, StageFragment),
	}
	for _, stage := range []Stage{StageVertex, StageFragment} {
		if s.entryPoints[stage] == "" {
			return nil, fmt.Errorf("%w: %s in %q", ErrMissingEntryPoint, stage, key)
		}
	}

	s.structs = structLayouts(parseStructs(cleaned))
	groups, names, err := reflectBindings(cleaned, s.structs)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect bindings of %q: %w", key, err)
	}
	s.varNames = names
	s.groups = make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		for i := range entries {
			e := &entries[i]
			e.Visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
			if v, ok := s.visibility[[2]int{g, int(e.Binding)}]; ok {
				e.Visibility = v
			}
			if s.dynamic && e.Buffer.Type == wgpu.BufferBindingTypeUniform {
				e.Buffer.HasDynamicOffset = true
			}
		}
		s.groups[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s Group %d", key, g),
			Entries: entries,
		}
	}

	s.vertex, err = vertexInputs(cleaned, s.entryPoints[StageVertex])
	if err != nil {
		return nil, fmt.Errorf("failed to reflect vertex inputs of %q: %w", key, err)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage Stage) string {
	return s.entryPoints[stage]
}

func (s *shader) Groups() []int {
	out := make([]int, 0, len(s.groups))
	for g := range s.groups {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

func (s *shader) BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool) {
	d, ok := s.groups[group]
	return d, ok
}

func (s *shader) BindingName(group, binding int) string {
	return s.varNames[group][binding]
}

func (s *shader) StructSize(name string) (uint64, bool) {
	l, ok := s.structs[name]
	return l.size, ok
}

func (s *shader) VertexLayout() wgpu.VertexBufferLayout {
	return s.vertex
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label:          s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.source},
	}
}
