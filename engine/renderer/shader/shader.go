package shader

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is one stage of a parsed WGSL program. The layouts a pipeline needs are
// read from the source so the Go side never restates them by hand.
type Shader interface {
	// Key retrieves the identifier used for labels and error messages.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Source retrieves the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// ShaderType returns the pipeline stage of this shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point function name for this stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// VertexLayouts returns the vertex buffer layouts in slot order. Each pure vertex
	// input struct in the source becomes one buffer slot. Empty for fragment shaders.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: layouts indexed by vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors retrieves the bind group layouts declared by the source,
	// with visibility set to this shader's stage.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the WGSL module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses WGSL source for the given stage.
//
// Parameters:
//   - key: identifier for labels and errors
//   - shaderType: the stage whose entry point is wanted
//   - source: WGSL source code
//
// Returns:
//   - Shader: the parsed shader
//   - error: *CompileError if the source is empty or has no entry point for the stage
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	if source == "" {
		return nil, &CompileError{Key: key, Stage: shaderType, Err: ErrEmptySource}
	}

	entry := parseEntryPoint(source, shaderType)
	if entry == "" {
		return nil, &CompileError{Key: key, Stage: shaderType, Err: ErrMissingEntryPoint}
	}

	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		entryPoint: entry,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key + " " + shaderType.String(),
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(source)
	}
	s.bindGroupLayoutDescriptors = parseBindGroupLayouts(source, visibility)

	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// MergeBindGroupLayouts combines the layouts of both stages of a program. Entries that
// appear in both stages at the same binding get their visibility flags OR'd together.
//
// Parameters:
//   - stages: the shaders of one program
//
// Returns:
//   - []wgpu.BindGroupLayoutDescriptor: descriptors indexed by group, gaps left empty
func MergeBindGroupLayouts(stages ...Shader) []wgpu.BindGroupLayoutDescriptor {
	maxGroup := -1
	merged := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, s := range stages {
		for group, desc := range s.BindGroupLayoutDescriptors() {
			if group > maxGroup {
				maxGroup = group
			}
		next:
			for _, entry := range desc.Entries {
				for i := range merged[group] {
					if merged[group][i].Binding == entry.Binding {
						merged[group][i].Visibility |= entry.Visibility
						continue next
					}
				}
				merged[group] = append(merged[group], entry)
			}
		}
	}

	out := make([]wgpu.BindGroupLayoutDescriptor, maxGroup+1)
	for group, entries := range merged {
		sortEntries(entries)
		out[group] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return out
}
