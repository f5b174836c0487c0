package shader

import (
	_ "embed"
	"fmt"
)

//go:embed assets/model.wgsl
var modelSource string

//go:embed assets/blit.wgsl
var blitSource string

const (
	// KeyModel labels the shaded mesh program.
	KeyModel = "model"

	// KeyBlit labels the full-screen copy program used in window mode.
	KeyBlit = "blit"
)

// Program is a vertex and fragment shader pair from one WGSL source.
type Program struct {
	Vertex   Shader
	Fragment Shader
}

// NewProgram parses both stages out of a single WGSL source.
//
// Parameters:
//   - key: identifier used in labels
//   - source: WGSL source with a @vertex and a @fragment entry point
//
// Returns:
//   - Program: the parsed stages
//   - error: *CompileError if either stage is missing
func NewProgram(key, source string) (Program, error) {
	vs, err := NewShader(key, ShaderTypeVertex, source)
	if err != nil {
		return Program{}, err
	}
	fs, err := NewShader(key, ShaderTypeFragment, source)
	if err != nil {
		return Program{}, err
	}
	return Program{Vertex: vs, Fragment: fs}, nil
}

// ModelProgram returns the Blinn-Phong mesh program.
func ModelProgram() Program {
	return mustProgram(KeyModel, modelSource)
}

// BlitProgram returns the program that copies a cached frame onto a surface.
func BlitProgram() Program {
	return mustProgram(KeyBlit, blitSource)
}

// ModelSource returns the embedded WGSL of the model program.
func ModelSource() string {
	return modelSource
}

// BlitSource returns the embedded WGSL of the blit program.
func BlitSource() string {
	return blitSource
}

// mustProgram parses an embedded program. Embedded sources are part of the binary, so a
// failure here is a build defect and panics with the *CompileError.
func mustProgram(key, source string) Program {
	p, err := NewProgram(key, source)
	if err != nil {
		panic(fmt.Errorf("embedded program: %w", err))
	}
	return p
}
