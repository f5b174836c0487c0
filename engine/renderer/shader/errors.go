package shader

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySource       = errors.New("empty shader source")
	ErrMissingEntryPoint = errors.New("no entry point for stage")
)

// CompileError reports a shader that could not be parsed or compiled into a GPU module.
// A render cannot continue without its shaders, so renderers raise it as a panic.
type CompileError struct {
	Key   string
	Stage ShaderType
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %s (%s): %v", e.Key, e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
