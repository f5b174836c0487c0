package renderer

import "fmt"

// GPUError reports a failed GPU operation such as an allocation, a submission or a readback.
type GPUError struct {
	Op  string
	Err error
}

func (e *GPUError) Error() string {
	return fmt.Sprintf("gpu %s: %v", e.Op, e.Err)
}

func (e *GPUError) Unwrap() error {
	return e.Err
}

func gpuErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GPUError{Op: op, Err: err}
}
