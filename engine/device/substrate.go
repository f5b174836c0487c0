package device

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// SubstrateState is the result of building the shared GPU instance.
type SubstrateState int

const (
	// SubstrateBuilt means the instance is ready for substrate strategies.
	SubstrateBuilt SubstrateState = iota

	// SubstrateFailed means construction returned an error.
	SubstrateFailed

	// SubstrateAborted means construction panicked. The panic was contained.
	SubstrateAborted
)

func (s SubstrateState) String() string {
	switch s {
	case SubstrateBuilt:
		return "built"
	case SubstrateFailed:
		return "failed"
	case SubstrateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Substrate is the process-level GPU instance shared by the surfaceless and headless strategies.
type Substrate interface {
	// Instance returns the GPU API instance.
	//
	// Returns:
	//   - *wgpu.Instance: the instance
	Instance() *wgpu.Instance

	// Release frees the instance.
	Release()
}

// SubstrateFactory builds a Substrate. It may return an error or panic.
type SubstrateFactory func() (Substrate, error)

// instanceSubstrate wraps a wgpu instance.
type instanceSubstrate struct {
	instance *wgpu.Instance
	released bool
}

var _ Substrate = &instanceSubstrate{}

// NewInstanceSubstrate is the default SubstrateFactory. It creates a wgpu instance
// with every backend enabled.
//
// Returns:
//   - Substrate: the substrate
//   - error: error if the instance could not be created
func NewInstanceSubstrate() (Substrate, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, errors.New("wgpu returned no instance")
	}
	return &instanceSubstrate{instance: instance}, nil
}

func (s *instanceSubstrate) Instance() *wgpu.Instance {
	return s.instance
}

func (s *instanceSubstrate) Release() {
	if s.released {
		return
	}
	s.released = true
	s.instance.Release()
}

// guardSubstrate runs the factory inside a recover boundary and reports the outcome.
//
// Parameters:
//   - factory: the substrate constructor
//
// Returns:
//   - Substrate: the substrate when the state is SubstrateBuilt, nil otherwise
//   - SubstrateState: built, failed or aborted
//   - error: the failure reason when not built
func guardSubstrate(factory SubstrateFactory) (sub Substrate, state SubstrateState, err error) {
	defer func() {
		if r := recover(); r != nil {
			sub = nil
			state = SubstrateAborted
			err = fmt.Errorf("substrate construction aborted: %v", r)
		}
	}()

	sub, err = factory()
	if err != nil {
		return nil, SubstrateFailed, fmt.Errorf("substrate construction failed: %w", err)
	}
	if sub == nil {
		return nil, SubstrateFailed, errors.New("substrate construction returned nothing")
	}
	return sub, SubstrateBuilt, nil
}
