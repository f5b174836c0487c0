package device

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/charmbracelet/log"
)

// State is the terminal state of an acquisition.
type State int

const (
	// StateAcquired means Outcome.Context holds a live context.
	StateAcquired State = iota

	// StateExhausted means every strategy failed.
	StateExhausted
)

func (s State) String() string {
	if s == StateAcquired {
		return "acquired"
	}
	return "exhausted"
}

// Attempt records one strategy that was tried (or skipped) and why it failed.
// Err is nil for the strategy that succeeded.
type Attempt struct {
	Strategy StrategyName
	Err      error
}

// Outcome is the result of Acquirer.Acquire.
type Outcome struct {
	State     State
	Context   Context
	Substrate SubstrateState
	Attempts  []Attempt
}

// Acquirer walks an ordered list of strategies until one yields a context.
type Acquirer interface {
	// Acquire tries each strategy in order. Strategies needing the substrate are skipped
	// when it could not be built. Panics in the substrate or a strategy are contained
	// and treated as that step failing.
	//
	// Parameters:
	//   - req: output dimensions
	//
	// Returns:
	//   - Outcome: the terminal state, the context when acquired, and every attempt
	//   - error: wraps ErrExhausted and the last strategy error when nothing succeeded
	Acquire(req Request) (Outcome, error)

	// Strategies returns the configured strategy order.
	//
	// Returns:
	//   - []Strategy: the strategies
	Strategies() []Strategy

	// Has reports whether a strategy with the given name is in the chain.
	//
	// Parameters:
	//   - name: the strategy name
	//
	// Returns:
	//   - bool: true if present
	Has(name StrategyName) bool
}

// acquirer is the implementation of the Acquirer interface.
type acquirer struct {
	strategies       []Strategy
	substrateFactory SubstrateFactory
	logger           *log.Logger
}

var _ Acquirer = &acquirer{}

// NewAcquirer creates an Acquirer. Without options it uses DefaultStrategies and
// NewInstanceSubstrate.
//
// Parameters:
//   - opts: functional options
//
// Returns:
//   - Acquirer: the acquirer
func NewAcquirer(opts ...AcquirerBuilderOption) Acquirer {
	a := &acquirer{
		strategies:       DefaultStrategies(),
		substrateFactory: NewInstanceSubstrate,
		logger:           common.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *acquirer) Strategies() []Strategy {
	return a.strategies
}

func (a *acquirer) Has(name StrategyName) bool {
	for _, s := range a.strategies {
		if s.Name() == name {
			return true
		}
	}
	return false
}

func (a *acquirer) Acquire(req Request) (Outcome, error) {
	out := Outcome{State: StateExhausted, Substrate: SubstrateFailed}
	if len(a.strategies) == 0 {
		return out, fmt.Errorf("%w: no strategies configured", ErrExhausted)
	}

	var sub Substrate
	var subErr error
	if a.needsSubstrate() {
		sub, out.Substrate, subErr = guardSubstrate(a.substrateFactory)
		if subErr != nil {
			a.logger.Warn("gpu substrate unavailable, skipping substrate strategies", "state", out.Substrate, "reason", subErr)
		}
	}

	handedOff := false
	defer func() {
		if sub != nil && !handedOff {
			sub.Release()
		}
	}()

	var lastErr error
	for i, s := range a.strategies {
		var err error
		var ctx Context
		if s.NeedsSubstrate() && sub == nil {
			err = fmt.Errorf("%w: %w", ErrSubstrateUnavailable, subErr)
		} else {
			ctx, err = attempt(s, sub, req)
		}

		if err == nil {
			out.Attempts = append(out.Attempts, Attempt{Strategy: s.Name()})
			out.State = StateAcquired
			out.Context = ctx
			handedOff = s.NeedsSubstrate()
			a.logger.Debug("rendering context acquired", "strategy", s.Name())
			return out, nil
		}

		out.Attempts = append(out.Attempts, Attempt{Strategy: s.Name(), Err: err})
		lastErr = err
		a.logger.Warn("context strategy failed", "strategy", s.Name(), "next", nextName(a.strategies, i), "reason", err)
	}

	return out, fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}

func (a *acquirer) needsSubstrate() bool {
	for _, s := range a.strategies {
		if s.NeedsSubstrate() {
			return true
		}
	}
	return false
}

// attempt runs one strategy inside a recover boundary.
func attempt(s Strategy, sub Substrate, req Request) (ctx Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx = nil
			err = fmt.Errorf("strategy %s aborted: %v", s.Name(), r)
		}
	}()

	ctx, err = s.Acquire(sub, req)
	if err == nil && ctx == nil {
		err = errors.New("strategy returned no context")
	}
	return ctx, err
}

func nextName(strategies []Strategy, i int) string {
	if i+1 < len(strategies) {
		return string(strategies[i+1].Name())
	}
	return "none"
}
