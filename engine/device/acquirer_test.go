package device

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name      StrategyName
	substrate bool
	err       error
	panicWith any
	calls     int
	gotSub    Substrate
}

func (f *fakeStrategy) Name() StrategyName   { return f.name }
func (f *fakeStrategy) NeedsSubstrate() bool { return f.substrate }

func (f *fakeStrategy) Acquire(sub Substrate, _ Request) (Context, error) {
	f.calls++
	f.gotSub = sub
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &gpuContext{strategy: f.name, substrate: sub}, nil
}

type fakeSubstrate struct {
	releases int
}

func (f *fakeSubstrate) Instance() *wgpu.Instance { return nil }
func (f *fakeSubstrate) Release()                 { f.releases++ }

func quietLogger(buf *bytes.Buffer) *log.Logger {
	l := log.New(buf)
	l.SetLevel(log.WarnLevel)
	return l
}

func TestAcquireFallsThroughToSoftware(t *testing.T) {
	errSurfaceless := errors.New("no surfaceless platform")
	errHeadless := errors.New("no GL driver")
	surfaceless := &fakeStrategy{name: StrategySurfaceless, substrate: true, err: errSurfaceless}
	headless := &fakeStrategy{name: StrategyHeadless, substrate: true, err: errHeadless}
	software := &fakeStrategy{name: StrategySoftware}
	sub := &fakeSubstrate{}

	var logs bytes.Buffer
	a := NewAcquirer(
		WithStrategies(surfaceless, headless, software),
		WithSubstrateFactory(func() (Substrate, error) { return sub, nil }),
		WithLogger(quietLogger(&logs)),
	)

	out, err := a.Acquire(Request{Width: 256, Height: 256})
	require.NoError(t, err)
	assert.Equal(t, StateAcquired, out.State)
	assert.Equal(t, SubstrateBuilt, out.Substrate)
	require.NotNil(t, out.Context)
	assert.Equal(t, StrategySoftware, out.Context.Strategy())

	require.Len(t, out.Attempts, 3)
	assert.ErrorIs(t, out.Attempts[0].Err, errSurfaceless)
	assert.ErrorIs(t, out.Attempts[1].Err, errHeadless)
	assert.NoError(t, out.Attempts[2].Err)

	assert.Same(t, sub, surfaceless.gotSub)
	assert.Nil(t, software.gotSub)
	assert.Equal(t, 1, sub.releases, "unused substrate is released")

	assert.Contains(t, logs.String(), "strategy=surfaceless")
	assert.Contains(t, logs.String(), "next=headless")
	assert.Contains(t, logs.String(), "next=software")
}

func TestSubstrateFailureSkipsSubstrateStrategies(t *testing.T) {
	tests := []struct {
		name    string
		factory SubstrateFactory
		state   SubstrateState
	}{
		{
			name:    "panic",
			factory: func() (Substrate, error) { panic("driver exploded") },
			state:   SubstrateAborted,
		},
		{
			name:    "error",
			factory: func() (Substrate, error) { return nil, errors.New("no backends") },
			state:   SubstrateFailed,
		},
		{
			name:    "nil substrate",
			factory: func() (Substrate, error) { return nil, nil },
			state:   SubstrateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surfaceless := &fakeStrategy{name: StrategySurfaceless, substrate: true}
			headless := &fakeStrategy{name: StrategyHeadless, substrate: true}
			software := &fakeStrategy{name: StrategySoftware}

			var logs bytes.Buffer
			a := NewAcquirer(
				WithStrategies(surfaceless, headless, software),
				WithSubstrateFactory(tt.factory),
				WithLogger(quietLogger(&logs)),
			)

			out, err := a.Acquire(Request{Width: 64, Height: 64})
			require.NoError(t, err)
			assert.Equal(t, tt.state, out.Substrate)
			assert.Equal(t, StrategySoftware, out.Context.Strategy())
			assert.Zero(t, surfaceless.calls)
			assert.Zero(t, headless.calls)
			assert.Equal(t, 1, software.calls)

			require.Len(t, out.Attempts, 3)
			assert.ErrorIs(t, out.Attempts[0].Err, ErrSubstrateUnavailable)
			assert.ErrorIs(t, out.Attempts[1].Err, ErrSubstrateUnavailable)
			assert.Contains(t, logs.String(), "substrate unavailable")
		})
	}
}

func TestExhaustionWrapsLastError(t *testing.T) {
	errLast := errors.New("fallback adapter missing")
	a := NewAcquirer(
		WithStrategies(
			&fakeStrategy{name: StrategyHeadless, substrate: true, err: errors.New("first")},
			&fakeStrategy{name: StrategySoftware, err: errLast},
		),
		WithSubstrateFactory(func() (Substrate, error) { return &fakeSubstrate{}, nil }),
		WithLogger(quietLogger(&bytes.Buffer{})),
	)

	out, err := a.Acquire(Request{Width: 1, Height: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, errLast)
	assert.Equal(t, StateExhausted, out.State)
	assert.Nil(t, out.Context)
	assert.Len(t, out.Attempts, 2)
}

func TestStrategyPanicIsContained(t *testing.T) {
	crashing := &fakeStrategy{name: StrategySoftware, panicWith: "segv in driver"}
	hidden := &fakeStrategy{name: StrategyHiddenWindow}

	a := NewAcquirer(
		WithStrategies(crashing, hidden),
		WithLogger(quietLogger(&bytes.Buffer{})),
	)

	out, err := a.Acquire(Request{Width: 32, Height: 32})
	require.NoError(t, err)
	assert.Equal(t, StrategyHiddenWindow, out.Context.Strategy())
	require.Len(t, out.Attempts, 2)
	assert.ErrorContains(t, out.Attempts[0].Err, "segv in driver")
}

func TestSubstrateHandedToContext(t *testing.T) {
	sub := &fakeSubstrate{}
	a := NewAcquirer(
		WithStrategies(&fakeStrategy{name: StrategySurfaceless, substrate: true}),
		WithSubstrateFactory(func() (Substrate, error) { return sub, nil }),
		WithLogger(quietLogger(&bytes.Buffer{})),
	)

	out, err := a.Acquire(Request{Width: 8, Height: 8})
	require.NoError(t, err)
	assert.Zero(t, sub.releases)

	out.Context.Release()
	out.Context.Release()
	assert.Equal(t, 1, sub.releases)
}

func TestSubstrateNotBuiltWithoutSubstrateStrategies(t *testing.T) {
	built := false
	a := NewAcquirer(
		WithStrategies(&fakeStrategy{name: StrategySoftware}),
		WithSubstrateFactory(func() (Substrate, error) {
			built = true
			return &fakeSubstrate{}, nil
		}),
	)

	_, err := a.Acquire(Request{Width: 8, Height: 8})
	require.NoError(t, err)
	assert.False(t, built)
}

func TestNilContextIsFailure(t *testing.T) {
	a := NewAcquirer(
		WithStrategies(nilStrategy{}),
		WithLogger(quietLogger(&bytes.Buffer{})),
	)

	_, err := a.Acquire(Request{Width: 8, Height: 8})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorContains(t, err, "no context")
}

func TestEmptyChainIsExhausted(t *testing.T) {
	_, err := NewAcquirer(WithStrategies()).Acquire(Request{Width: 8, Height: 8})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestHasAndAppend(t *testing.T) {
	a := NewAcquirer(
		WithStrategies(&fakeStrategy{name: StrategySoftware}),
		WithAppendedStrategies(NewHiddenWindowStrategy()),
	)

	assert.True(t, a.Has(StrategySoftware))
	assert.True(t, a.Has(StrategyHiddenWindow))
	assert.False(t, a.Has(StrategyHeadless))
	assert.Len(t, a.Strategies(), 2)
}

func TestDefaultStrategiesAreOffscreen(t *testing.T) {
	strategies := DefaultStrategies()
	require.NotEmpty(t, strategies)

	names := make([]StrategyName, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	assert.Equal(t, StrategySoftware, names[len(names)-1])
	assert.Contains(t, names, StrategyHeadless)
	assert.NotContains(t, names, StrategyHiddenWindow)
	assert.NotContains(t, names, StrategyWindow)
}

func TestSubstrateStateString(t *testing.T) {
	assert.Equal(t, "built", SubstrateBuilt.String())
	assert.Equal(t, "failed", SubstrateFailed.String())
	assert.Equal(t, "aborted", SubstrateAborted.String())
}

type nilStrategy struct{}

func (nilStrategy) Name() StrategyName                          { return StrategySoftware }
func (nilStrategy) NeedsSubstrate() bool                        { return false }
func (nilStrategy) Acquire(Substrate, Request) (Context, error) { return nil, nil }
