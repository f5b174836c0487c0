package device

// StrategyName identifies a context acquisition strategy in logs and outcomes.
type StrategyName string

const (
	StrategySurfaceless  StrategyName = "surfaceless"
	StrategyHeadless     StrategyName = "headless"
	StrategySoftware     StrategyName = "software"
	StrategyHiddenWindow StrategyName = "hidden-window"
	StrategyWindow       StrategyName = "window"
)

// Request describes the output a context must be able to render.
type Request struct {
	Width  int
	Height int
}

// Strategy is one way of obtaining a rendering context.
type Strategy interface {
	// Name identifies the strategy.
	//
	// Returns:
	//   - StrategyName: the strategy name
	Name() StrategyName

	// NeedsSubstrate reports whether Acquire builds on the shared substrate. Such
	// strategies are skipped when the substrate could not be built.
	//
	// Returns:
	//   - bool: true if the substrate is required
	NeedsSubstrate() bool

	// Acquire tries to create a context. sub is nil for strategies that do not need it.
	// A returned context takes ownership of sub.
	//
	// Parameters:
	//   - sub: the shared substrate or nil
	//   - req: output dimensions
	//
	// Returns:
	//   - Context: the live context
	//   - error: the reason the strategy failed
	Acquire(sub Substrate, req Request) (Context, error)
}
