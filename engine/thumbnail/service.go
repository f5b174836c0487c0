// Package thumbnail renders STL files into images, files and windows. It ties the mesh
// loader, the context acquirer, the renderer and the encoders together for one call.
package thumbnail

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/camera"
	"github.com/Carmen-Shannon/stl-thumb/engine/config"
	"github.com/Carmen-Shannon/stl-thumb/engine/device"
	"github.com/Carmen-Shannon/stl-thumb/engine/encoder"
	"github.com/Carmen-Shannon/stl-thumb/engine/light"
	"github.com/Carmen-Shannon/stl-thumb/engine/mesh"
	"github.com/Carmen-Shannon/stl-thumb/engine/profiler"
	"github.com/Carmen-Shannon/stl-thumb/engine/renderer"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// WindowTitle is the title of the interactive preview window.
const WindowTitle = "stl-thumb"

// RendererFactory creates a renderer for cfg on an acquired context.
type RendererFactory func(ctx device.Context, cfg *config.Config, logger *log.Logger) (renderer.Renderer, error)

// service implements the Service interface.
type service struct {
	acquirer        device.Acquirer
	hiddenWindow    device.Strategy
	hiddenWindowSet bool
	window          device.Strategy
	newRenderer     RendererFactory
	stdout          io.Writer
	logger          *log.Logger
}

// Service renders thumbnails. Every call creates, uses and releases its own GPU context;
// nothing is shared between calls.
type Service interface {
	// RenderToImage renders the configured STL file into a pixel buffer.
	// When the acquirer is exhausted the hidden window strategy is tried, unless the
	// acquirer already has it.
	//
	// Parameters:
	//   - cfg: the render configuration
	//
	// Returns:
	//   - *common.PixelBuffer: Width*Height*4 bytes of RGBA, top row first
	//   - error: *mesh.MeshError for bad input, device.ErrExhausted when no context could be
	//     acquired, *renderer.GPUError or ErrRenderAborted when rendering failed
	RenderToImage(cfg *config.Config) (*common.PixelBuffer, error)

	// RenderToFile renders like RenderToImage, then encodes the result in cfg.Format() and
	// writes it to cfg.OutputPath(), or to the service's stdout when the path is empty.
	//
	// Parameters:
	//   - cfg: the render configuration
	//
	// Returns:
	//   - error: any render, encode or write error
	RenderToFile(cfg *config.Config) error

	// RenderToWindow opens a visible window, renders the model once and shows it until the
	// window is closed. Redraws reuse the first frame.
	//
	// Parameters:
	//   - cfg: the render configuration
	//
	// Returns:
	//   - error: any setup or render error
	RenderToWindow(cfg *config.Config) error
}

var _ Service = &service{}

// NewService creates a Service with the given options applied over the defaults.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Service: the service
func NewService(options ...ServiceBuilderOption) Service {
	s := &service{
		window:      device.NewWindowStrategy(WindowTitle),
		newRenderer: defaultRendererFactory,
		stdout:      os.Stdout,
	}
	for _, opt := range options {
		opt(s)
	}
	s.logger = common.Coalesce(s.logger, common.Logger())
	if s.acquirer == nil {
		s.acquirer = device.NewAcquirer(device.WithLogger(s.logger))
	}
	if !s.hiddenWindowSet {
		s.hiddenWindow = device.NewHiddenWindowStrategy()
	}
	return s
}

func defaultRendererFactory(ctx device.Context, cfg *config.Config, logger *log.Logger) (renderer.Renderer, error) {
	mode := renderer.PresentModeVSync
	if !cfg.VSync() {
		mode = renderer.PresentModeUncapped
	}
	return renderer.NewRenderer(ctx,
		renderer.WithSize(cfg.Width(), cfg.Height()),
		renderer.WithLight(light.NewLight(light.WithDirection(cfg.LightDirection()))),
		renderer.WithPresentMode(mode),
		renderer.WithLogger(logger),
	)
}

func (s *service) RenderToImage(cfg *config.Config) (*common.PixelBuffer, error) {
	logger := s.renderLogger(cfg)
	prof := profiler.NewProfiler(logger)
	defer prof.Report()

	m, err := mesh.Load(cfg.StlPath(), mesh.WithRecalcNormals(cfg.RecalcNormals()))
	if err != nil {
		return nil, err
	}
	prof.Mark("load")

	ctx, err := s.acquire(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer ctx.Release()
	prof.Mark("acquire")
	logger.Debug("context acquired", "strategy", ctx.Strategy())

	var pb *common.PixelBuffer
	err = s.withRenderer(ctx, cfg, logger, func(r renderer.Renderer) error {
		var rerr error
		pb, rerr = r.Render(m, newCamera(cfg), cfg.Material(), cfg.Background())
		return rerr
	})
	if err != nil {
		return nil, err
	}
	prof.Mark("render")
	if err := pb.Validate(); err != nil {
		return nil, err
	}
	if pb.Width != cfg.Width() || pb.Height != cfg.Height() {
		return nil, fmt.Errorf("rendered %dx%d, want %dx%d", pb.Width, pb.Height, cfg.Width(), cfg.Height())
	}
	logger.Info("rendered", "triangles", m.TriangleCount(), "strategy", ctx.Strategy())
	return pb, nil
}

func (s *service) RenderToFile(cfg *config.Config) error {
	enc, err := encoder.NewEncoder(cfg.Format(), cfg.EncoderOptions()...)
	if err != nil {
		return err
	}
	pb, err := s.RenderToImage(cfg)
	if err != nil {
		return err
	}
	if err := encoder.Save(cfg.OutputPath(), s.stdout, enc, pb); err != nil {
		return err
	}
	return nil
}

func (s *service) RenderToWindow(cfg *config.Config) error {
	logger := s.renderLogger(cfg)

	m, err := mesh.Load(cfg.StlPath(), mesh.WithRecalcNormals(cfg.RecalcNormals()))
	if err != nil {
		return err
	}

	acquirer := device.NewAcquirer(device.WithStrategies(s.window), device.WithLogger(logger))
	outcome, err := acquirer.Acquire(device.Request{Width: cfg.Width(), Height: cfg.Height()})
	if err != nil {
		return err
	}
	ctx := outcome.Context
	defer ctx.Release()

	win := ctx.Window()
	if win == nil {
		return ErrNoWindow
	}

	return s.withRenderer(ctx, cfg, logger, func(r renderer.Renderer) error {
		if err := r.RenderTarget(m, newCamera(cfg), cfg.Material(), cfg.Background()); err != nil {
			return err
		}

		redraw := func() {
			if err := r.Blit(); err != nil {
				logger.Warn("redraw failed", "err", err)
			}
		}
		win.SetRefreshCallback(redraw)
		redraw()
		logger.Info("window open", "width", win.Width(), "height", win.Height())

		win.ProcessMessages()
		return nil
	})
}

// acquire runs the acquirer and, on exhaustion, the hidden window fallback.
func (s *service) acquire(cfg *config.Config, logger *log.Logger) (device.Context, error) {
	req := device.Request{Width: cfg.Width(), Height: cfg.Height()}
	outcome, err := s.acquirer.Acquire(req)
	if err == nil {
		return outcome.Context, nil
	}
	if !errors.Is(err, device.ErrExhausted) || s.hiddenWindow == nil || s.acquirer.Has(s.hiddenWindow.Name()) {
		return nil, err
	}

	logger.Warn("offscreen contexts exhausted, trying hidden window", "err", err)
	fallback := device.NewAcquirer(device.WithStrategies(s.hiddenWindow), device.WithLogger(logger))
	outcome, ferr := fallback.Acquire(req)
	if ferr != nil {
		return nil, fmt.Errorf("%w (offscreen: %v)", ferr, err)
	}
	return outcome.Context, nil
}

// withRenderer creates a renderer, runs fn with it and releases it. A panic raised while
// the renderer is alive is returned as ErrRenderAborted.
func (s *service) withRenderer(ctx device.Context, cfg *config.Config, logger *log.Logger, fn func(renderer.Renderer) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = abortError(r)
			logger.Error("render aborted", "err", err)
		}
	}()

	r, err := s.newRenderer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer r.Release()
	return fn(r)
}

func (s *service) renderLogger(cfg *config.Config) *log.Logger {
	return s.logger.With("render_id", uuid.NewString(), "stl", cfg.StlPath())
}

func newCamera(cfg *config.Config) camera.Camera {
	return camera.NewCamera(camera.WithAspect(cfg.Aspect()))
}
