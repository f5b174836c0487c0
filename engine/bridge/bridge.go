// Package bridge exposes the renderer to foreign callers that pass raw pointers: a caller
// owned RGBA buffer and a NUL-terminated UTF-8 path. Each render runs on a pooled worker
// locked to its OS thread, and the caller blocks until it finishes.
package bridge

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"
	"unsafe"

	"github.com/Carmen-Shannon/automation/worker"
	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/config"
	"github.com/Carmen-Shannon/stl-thumb/engine/thumbnail"
	"github.com/charmbracelet/log"
)

const (
	// MaxPathLength bounds the scan for the path terminator.
	MaxPathLength = 1 << 16

	workerIdleTimeout = 5 * time.Second
)

var (
	ErrNilBuffer    = errors.New("output buffer is nil")
	ErrNilPath      = errors.New("path is nil")
	ErrInvalidPath  = errors.New("path is not valid UTF-8")
	ErrPathTooLong  = errors.New("path is not NUL-terminated within the length limit")
	ErrZeroSize     = errors.New("width and height must be non-zero")
	ErrSizeMismatch = errors.New("rendered image does not match the requested size")
)

// RenderFunc renders one configuration into a pixel buffer.
type RenderFunc func(cfg *config.Config) (*common.PixelBuffer, error)

type result struct {
	pb  *common.PixelBuffer
	err error
}

// bridge implements the Bridge interface.
type bridge struct {
	render  RenderFunc
	logger  *log.Logger
	workers int

	poolOnce sync.Once
	pool     worker.DynamicWorkerPool
	nextID   atomic.Int64
}

// Bridge renders into memory owned by a foreign caller.
type Bridge interface {
	// RenderToBuffer renders the STL file at path into buf.
	// buf must hold exactly width*height*4 bytes; this is not checked.
	//
	// Parameters:
	//   - buf: destination for RGBA8 pixels, top row first
	//   - width: output width in pixels
	//   - height: output height in pixels
	//   - path: NUL-terminated UTF-8 file path
	//
	// Returns:
	//   - bool: true when buf was filled, false on any failure (the reason is logged)
	RenderToBuffer(buf unsafe.Pointer, width, height uint32, path unsafe.Pointer) bool
}

var _ Bridge = &bridge{}

var (
	defaultOnce   sync.Once
	defaultBridge Bridge
)

// NewBridge creates a Bridge with the given options applied over the defaults.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Bridge: the bridge
func NewBridge(options ...BridgeBuilderOption) Bridge {
	b := &bridge{workers: 1}
	for _, opt := range options {
		opt(b)
	}
	b.logger = common.Coalesce(b.logger, common.Logger())
	if b.render == nil {
		svc := thumbnail.NewService(thumbnail.WithLogger(b.logger))
		b.render = svc.RenderToImage
	}
	return b
}

// RenderToBuffer renders through the process-wide default Bridge.
//
// Parameters:
//   - buf: destination for width*height*4 bytes of RGBA8
//   - width: output width in pixels
//   - height: output height in pixels
//   - path: NUL-terminated UTF-8 file path
//
// Returns:
//   - bool: true on success
func RenderToBuffer(buf unsafe.Pointer, width, height uint32, path unsafe.Pointer) bool {
	defaultOnce.Do(func() {
		defaultBridge = NewBridge()
	})
	return defaultBridge.RenderToBuffer(buf, width, height, path)
}

func (b *bridge) RenderToBuffer(buf unsafe.Pointer, width, height uint32, path unsafe.Pointer) bool {
	applyEnvironment()

	stlPath, err := validate(buf, width, height, path)
	if err != nil {
		b.logger.Error("render_to_buffer rejected", "err", err)
		return false
	}
	logger := b.logger.With("stl", stlPath, "width", width, "height", height)

	cfg, err := config.NewConfig(
		config.WithStlPath(stlPath),
		config.WithSize(int(width), int(height)),
	)
	if err != nil {
		logger.Error("render_to_buffer config", "err", err)
		return false
	}

	res := b.run(cfg)
	if res.err != nil {
		logger.Error("render_to_buffer failed", "err", res.err)
		return false
	}
	if res.pb.Width != int(width) || res.pb.Height != int(height) || res.pb.Validate() != nil {
		logger.Error("render_to_buffer failed", "err", fmt.Errorf("%w: got %dx%d", ErrSizeMismatch, res.pb.Width, res.pb.Height))
		return false
	}

	dst := unsafe.Slice((*byte)(buf), len(res.pb.Pix))
	copy(dst, res.pb.Pix)
	logger.Debug("render_to_buffer done")
	return true
}

// run submits the render to the worker pool and waits for its result.
func (b *bridge) run(cfg *config.Config) result {
	b.poolOnce.Do(func() {
		b.pool = worker.NewDynamicWorkerPool(b.workers, b.workers, workerIdleTimeout)
	})

	done := make(chan result, 1)
	b.pool.SubmitTask(worker.Task{
		ID: int(b.nextID.Add(1)),
		Do: func() (any, error) {
			res := b.isolated(cfg)
			done <- res
			return res.pb, res.err
		},
	})
	return <-done
}

// isolated renders on the current goroutine locked to its OS thread. Panics become errors.
func (b *bridge) isolated(cfg *config.Config) (res result) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer func() {
		if r := recover(); r != nil {
			res = result{err: fmt.Errorf("%w: %v", thumbnail.ErrRenderAborted, r)}
		}
	}()

	pb, err := b.render(cfg)
	if err != nil {
		return result{err: err}
	}
	if pb == nil {
		return result{err: errors.New("renderer returned no image")}
	}
	return result{pb: pb}
}

// validate checks the raw arguments and decodes the path.
func validate(buf unsafe.Pointer, width, height uint32, path unsafe.Pointer) (string, error) {
	if buf == nil {
		return "", ErrNilBuffer
	}
	if path == nil {
		return "", ErrNilPath
	}
	if width == 0 || height == 0 {
		return "", fmt.Errorf("%w: got %dx%d", ErrZeroSize, width, height)
	}
	raw, err := cString(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidPath
	}
	return string(raw), nil
}

// cString returns the bytes before the NUL terminator at p.
func cString(p unsafe.Pointer) ([]byte, error) {
	for n := 0; n < MaxPathLength; n++ {
		if *(*byte)(unsafe.Add(p, n)) == 0 {
			return unsafe.Slice((*byte)(p), n), nil
		}
	}
	return nil, ErrPathTooLong
}
