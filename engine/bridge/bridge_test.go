package bridge

import (
	"bytes"
	"errors"
	"os"
	"runtime"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/config"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cPath(s string) unsafe.Pointer {
	b := append([]byte(s), 0)
	return unsafe.Pointer(&b[0])
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(buf)
}

// patterned fills each pixel byte with its index so copies can be checked exactly.
func patterned(cfg *config.Config) (*common.PixelBuffer, error) {
	pb, err := common.NewPixelBuffer(cfg.Width(), cfg.Height())
	if err != nil {
		return nil, err
	}
	for i := range pb.Pix {
		pb.Pix[i] = byte(i * 7)
	}
	return pb, nil
}

func TestRenderToBufferRejectsBadArguments(t *testing.T) {
	buf := make([]byte, 4*4*4)
	invalid := []byte{'a', 0xff, 0xfe, '.', 's', 't', 'l', 0}

	tests := []struct {
		name          string
		buf           unsafe.Pointer
		width, height uint32
		path          unsafe.Pointer
		wantLog       string
	}{
		{name: "nil buffer", width: 4, height: 4, path: cPath("cube.stl"), wantLog: ErrNilBuffer.Error()},
		{name: "nil path", buf: unsafe.Pointer(&buf[0]), width: 4, height: 4, wantLog: ErrNilPath.Error()},
		{name: "invalid utf8", buf: unsafe.Pointer(&buf[0]), width: 4, height: 4, path: unsafe.Pointer(&invalid[0]), wantLog: ErrInvalidPath.Error()},
		{name: "zero width", buf: unsafe.Pointer(&buf[0]), height: 4, path: cPath("cube.stl"), wantLog: "non-zero"},
		{name: "zero height", buf: unsafe.Pointer(&buf[0]), width: 4, path: cPath("cube.stl"), wantLog: "non-zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			called := false
			b := NewBridge(WithLogger(testLogger(&logs)), WithRenderFunc(func(cfg *config.Config) (*common.PixelBuffer, error) {
				called = true
				return patterned(cfg)
			}))

			assert.False(t, b.RenderToBuffer(tt.buf, tt.width, tt.height, tt.path))
			assert.False(t, called)
			assert.Contains(t, logs.String(), tt.wantLog)
		})
	}
}

func TestRenderToBufferNonexistentFile(t *testing.T) {
	var logs bytes.Buffer
	buf := make([]byte, 8*8*4)
	b := NewBridge(WithLogger(testLogger(&logs)))

	ok := b.RenderToBuffer(unsafe.Pointer(&buf[0]), 8, 8, cPath("/nonexistent/model.stl"))
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "render_to_buffer failed")
	assert.Equal(t, make([]byte, len(buf)), buf, "buffer untouched on failure")
}

func TestRenderToBufferCopiesExactBytes(t *testing.T) {
	const w, h = 5, 3
	want, err := patterned(mustConfig(t, w, h))
	require.NoError(t, err)

	// one guard byte past the end must survive
	buf := make([]byte, w*h*4+1)
	buf[len(buf)-1] = 0xAB

	var gotPath string
	b := NewBridge(WithLogger(testLogger(&bytes.Buffer{})), WithRenderFunc(func(cfg *config.Config) (*common.PixelBuffer, error) {
		gotPath = cfg.StlPath()
		return patterned(cfg)
	}))

	require.True(t, b.RenderToBuffer(unsafe.Pointer(&buf[0]), w, h, cPath("models/ünïcode.stl")))
	assert.Equal(t, "models/ünïcode.stl", gotPath)
	assert.Equal(t, want.Pix, buf[:w*h*4])
	assert.Equal(t, byte(0xAB), buf[len(buf)-1])
}

func TestRenderToBufferFailures(t *testing.T) {
	tests := []struct {
		name    string
		render  RenderFunc
		wantLog string
	}{
		{
			name:    "render error",
			render:  func(*config.Config) (*common.PixelBuffer, error) { return nil, errors.New("gpu lost") },
			wantLog: "gpu lost",
		},
		{
			name:    "render panic",
			render:  func(*config.Config) (*common.PixelBuffer, error) { panic("shader compile failed") },
			wantLog: "render aborted",
		},
		{
			name: "wrong size",
			render: func(*config.Config) (*common.PixelBuffer, error) {
				return common.NewPixelBuffer(2, 2)
			},
			wantLog: ErrSizeMismatch.Error(),
		},
		{
			name:    "nil image",
			render:  func(*config.Config) (*common.PixelBuffer, error) { return nil, nil },
			wantLog: "no image",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			buf := make([]byte, 4*4*4)
			b := NewBridge(WithLogger(testLogger(&logs)), WithRenderFunc(tt.render))

			assert.False(t, b.RenderToBuffer(unsafe.Pointer(&buf[0]), 4, 4, cPath("cube.stl")))
			assert.Contains(t, logs.String(), tt.wantLog)
		})
	}
}

func TestRenderToBufferReusesWorkers(t *testing.T) {
	b := NewBridge(WithWorkers(2), WithLogger(testLogger(&bytes.Buffer{})), WithRenderFunc(patterned))
	buf := make([]byte, 2*2*4)
	for i := 0; i < 10; i++ {
		require.True(t, b.RenderToBuffer(unsafe.Pointer(&buf[0]), 2, 2, cPath("cube.stl")))
	}
}

func TestRenderToBufferSetsMesaOverride(t *testing.T) {
	buf := make([]byte, 4)
	tests := []struct {
		name string
		buf  unsafe.Pointer
		path unsafe.Pointer
		ok   bool
	}{
		{name: "accepted call", buf: unsafe.Pointer(&buf[0]), path: cPath("cube.stl"), ok: true},
		{name: "rejected call", buf: nil, path: cPath("cube.stl"), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MESA_GL_VERSION_OVERRIDE", "")
			b := NewBridge(WithLogger(testLogger(&bytes.Buffer{})), WithRenderFunc(patterned))
			assert.Equal(t, tt.ok, b.RenderToBuffer(tt.buf, 1, 1, tt.path))

			if runtime.GOOS == "linux" {
				assert.Equal(t, "2.1", os.Getenv("MESA_GL_VERSION_OVERRIDE"))
			} else {
				assert.Empty(t, os.Getenv("MESA_GL_VERSION_OVERRIDE"))
			}
		})
	}
}

func TestCStringLimit(t *testing.T) {
	long := bytes.Repeat([]byte{'a'}, MaxPathLength+1)
	_, err := cString(unsafe.Pointer(&long[0]))
	assert.ErrorIs(t, err, ErrPathTooLong)
}

func mustConfig(t *testing.T, w, h int) *config.Config {
	t.Helper()
	cfg, err := config.NewConfig(config.WithStlPath("cube.stl"), config.WithSize(w, h))
	require.NoError(t, err)
	return cfg
}
