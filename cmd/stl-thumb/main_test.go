package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/stl-thumb/engine/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{in: "256", w: 256, h: 256},
		{in: "640x480", w: 640, h: 480},
		{in: "640X480", w: 640, h: 480},
		{in: "0", wantErr: true},
		{in: "x480", wantErr: true},
		{in: "640x", wantErr: true},
		{in: "-5x5", wantErr: true},
		{in: "big", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestParseArgs(t *testing.T) {
	var stderr bytes.Buffer
	cfg, err := parseArgs([]string{
		"-s", "300x200", "-f", "gif", "-b", "ffffff80", "-m", "000000,ff0000,ffffff",
		"--recalc-normals", "-v", "debug", "-q", "75", "model.stl", "out.png",
	}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "model.stl", cfg.StlPath())
	assert.Equal(t, "out.png", cfg.OutputPath())
	assert.Equal(t, 300, cfg.Width())
	assert.Equal(t, 200, cfg.Height())
	assert.Equal(t, encoder.FormatGIF, cfg.Format(), "explicit format wins over the extension")
	assert.InDelta(t, 128.0/255, cfg.Background().A, 1e-6)
	assert.True(t, cfg.RecalcNormals())
	assert.False(t, cfg.Visible())
	assert.Equal(t, "debug", cfg.LogLevel())
	assert.Equal(t, 75, cfg.JPEGQuality())
}

func TestParseArgsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.toml")
	require.NoError(t, os.WriteFile(path, []byte("input = \"from-file.stl\"\nwidth = 64\nheight = 32\n"), 0o644))

	cfg, err := parseArgs([]string{"-c", path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "from-file.stl", cfg.StlPath())
	assert.Equal(t, 64, cfg.Width())

	cfg, err = parseArgs([]string{"-c", path, "-s", "16", "cli.stl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "cli.stl", cfg.StlPath(), "arguments override the file")
	assert.Equal(t, 16, cfg.Height())
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no input", args: nil},
		{name: "too many", args: []string{"a.stl", "b.png", "c"}},
		{name: "bad format", args: []string{"-f", "webp", "a.stl"}},
		{name: "bad color", args: []string{"-b", "zz", "a.stl"}},
		{name: "too many colors", args: []string{"-m", "000000,111111,222222,333333", "a.stl"}},
		{name: "unknown flag", args: []string{"-z", "a.stl"}},
		{name: "quality out of range", args: []string{"-q", "150", "a.stl"}},
		{name: "quality not a number", args: []string{"-q", "high", "a.stl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func TestRunReportsMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "missing.stl")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Zero(t, stdout.Len())
}
