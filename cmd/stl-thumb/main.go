// Command stl-thumb renders a thumbnail image of an STL file.
//
//	stl-thumb [flags] <input.stl> [output]
//
// Without an output path the encoded image is written to stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/Carmen-Shannon/stl-thumb/engine/config"
	"github.com/Carmen-Shannon/stl-thumb/engine/encoder"
	"github.com/Carmen-Shannon/stl-thumb/engine/thumbnail"
)

func init() {
	// glfw and some GL drivers must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cliFlags struct {
	size          string
	format        string
	material      string
	background    string
	visible       bool
	configFile    string
	logLevel      string
	quality       int
	recalcNormals bool
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "stl-thumb: %v\n", err)
		return 2
	}
	if err := common.SetLogLevel(cfg.LogLevel()); err != nil {
		fmt.Fprintf(stderr, "stl-thumb: %v\n", err)
		return 2
	}

	svc := thumbnail.NewService(thumbnail.WithStdout(stdout))
	if cfg.Visible() {
		err = svc.RenderToWindow(cfg)
	} else {
		err = svc.RenderToFile(cfg)
	}
	if err != nil {
		common.LogError("%v", err)
		return 1
	}
	if !cfg.Visible() {
		common.LogInfo("wrote %s thumbnail of %s to %s", cfg.Format(), cfg.StlPath(), common.Coalesce(cfg.OutputPath(), "stdout"))
	}
	return 0
}

// parseArgs turns the command line into a Config. Config file values come first so
// flags and positional arguments override them.
func parseArgs(args []string, stderr io.Writer) (*config.Config, error) {
	var f cliFlags
	fs := flag.NewFlagSet("stl-thumb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.size, "s", "", `output size, "W" or "WxH"`)
	fs.StringVar(&f.format, "f", "", "image format: png, jpeg, gif, bmp or tiff (default from output extension, else png)")
	fs.StringVar(&f.material, "m", "", "material colors as hex: ambient,diffuse,specular")
	fs.StringVar(&f.background, "b", "", "background color as hex RRGGBBAA")
	fs.BoolVar(&f.visible, "x", false, "show the model in a window instead of writing an image")
	fs.StringVar(&f.configFile, "c", "", "TOML config file")
	fs.StringVar(&f.logLevel, "v", "", "log level: debug, info, warn or error")
	fs.IntVar(&f.quality, "q", 0, "JPEG quality from 1 to 100 (default 90)")
	fs.BoolVar(&f.recalcNormals, "recalc-normals", false, "recompute normals from triangle winding")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: stl-thumb [flags] <input.stl> [output]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var opts []config.ConfigBuilderOption
	if f.configFile != "" {
		fileOpts, err := config.LoadFile(f.configFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}

	flagOpts, err := f.options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, flagOpts...)

	switch fs.NArg() {
	case 0:
		if f.configFile == "" {
			fs.Usage()
			return nil, errors.New("missing input file")
		}
	case 1:
		opts = append(opts, config.WithStlPath(fs.Arg(0)))
	case 2:
		opts = append(opts, config.WithStlPath(fs.Arg(0)), config.WithOutputPath(fs.Arg(1)))
	default:
		return nil, fmt.Errorf("too many arguments: %q", fs.Args()[2:])
	}

	return config.NewConfig(opts...)
}

func (f *cliFlags) options() ([]config.ConfigBuilderOption, error) {
	var opts []config.ConfigBuilderOption
	if f.size != "" {
		w, h, err := parseSize(f.size)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithSize(w, h))
	}
	if f.format != "" {
		format, err := encoder.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithFormat(format))
	}
	if f.material != "" {
		matOpts, err := config.ParseMaterialHex(strings.Split(f.material, ",")...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithMaterial(matOpts...))
	}
	if f.background != "" {
		bg, err := common.ParseHexColor(f.background)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithBackground(bg))
	}
	if f.visible {
		opts = append(opts, config.WithVisible(true))
	}
	if f.recalcNormals {
		opts = append(opts, config.WithRecalcNormals(true))
	}
	if f.logLevel != "" {
		opts = append(opts, config.WithLogLevel(f.logLevel))
	}
	if f.quality != 0 {
		opts = append(opts, config.WithJPEGQuality(f.quality))
	}
	return opts, nil
}

// parseSize accepts "N" for a square image or "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	if !found {
		return w, w, nil
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return w, h, nil
}
