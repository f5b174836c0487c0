package encoder

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/stl-thumb/common"
)

// Save encodes pb to path, or to stream when path is empty.
// A file is only left behind when encoding succeeds.
//
// Parameters:
//   - path: output file path, or "" to write to stream
//   - stream: writer used when path is empty (usually os.Stdout)
//   - enc: the encoder to use
//   - pb: the pixels to write
//
// Returns:
//   - error: error if the file cannot be created or encoding fails
func Save(path string, stream io.Writer, enc Encoder, pb *common.PixelBuffer) error {
	if path == "" {
		if stream == nil {
			return fmt.Errorf("no output path and no stream to write to")
		}
		bw := bufio.NewWriter(stream)
		if err := enc.Encode(bw, pb); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("failed to flush image stream: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := enc.Encode(bw, pb); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	common.LogDebug("wrote %s image to %s", enc.Format(), path)
	return nil
}
