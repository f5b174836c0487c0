package common

import "unsafe"

// SliceToBytes views a slice's backing array as bytes for GPU buffer uploads.
// The result aliases data and must not outlive or modify it.
//
// Parameters:
//   - data: source slice of a fixed-size element type
//
// Returns:
//   - []byte: byte view of data, or nil if data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}
