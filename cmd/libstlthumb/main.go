// Command libstlthumb builds the C shared library:
//
//	go build -buildmode=c-shared -o libstlthumb.so ./cmd/libstlthumb
//
// It exports one function:
//
//	bool render_to_buffer(unsigned char *buf, unsigned int width, unsigned int height, const char *path);
//
// buf must hold width*height*4 bytes. On success it receives RGBA8 pixels, top row first.
package main

/*
#include <stdbool.h>
*/
import "C"

import (
	"unsafe"

	"github.com/Carmen-Shannon/stl-thumb/engine/bridge"
)

//export render_to_buffer
func render_to_buffer(buf *C.uchar, width C.uint, height C.uint, path *C.char) C.bool {
	return C.bool(bridge.RenderToBuffer(unsafe.Pointer(buf), uint32(width), uint32(height), unsafe.Pointer(path)))
}

func main() {}
