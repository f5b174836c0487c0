package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))

	vecs := [][3]float32{{1, 2, 3}, {4, 5, 6}}
	b := SliceToBytes(vecs)
	require.Len(t, b, 24)
	for i, want := range []float32{1, 2, 3, 4, 5, 6} {
		got := math.Float32frombits(binary.NativeEndian.Uint32(b[i*4:]))
		assert.Equal(t, want, got)
	}
}
