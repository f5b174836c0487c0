package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/stl-thumb/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, common.RGB(0.00, 0.13, 0.26), m.Ambient())
	assert.Equal(t, common.RGB(0.38, 0.63, 1.00), m.Diffuse())
	assert.Equal(t, common.RGB(1, 1, 1), m.Specular())
	assert.Equal(t, float32(DefaultShininess), m.Shininess())
	assert.NoError(t, m.Validate())
}

func TestMaterialValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []MaterialBuilderOption
		wantErr bool
	}{
		{name: "custom in range", opts: []MaterialBuilderOption{WithDiffuse(common.RGB(1, 0, 0))}},
		{name: "negative ambient", opts: []MaterialBuilderOption{WithAmbient(common.RGB(-0.1, 0, 0))}, wantErr: true},
		{name: "specular above one", opts: []MaterialBuilderOption{WithSpecular(common.RGB(0, 1.5, 0))}, wantErr: true},
		{name: "zero shininess", opts: []MaterialBuilderOption{WithShininess(0)}, wantErr: true},
		{name: "nan diffuse", opts: []MaterialBuilderOption{WithDiffuse(common.RGB(float32(math.NaN()), 0, 0))}, wantErr: true},
		{name: "nan shininess", opts: []MaterialBuilderOption{WithShininess(float32(math.NaN()))}, wantErr: true},
		{name: "infinite shininess", opts: []MaterialBuilderOption{WithShininess(float32(math.Inf(1)))}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMaterial(tt.opts...).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGPUPhongParamsMarshal(t *testing.T) {
	params := NewMaterial(WithName("red"), WithDiffuse(common.RGB(1, 0, 0))).GPUParams()
	buf := params.Marshal()
	require.Len(t, buf, 48)

	read := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}
	assert.Equal(t, float32(1), read(16), "diffuse.r")
	assert.Equal(t, float32(DefaultShininess), read(44), "specular.w carries shininess")
}
