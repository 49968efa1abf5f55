package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinAngle(t *testing.T) {
	spin := Spin{Duration: 1000 * time.Second, Target: 5}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"start", 0, 0},
		{"negative", -time.Second, 0},
		{"halfway", 500 * time.Second, 5 * 0.75},
		{"quarter", 250 * time.Second, 5 * (1 - 0.75*0.75)},
		{"repeat", 1500 * time.Second, 5 * 0.75},
		{"wrap", 1000 * time.Second, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, spin.Angle(tc.elapsed), 1e-9)
		})
	}

	assert.Equal(t, 0.0, Spin{}.Angle(time.Hour))
}

func TestFogFactor(t *testing.T) {
	fog := Fog{Enabled: true, Near: 1, Far: 5}
	assert.Equal(t, 0.0, fog.Factor(0.5))
	assert.Equal(t, 0.5, fog.Factor(3))
	assert.Equal(t, 1.0, fog.Factor(20))

	fog.Enabled = false
	assert.Equal(t, 0.0, fog.Factor(20))
}

func TestFogApply(t *testing.T) {
	base := Color{R: 1, G: 0.5, B: 0}
	fog := Fog{Enabled: true, Color: Color{R: 0, G: 0.5, B: 1}, Near: 1, Far: 5}

	assert.Equal(t, base, fog.Apply(base, 0.5))

	half := fog.Apply(base, 3)
	assert.InDelta(t, 0.5, half.R, 1e-12)
	assert.InDelta(t, 0.5, half.G, 1e-12)
	assert.InDelta(t, 0.5, half.B, 1e-12)

	far := fog.Apply(base, 100)
	assert.InDelta(t, 0, far.R, 1e-12)
	assert.InDelta(t, 1, far.B, 1e-12)

	fog.Enabled = false
	assert.Equal(t, base, fog.Apply(base, 100))
}

func TestDefaultScene(t *testing.T) {
	scene := DefaultScene()
	assert.Equal(t, 90.0, scene.Camera.FOV)
	assert.Equal(t, Vector3{0, 0, 20}, scene.Camera.Position)
	assert.Equal(t, "#7161f5", scene.Ambient.Color.Hex())
	assert.Equal(t, "#03544e", scene.Directional.Color.Hex())
	assert.Equal(t, 0.4, scene.Exposure)
	assert.False(t, scene.Fog.Enabled)
	assert.Len(t, scene.Invader, len(InvaderCells))

	data, err := json.Marshal(scene)
	require.NoError(t, err)
	var decoded Scene
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, scene.Camera, decoded.Camera)
	assert.Equal(t, scene.Spin, decoded.Spin)
}

func TestVector3(t *testing.T) {
	v := Vector3{3, 0, 4}
	assert.Equal(t, 5.0, v.Length())
	assert.Equal(t, Vector3{0.6, 0, 0.8}, v.Normalize())
	assert.Equal(t, Vector3{}, Vector3{}.Normalize())
	assert.Equal(t, Vector3{6, 0, 8}, v.Scale(2))
	assert.Equal(t, Vector3{4, 1, 5}, v.Add(Vector3{1, 1, 1}))
	assert.Equal(t, 5.0, v.Distance(Vector3{}))
	assert.Equal(t, 0.0, v.Distance(v))
}

func TestVector3RotateX(t *testing.T) {
	v := Vector3{2, 1, 0}.RotateX(math.Pi / 2)
	assert.InDelta(t, 2, v.X, 1e-12)
	assert.InDelta(t, 0, v.Y, 1e-12)
	assert.InDelta(t, 1, v.Z, 1e-12)

	// Distance to the origin is preserved.
	w := Vector3{1, 2, 3}
	assert.InDelta(t, w.Length(), w.RotateX(0.7).Length(), 1e-12)
}
