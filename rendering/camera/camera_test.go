package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"spaceinvaders/core"
)

func sceneCamera() core.Camera {
	return core.DefaultScene().Camera
}

func assertVecInDelta(t *testing.T, want, got []float32, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestNewMatchesSceneCamera(t *testing.T) {
	o := New(sceneCamera(), 1280, 720)

	assert.InDelta(t, 20, o.Distance, 1e-5)
	pos := o.Position()
	assertVecInDelta(t, []float32{0, 0, 20}, pos[:], 1e-4)
	assert.InDelta(t, 1280.0/720.0, o.Aspect(), 1e-6)
	assert.Equal(t, float32(DefaultDamping), o.Damping)
	assert.False(t, o.EnableZoom)

	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 20}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	view := o.View()
	assertVecInDelta(t, want[:], view[:], 1e-4)
}

func TestNewFromOffsetPosition(t *testing.T) {
	c := sceneCamera()
	c.Position = core.Vector3{X: 3, Y: 4, Z: 0}
	o := New(c, 100, 100)
	pos := o.Position()
	assertVecInDelta(t, []float32{3, 4, 0}, pos[:], 1e-4)

	c.Position = core.Vector3{X: 3, Y: 4, Z: 12}
	o = New(c, 100, 100)
	pos = o.Position()
	assertVecInDelta(t, []float32{3, 4, 12}, pos[:], 1e-4)
}

func TestProjection(t *testing.T) {
	o := New(sceneCamera(), 800, 400)
	want := mgl32.Perspective(mgl32.DegToRad(90), 2, 0.1, 100)
	got := o.Projection()
	assertVecInDelta(t, want[:], got[:], 1e-6)

	o.Resize(400, 800)
	want = mgl32.Perspective(mgl32.DegToRad(90), 0.5, 0.1, 100)
	got = o.Projection()
	assertVecInDelta(t, want[:], got[:], 1e-6)

	o.Resize(0, 0)
	w, h := o.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestRotateWithDamping(t *testing.T) {
	o := New(sceneCamera(), 100, 100)
	o.Rotate(-100, 0)

	o.Update(1.0 / 60)
	first := o.Yaw
	assert.InDelta(t, 100*rotateSpeed*DefaultDamping, first, 1e-6)

	// Keeps drifting after the input stops, by less each frame.
	o.Update(1.0 / 60)
	second := o.Yaw - first
	assert.Greater(t, second, float32(0))
	assert.Less(t, second, first)

	for i := 0; i < 2000; i++ {
		o.Update(1.0 / 60)
	}
	assert.InDelta(t, 100*rotateSpeed, o.Yaw, 1e-4)
}

func TestRotateWithoutDamping(t *testing.T) {
	o := New(sceneCamera(), 100, 100)
	o.Damping = 0
	o.Rotate(0, 50)
	o.Update(0)
	assert.InDelta(t, 50*rotateSpeed, o.Pitch, 1e-6)
	o.Update(0)
	assert.InDelta(t, 50*rotateSpeed, o.Pitch, 1e-6)
}

func TestPitchClamp(t *testing.T) {
	o := New(sceneCamera(), 100, 100)
	o.Damping = 0
	o.Rotate(0, 10000)
	o.Update(0)
	assert.Equal(t, float32(maxPitch), o.Pitch)

	o.Rotate(0, -100000)
	o.Update(0)
	assert.Equal(t, float32(-maxPitch), o.Pitch)
}

func TestZoom(t *testing.T) {
	o := New(sceneCamera(), 100, 100)
	o.Zoom(1)
	assert.InDelta(t, 20, o.Distance, 1e-6)

	o.EnableZoom = true
	o.Zoom(1)
	assert.InDelta(t, 18, o.Distance, 1e-4)

	o.Zoom(100)
	assert.Equal(t, float32(minDistance), o.Distance)

	o.Zoom(-10000)
	assert.Equal(t, o.Far, o.Distance)
}

func TestAutoRotate(t *testing.T) {
	o := New(sceneCamera(), 100, 100)
	o.AutoRotate = true
	o.AutoRotateSpeed = float32(core.SteerLeft.AutoRotateSpeed())
	o.Update(30)
	assert.InDelta(t, autoRotateRadSec*30, o.Yaw, 1e-4)

	o.AutoRotateSpeed = float32(core.SteerRight.AutoRotateSpeed())
	o.Update(30)
	assert.InDelta(t, 0, o.Yaw, 1e-4)
}
