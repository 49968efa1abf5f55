// Package camera holds the orbit camera shared by the native viewers.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"spaceinvaders/core"
)

const (
	// DefaultDamping matches the damping factor of the browser orbit controls
	DefaultDamping = 0.05

	maxPitch         = 1.5
	rotateSpeed      = 0.008 // radians per pixel of mouse drag
	minDistance      = 0.5
	zoomStep         = 0.1
	autoRotateRadSec = 2 * math.Pi / 60 // one orbit per minute at speed 1
)

// OrbitCamera orbits the origin. Rotation input is applied with damping so the
// camera keeps drifting briefly after the mouse is released.
type OrbitCamera struct {
	Yaw, Pitch float32
	Distance   float32

	FOV       float32 // Vertical, degrees
	Near, Far float32

	Damping         float32
	EnableZoom      bool
	AutoRotate      bool
	AutoRotateSpeed float32

	yawDelta, pitchDelta float32
	width, height        int
}

// New creates a camera from the scene camera, positioned where the scene
// camera is and looking at the origin
func New(c core.Camera, width, height int) *OrbitCamera {
	pos := c.Position
	dist := pos.Length()
	o := &OrbitCamera{
		Distance: float32(dist),
		FOV:      float32(c.FOV),
		Near:     float32(c.Near),
		Far:      float32(c.Far),
		Damping:  DefaultDamping,
	}
	if dist > 0 {
		o.Yaw = float32(math.Atan2(pos.X, pos.Z))
		o.Pitch = float32(math.Asin(pos.Y / dist))
	}
	o.Resize(width, height)
	return o
}

// Resize records the viewport size used for the projection aspect ratio
func (o *OrbitCamera) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	o.width, o.height = width, height
}

// Size returns the current viewport size
func (o *OrbitCamera) Size() (int, int) {
	return o.width, o.height
}

// Aspect returns width over height
func (o *OrbitCamera) Aspect() float32 {
	return float32(o.width) / float32(o.height)
}

// Rotate queues a mouse drag of dx, dy pixels
func (o *OrbitCamera) Rotate(dx, dy float64) {
	o.yawDelta -= float32(dx) * rotateSpeed
	o.pitchDelta += float32(dy) * rotateSpeed
}

// Zoom scales the distance by one scroll step. Ignored unless EnableZoom.
func (o *OrbitCamera) Zoom(steps float64) {
	if !o.EnableZoom {
		return
	}
	o.Distance *= float32(1 - steps*zoomStep)
	if o.Distance < minDistance {
		o.Distance = minDistance
	}
	if o.Far > 0 && o.Distance > o.Far {
		o.Distance = o.Far
	}
}

// Update advances the camera by dt seconds
func (o *OrbitCamera) Update(dt float64) {
	if o.AutoRotate {
		o.Yaw += float32(autoRotateRadSec*dt) * o.AutoRotateSpeed
	}

	if o.Damping > 0 {
		o.Yaw += o.yawDelta * o.Damping
		o.Pitch += o.pitchDelta * o.Damping
		o.yawDelta *= 1 - o.Damping
		o.pitchDelta *= 1 - o.Damping
	} else {
		o.Yaw += o.yawDelta
		o.Pitch += o.pitchDelta
		o.yawDelta, o.pitchDelta = 0, 0
	}

	o.Pitch = mgl32.Clamp(o.Pitch, -maxPitch, maxPitch)
}

// Position returns the eye position in world space
func (o *OrbitCamera) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(o.Pitch)))
	return mgl32.Vec3{
		o.Distance * cp * float32(math.Sin(float64(o.Yaw))),
		o.Distance * float32(math.Sin(float64(o.Pitch))),
		o.Distance * cp * float32(math.Cos(float64(o.Yaw))),
	}
}

// View returns the view matrix looking at the origin
func (o *OrbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the current viewport
func (o *OrbitCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(o.FOV), o.Aspect(), o.Near, o.Far)
}
