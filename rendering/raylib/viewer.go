// Package raylib is a lightweight preview of the scene. It draws a strided
// subset of the field so it stays interactive on integrated GPUs.
package raylib

import (
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"spaceinvaders/config"
	"spaceinvaders/core"
	"spaceinvaders/logging"
	"spaceinvaders/rendering/mesh"
)

// DefaultMaxPoints is how many points the preview draws unless told otherwise
const DefaultMaxPoints = 50000

type previewPoint struct {
	pos   rl.Vector3
	at    core.Vector3
	base  core.Color
	color rl.Color
}

// Viewer owns a raylib window
type Viewer struct {
	settings config.Settings
	scene    core.Scene
	logger   logging.Logger

	camera  rl.Camera3D
	points  []previewPoint
	origin  core.Vector3
	invader []core.Cube
	start   time.Time
}

// NewViewer opens the window
func NewViewer(settings config.Settings, logger logging.Logger) *Viewer {
	scene := settings.BuildScene()
	win := settings.Window

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(win.Width), int32(win.Height), win.Title)
	rl.SetTargetFPS(60)

	pos := scene.Camera.Position
	v := &Viewer{
		settings: settings,
		scene:    scene,
		logger:   logger,
		camera: rl.Camera3D{
			Position:   rl.NewVector3(float32(pos.X), float32(pos.Y), float32(pos.Z)),
			Target:     rl.NewVector3(0, 0, 0),
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       float32(scene.Camera.FOV),
			Projection: rl.CameraPerspective,
		},
		invader: scene.Invader,
		start:   time.Now(),
	}
	logger.Infow("Raylib window opened", "width", win.Width, "height", win.Height)
	return v
}

// SetField keeps every stride-th point of field, at most maxPoints
func (v *Viewer) SetField(field *core.PointField, maxPoints int) {
	count := field.Count()
	stride := mesh.PreviewStride(count, maxPoints)
	v.points = v.points[:0]
	for i := 0; i < count; i += stride {
		p, c := field.Point(i)
		v.points = append(v.points, previewPoint{
			pos:   rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z)),
			at:    p,
			base:  c,
			color: rgba(c),
		})
	}
	v.logger.Debugw("Preview field", "points", len(v.points), "stride", stride)
}

func (v *Viewer) handleKeys() {
	step := v.settings.Invader.Step
	moved := false
	if rl.IsKeyDown(rl.KeyLeft) {
		v.origin = core.MoveInvader(v.origin, core.SteerLeft, step)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyRight) {
		v.origin = core.MoveInvader(v.origin, core.SteerRight, step)
		moved = true
	}
	if moved {
		v.invader = core.BuildInvader(core.InvaderCells, v.settings.Invader.CellSize, v.origin)
	}
}

func (v *Viewer) draw() {
	bg := v.scene.Background
	r, g, b := bg.RGB255()
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(r, g, b, 255))

	rl.BeginMode3D(v.camera)

	invaderColor := rgba(v.scene.InvaderColor)
	for _, c := range v.invader {
		center := rl.NewVector3(float32(c.Center.X), float32(c.Center.Y), float32(c.Center.Z))
		size := float32(c.Size)
		rl.DrawCube(center, size, size, size, invaderColor)
	}

	angle := v.scene.Spin.Angle(time.Since(v.start))
	rl.PushMatrix()
	rl.Rotatef(float32(angle*180/math.Pi), 1, 0, 0)
	fog := v.scene.Fog
	eye := core.Vector3{
		X: float64(v.camera.Position.X),
		Y: float64(v.camera.Position.Y),
		Z: float64(v.camera.Position.Z),
	}
	for _, p := range v.points {
		color := p.color
		if fog.Enabled {
			color = rgba(fog.Apply(p.base, p.at.RotateX(angle).Distance(eye)))
		}
		rl.DrawPoint3D(p.pos, color)
	}
	rl.PopMatrix()

	rl.EndMode3D()
	rl.DrawFPS(10, 10)
	rl.EndDrawing()
}

func rgba(c core.Color) rl.Color {
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255)
}

// Run draws until the window is closed
func (v *Viewer) Run() {
	for !rl.WindowShouldClose() {
		rl.UpdateCamera(&v.camera, rl.CameraOrbital)
		v.handleKeys()
		v.draw()
	}
}

// Close closes the window
func (v *Viewer) Close() {
	rl.CloseWindow()
}
