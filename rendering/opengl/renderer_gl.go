package opengl

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"spaceinvaders/config"
	"spaceinvaders/core"
	"spaceinvaders/gpu"
	"spaceinvaders/logging"
	"spaceinvaders/rendering/camera"
	"spaceinvaders/rendering/mesh"
	"spaceinvaders/rendering/opengl/shaders"
)

const floatSize = 4

// PointRenderer draws the point field and the invader in a native window
type PointRenderer struct {
	window *glfw.Window
	title  string
	logger logging.Logger

	// Shader programs
	pointProgram   uint32
	invaderProgram uint32

	// Point field: one interleaved VBO
	pointVAO   uint32
	pointVBO   uint32
	pointCount int32

	// Invader: unit cube mesh plus one instance per cell
	cubeVAO       uint32
	cubeVBO       uint32
	instanceVBO   uint32
	instanceCount int32

	scene         core.Scene
	invaderOrigin core.Vector3
	cellSize      float64
	step          float64
	steering      core.Steer

	camera *camera.OrbitCamera
	start  time.Time

	// Mouse state for camera control
	mouseDown  bool
	lastMouseX float64
	lastMouseY float64
}

// NewPointRenderer opens the window and builds the GL resources. It must be
// called from the main thread.
func NewPointRenderer(settings config.Settings, logger logging.Logger) (*PointRenderer, error) {
	runtime.LockOSThread()

	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize GLFW")
	}

	// Configure OpenGL context
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win := settings.Window
	window, err := glfw.CreateWindow(win.Width, win.Height, win.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create window")
	}

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	logger.Infow("OpenGL initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	scene := settings.BuildScene()
	fbWidth, fbHeight := window.GetFramebufferSize()
	r := &PointRenderer{
		window:   window,
		title:    win.Title,
		logger:   logger,
		scene:    scene,
		cellSize: settings.Invader.CellSize,
		step:     settings.Invader.Step,
		camera:   camera.New(scene.Camera, fbWidth, fbHeight),
		start:    time.Now(),
	}
	r.camera.EnableZoom = settings.Scene.EnableZoom
	r.camera.Damping = float32(settings.Scene.Damping)

	if err := r.createPrograms(); err != nil {
		r.Terminate()
		return nil, err
	}
	r.createPointBuffers()
	r.createInvaderBuffers()
	r.uploadInvader()

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.CULL_FACE)
	bg := scene.Background
	gl.ClearColor(float32(bg.R), float32(bg.G), float32(bg.B), 1.0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	// Setup callbacks
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.onResize(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		r.onKey(key, action)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		r.camera.Zoom(yoff)
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		r.onMouseButton(button, action)
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		r.onMouseMove(xpos, ypos)
	})

	return r, nil
}

func (r *PointRenderer) createPrograms() error {
	var err error
	if r.pointProgram, err = shaders.CreatePointProgram(); err != nil {
		return errors.Wrap(err, "failed to compile point shaders")
	}
	if r.invaderProgram, err = shaders.CreateInvaderProgram(); err != nil {
		return errors.Wrap(err, "failed to compile invader shaders")
	}
	return nil
}

func (r *PointRenderer) createPointBuffers() {
	gl.GenVertexArrays(1, &r.pointVAO)
	gl.BindVertexArray(r.pointVAO)

	gl.GenBuffers(1, &r.pointVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointVBO)

	stride := int32(gpu.InterleavedStride * floatSize)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(gpu.FloatsPerPoint*floatSize))

	gl.BindVertexArray(0)
}

func (r *PointRenderer) createInvaderBuffers() {
	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	cube := mesh.UnitCube()
	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(cube)*floatSize, gl.Ptr(cube), gl.STATIC_DRAW)

	stride := int32(mesh.CubeFloatsPerVertex * floatSize)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*floatSize))

	gl.GenBuffers(1, &r.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, 3*floatSize, gl.PtrOffset(0))
	gl.VertexAttribDivisor(2, 1)

	gl.BindVertexArray(0)
}

// uploadInvader rebuilds the cube instances at the current origin
func (r *PointRenderer) uploadInvader() {
	cubes := core.BuildInvader(core.InvaderCells, r.cellSize, r.invaderOrigin)
	centers := mesh.CubeCenters(cubes)
	r.instanceCount = int32(len(cubes))

	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
	if len(centers) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(centers)*floatSize, gl.Ptr(centers), gl.DYNAMIC_DRAW)
	}
}

// SetField uploads a generated field. Replacing the field reuses the VBO.
func (r *PointRenderer) SetField(buffers *gpu.PointBuffers) {
	data := buffers.Interleaved()
	r.pointCount = int32(buffers.Count())

	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointVBO)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, gl.Ptr(data), gl.STATIC_DRAW)
	r.logger.Debugw("Uploaded point field", "points", r.pointCount, "bytes", len(data)*floatSize)
}

// Update advances the camera by dt seconds
func (r *PointRenderer) Update(dt float64) {
	r.camera.Update(dt)
}

// Render draws one frame and swaps buffers
func (r *PointRenderer) Render() {
	if err := gl.GetError(); err != gl.NO_ERROR {
		r.logger.Warnf("OpenGL error before render: 0x%x", err)
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := r.camera.View()
	proj := r.camera.Projection()

	// Invader first, opaque with depth writes
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	r.drawInvader(view, proj)

	// Points additive on top, depth tested but not written
	gl.DepthMask(false)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	r.drawPoints(view, proj)
	gl.DepthMask(true)

	r.window.SwapBuffers()
}

func (r *PointRenderer) drawPoints(view, proj mgl32.Mat4) {
	if r.pointCount == 0 {
		return
	}
	gl.UseProgram(r.pointProgram)

	model := mesh.SpinModel(r.scene.Spin.Angle(time.Since(r.start)))
	_, height := r.camera.Size()
	setMat4(r.pointProgram, "model", model)
	setMat4(r.pointProgram, "view", view)
	setMat4(r.pointProgram, "projection", proj)
	gl.Uniform1f(uniform(r.pointProgram, "pointSize"), float32(r.scene.PointSize))
	gl.Uniform1f(uniform(r.pointProgram, "viewportHeight"), float32(height))
	r.setCommon(r.pointProgram)

	gl.BindVertexArray(r.pointVAO)
	gl.DrawArrays(gl.POINTS, 0, r.pointCount)
	gl.BindVertexArray(0)
}

func (r *PointRenderer) drawInvader(view, proj mgl32.Mat4) {
	if r.instanceCount == 0 {
		return
	}
	p := r.invaderProgram
	gl.UseProgram(p)

	s := r.scene
	setMat4(p, "view", view)
	setMat4(p, "projection", proj)
	gl.Uniform1f(uniform(p, "cubeSize"), float32(r.cellSize))
	setVec3(p, "baseColor", mesh.ColorVec3(s.InvaderColor, 1))
	setVec3(p, "ambient", mesh.ColorVec3(s.Ambient.Color, s.Ambient.Intensity))
	setVec3(p, "directional", mesh.ColorVec3(s.Directional.Color, s.Directional.Intensity))
	setVec3(p, "directionalDir", mesh.Direction(s.Directional.Position))
	setVec3(p, "skyColor", mesh.ColorVec3(s.Hemisphere.Sky, s.Hemisphere.Intensity))
	setVec3(p, "groundColor", mesh.ColorVec3(s.Hemisphere.Ground, s.Hemisphere.Intensity))
	setVec3(p, "hemisphereDir", mesh.Direction(s.Hemisphere.Position))
	r.setCommon(p)

	gl.BindVertexArray(r.cubeVAO)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, mesh.CubeVertexCount, r.instanceCount)
	gl.BindVertexArray(0)
}

// setCommon sets the tone mapping and fog uniforms
func (r *PointRenderer) setCommon(program uint32) {
	fog := r.scene.Fog
	gl.Uniform1f(uniform(program, "exposure"), float32(r.scene.Exposure))
	enabled := int32(0)
	if fog.Enabled {
		enabled = 1
	}
	gl.Uniform1i(uniform(program, "fogEnabled"), enabled)
	setVec3(program, "fogColor", mesh.ColorVec3(fog.Color, 1))
	gl.Uniform1f(uniform(program, "fogNear"), float32(fog.Near))
	gl.Uniform1f(uniform(program, "fogFar"), float32(fog.Far))
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func setMat4(program uint32, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(uniform(program, name), 1, false, &m[0])
}

func setVec3(program uint32, name string, v mgl32.Vec3) {
	gl.Uniform3f(uniform(program, name), v[0], v[1], v[2])
}

func (r *PointRenderer) onResize(width, height int) {
	r.camera.Resize(width, height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *PointRenderer) onKey(key glfw.Key, action glfw.Action) {
	var dir core.Steer
	switch key {
	case glfw.KeyEscape:
		if action == glfw.Press {
			r.window.SetShouldClose(true)
		}
		return
	case glfw.KeyLeft:
		dir = core.SteerLeft
	case glfw.KeyRight:
		dir = core.SteerRight
	default:
		return
	}

	if action == glfw.Release {
		if r.steering == dir {
			r.steering = core.SteerNone
			r.camera.AutoRotate = false
		}
		return
	}

	r.steering = dir
	r.invaderOrigin = core.MoveInvader(r.invaderOrigin, dir, r.step)
	r.camera.AutoRotate = true
	r.camera.AutoRotateSpeed = float32(dir.AutoRotateSpeed())
	r.uploadInvader()
}

func (r *PointRenderer) onMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return
	}
	if action == glfw.Press {
		r.mouseDown = true
		r.lastMouseX, r.lastMouseY = r.window.GetCursorPos()
	} else if action == glfw.Release {
		r.mouseDown = false
	}
}

func (r *PointRenderer) onMouseMove(xpos, ypos float64) {
	if !r.mouseDown {
		return
	}
	r.camera.Rotate(xpos-r.lastMouseX, ypos-r.lastMouseY)
	r.lastMouseX = xpos
	r.lastMouseY = ypos
}

// ShouldClose reports whether the window was asked to close
func (r *PointRenderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

// PollEvents processes pending window events
func (r *PointRenderer) PollEvents() {
	glfw.PollEvents()
}

// Run renders until the window closes
func (r *PointRenderer) Run() {
	last := time.Now()
	frames := 0
	lastReport := last
	for !r.ShouldClose() {
		r.PollEvents()

		now := time.Now()
		r.Update(now.Sub(last).Seconds())
		last = now

		r.Render()

		frames++
		if elapsed := now.Sub(lastReport); elapsed >= time.Second {
			fps := float64(frames) / elapsed.Seconds()
			r.window.SetTitle(fmt.Sprintf("%s | %d points | %.0f fps", r.title, r.pointCount, fps))
			frames = 0
			lastReport = now
		}
	}
}

// Terminate releases GL resources and closes the window
func (r *PointRenderer) Terminate() {
	if r.pointProgram != 0 {
		gl.DeleteProgram(r.pointProgram)
	}
	if r.invaderProgram != 0 {
		gl.DeleteProgram(r.invaderProgram)
	}
	gl.DeleteVertexArrays(1, &r.pointVAO)
	gl.DeleteVertexArrays(1, &r.cubeVAO)
	gl.DeleteBuffers(1, &r.pointVBO)
	gl.DeleteBuffers(1, &r.cubeVBO)
	gl.DeleteBuffers(1, &r.instanceVBO)
	r.window.Destroy()
	glfw.Terminate()
}
