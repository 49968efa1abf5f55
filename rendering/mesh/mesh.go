// Package mesh builds the vertex data the viewers upload, without touching
// any graphics API.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"spaceinvaders/core"
)

// CubeFloatsPerVertex is position (3) followed by normal (3)
const CubeFloatsPerVertex = 6

// CubeVertexCount is the number of vertices of a triangulated cube
const CubeVertexCount = 36

var cubeFaces = [6]struct {
	normal mgl32.Vec3
	u, v   mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// UnitCube returns a cube of edge 1 centered on the origin as counter
// clockwise triangles, interleaved position and normal
func UnitCube() []float32 {
	out := make([]float32, 0, CubeVertexCount*CubeFloatsPerVertex)
	for _, f := range cubeFaces {
		c := f.normal.Mul(0.5)
		u := f.u.Mul(0.5)
		v := f.v.Mul(0.5)
		corners := [4]mgl32.Vec3{
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		}
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			p := corners[i]
			out = append(out, p[0], p[1], p[2], f.normal[0], f.normal[1], f.normal[2])
		}
	}
	return out
}

// CubeCenters flattens the cube centers for an instance buffer
func CubeCenters(cubes []core.Cube) []float32 {
	out := make([]float32, 0, len(cubes)*3)
	for _, c := range cubes {
		out = append(out, float32(c.Center.X), float32(c.Center.Y), float32(c.Center.Z))
	}
	return out
}

// SpinModel returns the model matrix of the point field rotated angle radians
// about X
func SpinModel(angle float64) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(float32(angle))
}

// PreviewStride returns the step that keeps at most limit of count points.
// limit <= 0 keeps every point.
func PreviewStride(count, limit int) int {
	if limit <= 0 || count <= limit {
		return 1
	}
	return (count + limit - 1) / limit
}

// ToVec3 converts a core vector to mathgl
func ToVec3(v core.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Direction converts a light position to the unit vector pointing at it.
// The zero vector stays zero.
func Direction(v core.Vector3) mgl32.Vec3 {
	return ToVec3(v.Normalize())
}

// ColorVec3 converts a color scaled by intensity to mathgl
func ColorVec3(c core.Color, intensity float64) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.R * intensity),
		float32(c.G * intensity),
		float32(c.B * intensity),
	}
}
