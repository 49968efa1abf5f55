package core

import "math"

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the length of v - other
func (v Vector3) Distance(other Vector3) float64 {
	return v.Add(other.Scale(-1)).Length()
}

// RotateX rotates v angle radians about the X axis, right handed
func (v Vector3) RotateX(angle float64) Vector3 {
	sin, cos := math.Sincos(angle)
	return Vector3{v.X, v.Y*cos - v.Z*sin, v.Y*sin + v.Z*cos}
}

func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{0, 0, 0}
	}
	return Vector3{v.X / length, v.Y / length, v.Z / length}
}

// PointFieldConfig controls point field generation. It is passed by value so
// every call works on its own copy.
type PointFieldConfig struct {
	Count      int     // Number of points
	Radius     float64 // Normalizes the color gradient draw, must be > 0
	Spread     float64 // Side length of the cube points are scattered in
	InnerColor Color   // Color at gradient factor 0
	OuterColor Color   // Color at gradient factor 1
}

// PointField holds flat per-point attribute buffers.
// Point i occupies indices 3*i..3*i+2 of both slices.
type PointField struct {
	Positions []float64 `json:"positions"`
	Colors    []float64 `json:"colors"`
}

// Count returns the number of points in the field
func (f *PointField) Count() int {
	if f == nil {
		return 0
	}
	return len(f.Positions) / 3
}

// Point returns the position and color of point i
func (f *PointField) Point(i int) (Vector3, Color) {
	i3 := i * 3
	p := Vector3{f.Positions[i3], f.Positions[i3+1], f.Positions[i3+2]}
	c := Color{f.Colors[i3], f.Colors[i3+1], f.Colors[i3+2]}
	return p, c
}
