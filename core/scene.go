package core

import (
	"math"
	"time"
)

// Camera describes a perspective camera looking at the origin
type Camera struct {
	FOV      float64 `json:"fov"` // Vertical, degrees
	Position Vector3 `json:"position"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
}

// Light is a colored light with an intensity. Position is ignored for
// ambient lights and is the direction source for directional and
// hemisphere lights.
type Light struct {
	Color     Color   `json:"color"`
	Intensity float64 `json:"intensity"`
	Position  Vector3 `json:"position"`
}

// HemisphereLight blends Sky and Ground by how much a normal faces Position
type HemisphereLight struct {
	Sky       Color   `json:"sky"`
	Ground    Color   `json:"ground"`
	Intensity float64 `json:"intensity"`
	Position  Vector3 `json:"position"`
}

// Fog is linear distance fog
type Fog struct {
	Enabled bool    `json:"enabled"`
	Color   Color   `json:"color"`
	Near    float64 `json:"near"`
	Far     float64 `json:"far"`
}

// Factor returns how much of the fog color to use at distance d
func (f Fog) Factor(d float64) float64 {
	if !f.Enabled || f.Far <= f.Near {
		return 0
	}
	return math.Min(math.Max((d-f.Near)/(f.Far-f.Near), 0), 1)
}

// Apply blends c toward the fog color as seen from distance d
func (f Fog) Apply(c Color, d float64) Color {
	factor := f.Factor(d)
	if factor == 0 {
		return c
	}
	return MixColors(c, f.Color, factor)
}

// Spin rotates the point field about X from 0 to Target radians over
// Duration, then starts again. Progress is eased with power1.out.
type Spin struct {
	Duration time.Duration `json:"duration"`
	Target   float64       `json:"target"`
}

// Angle returns the rotation after elapsed time
func (s Spin) Angle(elapsed time.Duration) float64 {
	if s.Duration <= 0 || elapsed <= 0 {
		return 0
	}
	p := float64(elapsed%s.Duration) / float64(s.Duration)
	eased := 1 - (1-p)*(1-p)
	return s.Target * eased
}

// Scene is everything a renderer needs besides the point field itself
type Scene struct {
	Background  Color           `json:"background"`
	Camera      Camera          `json:"camera"`
	Ambient     Light           `json:"ambient"`
	Directional Light           `json:"directional"`
	Hemisphere  HemisphereLight `json:"hemisphere"`
	Fog         Fog             `json:"fog"`
	Exposure    float64         `json:"exposure"` // ACES filmic tone mapping exposure
	PointSize   float64         `json:"pointSize"`
	Spin        Spin            `json:"spin"`

	InvaderColor Color  `json:"invaderColor"`
	Invader      []Cube `json:"invader"`
}

// DefaultScene returns the lights, camera and materials of the space scene
func DefaultScene() Scene {
	fogColor := MustParseColor("#7161F5")
	return Scene{
		Background: Color{},
		Camera: Camera{
			FOV:      90,
			Position: Vector3{0, 0, 20},
			Near:     0.1,
			Far:      100,
		},
		Ambient: Light{
			Color:     fogColor,
			Intensity: 0.75,
		},
		Directional: Light{
			Color:     MustParseColor("#03544e"),
			Intensity: 0.5,
			Position:  Vector3{0, 0, 1},
		},
		Hemisphere: HemisphereLight{
			Sky:       MustParseColor("#0000ff"),
			Ground:    MustParseColor("#00ff00"),
			Intensity: 0.75,
			Position:  Vector3{1, -1, 0},
		},
		Fog: Fog{
			Color: fogColor,
			Near:  1,
			Far:   5,
		},
		Exposure:  0.4,
		PointSize: 0.01,
		Spin: Spin{
			Duration: 1000 * time.Second,
			Target:   5,
		},
		InvaderColor: MustParseColor("#333333"),
		Invader:      BuildInvader(InvaderCells, DefaultCellSize, Vector3{}),
	}
}
