package core

// Cell is one pixel of the invader, in cell units
type Cell struct {
	X, Y int
}

// InvaderCells is the pixel-art invader, top row first
var InvaderCells = []Cell{
	// Antennae
	{-3, 3}, {3, 3},
	{-2, 2}, {2, 2},
	// Head
	{-3, 1}, {-2, 1}, {-1, 1}, {0, 1}, {1, 1}, {2, 1}, {3, 1},
	// Eyes row
	{-4, 0}, {-3, 0}, {-1, 0}, {0, 0}, {1, 0}, {3, 0}, {4, 0},
	// Body
	{-5, -1}, {-4, -1}, {-3, -1}, {-2, -1}, {-1, -1}, {0, -1},
	{1, -1}, {2, -1}, {3, -1}, {4, -1}, {5, -1},
	// Legs
	{-5, -2}, {-3, -2}, {-2, -2}, {-1, -2}, {0, -2}, {1, -2},
}

// DefaultCellSize is the edge of each cube; cells sit one unit apart
const DefaultCellSize = 0.8

// Cube is an axis-aligned cube ready to hand to a renderer
type Cube struct {
	Center Vector3
	Size   float64
}

// BuildInvader places one cube per cell, offset by origin
func BuildInvader(cells []Cell, cellSize float64, origin Vector3) []Cube {
	cubes := make([]Cube, 0, len(cells))
	for _, c := range cells {
		cubes = append(cubes, Cube{
			Center: origin.Add(Vector3{X: float64(c.X), Y: float64(c.Y)}),
			Size:   cellSize,
		})
	}
	return cubes
}

// Steer is the keyboard direction applied to the invader
type Steer int

const (
	SteerNone Steer = iota
	SteerLeft
	SteerRight
)

// InvaderStep is how far one key press moves the invader on X
const InvaderStep = 0.1

// MoveInvader returns the origin after one step in the given direction
func MoveInvader(origin Vector3, dir Steer, step float64) Vector3 {
	switch dir {
	case SteerLeft:
		origin.X -= step
	case SteerRight:
		origin.X += step
	}
	return origin
}

// AutoRotateSpeed is the orbit speed used while the invader is being steered.
// Zero means the camera should stop auto-rotating.
func (s Steer) AutoRotateSpeed() float64 {
	switch s {
	case SteerLeft:
		return 1
	case SteerRight:
		return -1
	}
	return 0
}
