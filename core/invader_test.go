package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvaderCells(t *testing.T) {
	assert.Len(t, InvaderCells, 35)

	seen := make(map[Cell]bool)
	rows := make(map[int]int)
	for _, c := range InvaderCells {
		assert.False(t, seen[c], "duplicate cell %v", c)
		seen[c] = true
		rows[c.Y]++
	}

	assert.Equal(t, map[int]int{3: 2, 2: 2, 1: 7, 0: 7, -1: 11, -2: 6}, rows)
}

func TestBuildInvader(t *testing.T) {
	origin := Vector3{1, 2, 3}
	cubes := BuildInvader(InvaderCells, DefaultCellSize, origin)
	assert.Len(t, cubes, len(InvaderCells))

	for i, cube := range cubes {
		cell := InvaderCells[i]
		assert.Equal(t, DefaultCellSize, cube.Size)
		assert.Equal(t, Vector3{float64(cell.X) + 1, float64(cell.Y) + 2, 3}, cube.Center)
	}

	assert.Empty(t, BuildInvader(nil, 1, Vector3{}))
}

func TestMoveInvader(t *testing.T) {
	tests := []struct {
		name  string
		dir   Steer
		wantX float64
		speed float64
	}{
		{"left", SteerLeft, -InvaderStep, 1},
		{"right", SteerRight, InvaderStep, -1},
		{"none", SteerNone, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MoveInvader(Vector3{Y: 4}, tc.dir, InvaderStep)
			assert.InDelta(t, tc.wantX, got.X, 1e-12)
			assert.Equal(t, 4.0, got.Y)
			assert.Equal(t, tc.speed, tc.dir.AutoRotateSpeed())
		})
	}
}
