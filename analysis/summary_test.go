package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceinvaders/core"
)

func TestSummarize(t *testing.T) {
	field := &core.PointField{
		Positions: []float64{
			0, 0, 0,
			-0.8, -0.8, -0.8,
			0.8, 0.8, 0.8,
		},
		Colors: []float64{
			1, 1, 1,
			0, 0, 0,
			0.5, 0.5, 0.5,
		},
	}

	s := Summarize(field)
	assert.Equal(t, 3, s.Count)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, -0.8, s.Axes[i].Min, 1e-12)
		assert.InDelta(t, 0.8, s.Axes[i].Max, 1e-12)
		assert.InDelta(t, 0, s.Axes[i].Mean, 1e-12)
		assert.InDelta(t, 0.8, s.Axes[i].StdDev, 1e-12)
		assert.InDelta(t, 0.5, s.RGB[i].Mean, 1e-12)
		assert.Equal(t, 0.0, s.RGB[i].Min)
		assert.Equal(t, 1.0, s.RGB[i].Max)
	}
}

func TestSummarizeEmptyAndSingle(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(&core.PointField{}))

	s := Summarize(&core.PointField{Positions: []float64{1, 2, 3}, Colors: []float64{0, 0, 0}})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 0.0, s.Axes[0].StdDev)
	assert.Equal(t, 3.0, s.Axes[2].Mean)
}

func TestSummarizeGeneratedField(t *testing.T) {
	cfg := core.PointFieldConfig{
		Count:      20000,
		Radius:     1,
		Spread:     10,
		InnerColor: core.Color{R: 0, G: 0, B: 0},
		OuterColor: core.Color{R: 1, G: 1, B: 1},
	}
	field, err := core.GeneratePointField(cfg, core.NewSeededSource(3))
	require.NoError(t, err)

	s := Summarize(field)
	for i := 0; i < 3; i++ {
		assert.GreaterOrEqual(t, s.Axes[i].Min, -5.0)
		assert.LessOrEqual(t, s.Axes[i].Max, 5.0)
		assert.InDelta(t, 0, s.Axes[i].Mean, 0.2)
		assert.InDelta(t, 0.5, s.RGB[i].Mean, 0.02)
	}
}

func TestTable(t *testing.T) {
	s := Summarize(&core.PointField{Positions: []float64{1, 2, 3}, Colors: []float64{0, 0.5, 1}})
	out := s.Table()
	assert.Contains(t, out, "Point field (1 points)")
	assert.Contains(t, out, "COMPONENT")
	assert.Contains(t, out, "0.5000")
}
