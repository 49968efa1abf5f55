// Package analysis summarizes generated point fields.
package analysis

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"spaceinvaders/core"
)

// Range describes one component across every point
type Range struct {
	Min, Max, Mean, StdDev float64
}

// Summary holds per-axis and per-channel statistics of a field
type Summary struct {
	Count int
	Axes  [3]Range // x, y, z
	RGB   [3]Range // r, g, b
}

// Summarize computes the statistics. An empty field gives a zero summary.
func Summarize(field *core.PointField) Summary {
	s := Summary{Count: field.Count()}
	if s.Count == 0 {
		return s
	}
	for c := 0; c < 3; c++ {
		s.Axes[c] = component(field.Positions, c, s.Count)
		s.RGB[c] = component(field.Colors, c, s.Count)
	}
	return s
}

func component(data []float64, offset, count int) Range {
	values := make([]float64, count)
	for i := range values {
		values[i] = data[i*3+offset]
	}
	mean, std := stat.MeanStdDev(values, nil)
	if count < 2 {
		std = 0
	}
	return Range{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}
}

// Table renders the summary as a text table
func (s Summary) Table() string {
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Point field (%d points)", s.Count))
	tw.AppendHeader(table.Row{"Component", "Min", "Max", "Mean", "StdDev"})
	for i, name := range []string{"x", "y", "z"} {
		tw.AppendRow(rangeRow(name, s.Axes[i]))
	}
	tw.AppendSeparator()
	for i, name := range []string{"r", "g", "b"} {
		tw.AppendRow(rangeRow(name, s.RGB[i]))
	}
	return tw.Render()
}

func rangeRow(name string, r Range) table.Row {
	return table.Row{
		name,
		fmt.Sprintf("%.4f", r.Min),
		fmt.Sprintf("%.4f", r.Max),
		fmt.Sprintf("%.4f", r.Mean),
		fmt.Sprintf("%.4f", r.StdDev),
	}
}
