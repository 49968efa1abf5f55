package gpu

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"spaceinvaders/core"
)

// FloatsPerPoint is the component count of each attribute
const FloatsPerPoint = 3

// InterleavedStride is the float count of one interleaved x y z r g b vertex
const InterleavedStride = 2 * FloatsPerPoint

// PointBuffers holds a point field converted to float32 for GPU upload.
// Renderers and clients consume the same layout.
type PointBuffers struct {
	Positions []float32
	Colors    []float32
}

// NewPointBuffers converts a point field
func NewPointBuffers(field *core.PointField) *PointBuffers {
	b := &PointBuffers{}
	b.UpdateFromField(field)
	return b
}

// UpdateFromField copies the field, reusing the existing slices when they are
// large enough
func (b *PointBuffers) UpdateFromField(field *core.PointField) {
	n := 0
	if field != nil {
		n = len(field.Positions)
	}
	b.Positions = resize(b.Positions, n)
	b.Colors = resize(b.Colors, n)
	for i := 0; i < n; i++ {
		b.Positions[i] = float32(field.Positions[i])
		b.Colors[i] = float32(field.Colors[i])
	}
}

func resize(s []float32, n int) []float32 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float32, n)
}

// Count returns the number of points
func (b *PointBuffers) Count() int {
	return len(b.Positions) / FloatsPerPoint
}

// ByteSize is the size of the binary encoding
func (b *PointBuffers) ByteSize() int {
	return 4 * (len(b.Positions) + len(b.Colors))
}

// Interleaved returns x y z r g b per point for a single vertex buffer
func (b *PointBuffers) Interleaved() []float32 {
	out := make([]float32, b.Count()*InterleavedStride)
	for i := 0; i < b.Count(); i++ {
		src := i * FloatsPerPoint
		dst := i * InterleavedStride
		copy(out[dst:dst+3], b.Positions[src:src+3])
		copy(out[dst+3:dst+6], b.Colors[src:src+3])
	}
	return out
}

// WriteTo writes all positions then all colors as little-endian float32
func (b *PointBuffers) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 4*max(len(b.Positions), len(b.Colors)))
	var total int64
	for _, s := range [][]float32{b.Positions, b.Colors} {
		for i, v := range s {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
		n, err := w.Write(buf[:4*len(s)])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// MarshalBinary returns the WriteTo encoding
func (b *PointBuffers) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(b.ByteSize())
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the WriteTo encoding
func (b *PointBuffers) UnmarshalBinary(data []byte) error {
	if len(data)%(4*2*FloatsPerPoint) != 0 {
		return errors.Errorf("point buffer length %d is not a whole number of points", len(data))
	}
	n := len(data) / 8
	b.Positions = resize(b.Positions, n)
	b.Colors = resize(b.Colors, n)
	for i := 0; i < n; i++ {
		b.Positions[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		b.Colors[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*(n+i):]))
	}
	return nil
}
