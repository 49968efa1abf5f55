// Package pointcloud writes point fields in the PCD point cloud format.
package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"spaceinvaders/core"
)

// PCDType is the format of a pcd file.
type PCDType int

const (
	// PCDAscii ascii format for pcd.
	PCDAscii PCDType = 0
	// PCDBinary binary format for pcd.
	PCDBinary PCDType = 1
	// PCDCompressed binary format for pcd.
	PCDCompressed PCDType = 2
)

// Iterate calls fn for every point in generation order until fn returns false.
func Iterate(field *core.PointField, fn func(p r3.Vector, c color.NRGBA) bool) {
	for i := 0; i < field.Count(); i++ {
		pos, col := field.Point(i)
		r, g, b := col.RGB255()
		if !fn(r3.Vector{X: pos.X, Y: pos.Y, Z: pos.Z}, color.NRGBA{r, g, b, 255}) {
			return
		}
	}
}

func colorToPCDInt(c color.NRGBA) int {
	x := 0
	x |= int(c.R) << 16
	x |= int(c.G) << 8
	x |= int(c.B) << 0
	return x
}

// WritePCD writes the field with x y z rgb fields.
func WritePCD(field *core.PointField, out io.Writer, outputType PCDType) error {
	switch outputType {
	case PCDAscii, PCDBinary:
	case PCDCompressed:
		return errors.New("compressed PCD not yet implemented")
	default:
		return errors.Errorf("unknown PCD type %d", outputType)
	}

	w := bufio.NewWriter(out)
	_, err := fmt.Fprintf(w, "VERSION .7\n"+
		"FIELDS x y z rgb\n"+
		"SIZE 4 4 4 4\n"+
		"TYPE F F F I\n"+
		"COUNT 1 1 1 1\n"+
		"WIDTH %d\n"+
		"HEIGHT 1\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n",
		field.Count(),
		field.Count())
	if err != nil {
		return err
	}

	switch outputType {
	case PCDBinary:
		_, err = fmt.Fprintf(w, "DATA binary\n")
	case PCDAscii:
		_, err = fmt.Fprintf(w, "DATA ascii\n")
	}
	if err != nil {
		return err
	}

	if err := writePCDData(field, w, outputType); err != nil {
		return err
	}
	return w.Flush()
}

func writePCDData(field *core.PointField, out io.Writer, pcdtype PCDType) error {
	var err error
	buf := make([]byte, 16)
	Iterate(field, func(p r3.Vector, c color.NRGBA) bool {
		rgb := colorToPCDInt(c)
		switch pcdtype {
		case PCDBinary:
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(p.X)))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(p.Y)))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(p.Z)))
			binary.LittleEndian.PutUint32(buf[12:], uint32(rgb))
			_, err = out.Write(buf)
		case PCDAscii:
			_, err = fmt.Fprintf(out, "%f %f %f %d\n", p.X, p.Y, p.Z, rgb)
		}
		return err == nil
	})
	return err
}

// WritePCDFile writes the field to a new file at fn.
func WritePCDFile(field *core.PointField, fn string, outputType PCDType) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WritePCD(field, f, outputType)
}
