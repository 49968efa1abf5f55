package core

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ErrInvalidColor is returned for color strings that are not #RGB or #RRGGBB
var ErrInvalidColor = errors.New("invalid color")

// Color is a linear RGB color with channels in [0,1]
type Color struct {
	R, G, B float64
}

// ParseColor parses a #RRGGBB or #RGB hex string
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, errors.Wrapf(ErrInvalidColor, "%q", hex)
	}
	return fromColorful(c), nil
}

// MustParseColor is ParseColor for package-level literals
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// MixColors linearly interpolates each channel from inner (f=0) to outer (f=1)
func MixColors(inner, outer Color, f float64) Color {
	return fromColorful(inner.colorful().BlendRgb(outer.colorful(), f))
}

// Hex returns the #rrggbb form of the color
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

// RGB255 returns the color as 8-bit channels
func (c Color) RGB255() (r, g, b uint8) {
	return c.colorful().Clamped().RGB255()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}
