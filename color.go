package particlefield

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB triple in 0..1.
type Color [3]float32

// ColorHex converts a 0xRRGGBB sRGB value into linear RGB.
func ColorHex(hex uint32) Color {
	srgb := colorful.Color{
		R: float64((hex>>16)&0xff) / 255.0,
		G: float64((hex>>8)&0xff) / 255.0,
		B: float64(hex&0xff) / 255.0,
	}
	return fromColorful(srgb)
}

// ColorHSL converts hue/saturation/lightness straight into linear RGB, with no
// sRGB decoding step. Hue is in turns and wraps into [0,1).
func ColorHSL(h, s, l float64) Color {
	h = math.Mod(h, 1)
	if h < 0 {
		h += 1
	}
	c := colorful.Hsl(h*360, clamp01(s), clamp01(l)).Clamped()
	return Color{float32(c.R), float32(c.G), float32(c.B)}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().LinearRgb()
	return Color{float32(r), float32(g), float32(b)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
