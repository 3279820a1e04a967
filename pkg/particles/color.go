package particles

import "github.com/lao-tseu-is-alive/go-space-flock/pkg/geometry"

// Color is a linear RGB triple. Components may exceed 1 for HDR glow.
type Color struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// Hex builds a Color from a 0xRRGGBB value.
func Hex(rgb uint32) Color {
	return Color{
		R: float64((rgb>>16)&0xFF) / 255,
		G: float64((rgb>>8)&0xFF) / 255,
		B: float64(rgb&0xFF) / 255,
	}
}

// Lerp interpolates from c toward to by t.
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: geometry.LerpScalar(c.R, to.R, t),
		G: geometry.LerpScalar(c.G, to.G, t),
		B: geometry.LerpScalar(c.B, to.B, t),
	}
}

func (c Color) appendTo(buf []float32) []float32 {
	return append(buf, float32(c.R), float32(c.G), float32(c.B))
}
