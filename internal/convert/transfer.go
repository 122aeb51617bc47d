package convert

import (
	"github.com/chewxy/math32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Stock transfer functions for Transfer.Func. They act on one component at a
// time and do no gamut mapping.

// LinearToSRGB encodes a linear value with the sRGB curve.
func LinearToSRGB(v float32) float32 {
	return float32(colorful.LinearRgb(float64(v), 0, 0).R)
}

// SRGBToLinear decodes an sRGB-encoded value to linear.
func SRGBToLinear(v float32) float32 {
	r, _, _ := colorful.Color{R: float64(v)}.LinearRgb()
	return float32(r)
}

// Gamma returns a transfer function raising values to 1/g. Values at or
// below zero pass through unchanged.
func Gamma(g float32) func(float32) float32 {
	inv := 1 / g
	return func(v float32) float32 {
		if v <= 0 {
			return v
		}
		return math32.Pow(v, inv)
	}
}
