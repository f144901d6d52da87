package core

import "math"

// intensity is the range linear channels are clamped to before 8-bit quantization
var intensity = Interval{Min: 0.000, Max: 0.999}

// LinearToGamma applies the gamma-2 transfer curve. Non-positive channels map to 0.
func LinearToGamma(c Color) Color {
	return Color{
		X: linearToGamma(c.X),
		Y: linearToGamma(c.Y),
		Z: linearToGamma(c.Z),
	}
}

func linearToGamma(v float64) float64 {
	if v > 0 {
		return math.Sqrt(v)
	}
	return 0
}

// ToRGB8 gamma-corrects a linear color and quantizes each channel to 0-255
func ToRGB8(c Color) (r, g, b uint8) {
	gc := LinearToGamma(c)
	return quantize(gc.X), quantize(gc.Y), quantize(gc.Z)
}

func quantize(v float64) uint8 {
	// NaN fails both comparisons in Clamp and would survive; treat it as black
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Floor(255.999 * intensity.Clamp(v)))
}
