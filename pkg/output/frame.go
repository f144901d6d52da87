// Package output turns rendered frames into images, files and terminal previews.
package output

import (
	"image"
	"image/color"

	"github.com/df07/go-rayjay/pkg/core"
)

// Frame is a dense grid of linear pixel colors, row-major with the top row first
type Frame struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the color of pixel (x, y)
func (f *Frame) At(x, y int) core.Color {
	return f.Pixels[y*f.Width+x]
}

// Set stores the color of pixel (x, y)
func (f *Frame) Set(x, y int, c core.Color) {
	f.Pixels[y*f.Width+x] = c
}

// RGBA converts the frame to an 8-bit gamma-corrected image
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, toRGBA(f.At(x, y)))
		}
	}
	return img
}

// toRGBA quantizes a linear color to an opaque sRGB-ish pixel
func toRGBA(c core.Color) color.RGBA {
	r, g, b := core.ToRGB8(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
