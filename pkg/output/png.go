package output

import (
	"fmt"
	"image/png"
	"io"
	"os"
)

// EncodePNG writes the frame as a PNG stream
func EncodePNG(w io.Writer, frame *Frame) error {
	if err := png.Encode(w, frame.RGBA()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the frame to a PNG file at path
func SavePNG(path string, frame *Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := EncodePNG(file, frame); err != nil {
		return err
	}
	return file.Close()
}
