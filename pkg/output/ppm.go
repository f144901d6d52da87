package output

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-rayjay/pkg/core"
)

// WritePPM writes the frame as a plain-text P3 PPM image
func WritePPM(w io.Writer, frame *Frame) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for _, c := range frame.Pixels {
		r, g, b := core.ToRGB8(c)
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
			return fmt.Errorf("failed to write PPM pixel: %w", err)
		}
	}

	return bw.Flush()
}

// SavePPM writes the frame to a PPM file at path
func SavePPM(path string, frame *Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := WritePPM(file, frame); err != nil {
		return err
	}
	return file.Close()
}
