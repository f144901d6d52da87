package renderer

import (
	"fmt"
	"runtime"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed for the per-tile random streams
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	TileSize        int   // Edge length of square render tiles in pixels
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 10,
		MaxDepth:        10,
		Seed:            42,
		NumWorkers:      runtime.NumCPU(),
		TileSize:        64,
	}
}

// MergeSamplingConfig overlays the non-zero fields of override onto base
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base

	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.TileSize != 0 {
		result.TileSize = override.TileSize
	}

	return result
}

// Validate reports sampling settings that cannot produce an image.
// A MaxDepth of 0 is allowed and renders black.
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel %d must be positive: %w", c.SamplesPerPixel, ErrInvalidSamples)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth %d must not be negative: %w", c.MaxDepth, ErrInvalidDepth)
	}
	return nil
}

// workers returns the effective worker count
func (c SamplingConfig) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// tileSize returns the effective tile edge length
func (c SamplingConfig) tileSize() int {
	if c.TileSize <= 0 {
		return 64
	}
	return c.TileSize
}
