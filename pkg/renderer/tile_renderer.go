package renderer

import (
	"context"
	"image"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
	"github.com/df07/go-rayjay/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	camera     *Camera
	world      geometry.Shape
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer for the given camera, world and integrator
func NewTileRenderer(camera *Camera, world geometry.Shape, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		world:      world,
		integrator: integratorInst,
	}
}

// RenderTileBounds brings every pixel within bounds up to targetSamples samples.
// Cancellation is checked once per row; a cancelled tile returns ctx.Err() with the
// rows finished so far kept in pixelStats.
func (tr *TileRenderer) RenderTileBounds(ctx context.Context, bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) (RenderStats, error) {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start with max, will be reduced
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed := tr.samplePixel(i, j, &pixelStats[j][i], sampler, targetSamples)
			stats.updateStats(samplesUsed)
		}
	}

	stats.finalizeStats()
	return stats, nil
}

// samplePixel takes samples until the pixel reaches targetSamples and returns how many were added
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	initialSampleCount := ps.SampleCount

	for ps.SampleCount < targetSamples {
		ray := tr.camera.GetRay(i, j, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.world, sampler))
	}

	return ps.SampleCount - initialSampleCount
}
