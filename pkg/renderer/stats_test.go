package renderer

import (
	"testing"

	"github.com/df07/go-rayjay/pkg/core"
)

func TestPixelStats_GetColor(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Color{}) {
		t.Errorf("Empty pixel should be black, got %v", ps.GetColor())
	}

	ps.AddSample(core.NewColor(1, 0, 0))
	ps.AddSample(core.NewColor(0, 1, 0))
	ps.AddSample(core.NewColor(0, 0, 1))
	ps.AddSample(core.NewColor(1, 1, 1))

	expected := core.NewColor(0.5, 0.5, 0.5)
	if !vecClose(ps.GetColor(), expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, ps.GetColor())
	}
	if ps.SampleCount != 4 {
		t.Errorf("Expected 4 samples, got %d", ps.SampleCount)
	}
}

func TestRenderStats_Finalize(t *testing.T) {
	stats := RenderStats{TotalPixels: 3, MaxSamples: 8, MinSamples: 8}
	stats.updateStats(2)
	stats.updateStats(8)
	stats.updateStats(5)
	stats.finalizeStats()

	if stats.TotalSamples != 15 || stats.MinSamples != 2 || stats.MaxSamplesUsed != 8 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.AverageSamples != 5 {
		t.Errorf("Expected average 5, got %f", stats.AverageSamples)
	}
}

func TestSamplingConfig_MergeAndDefaults(t *testing.T) {
	defaults := DefaultSamplingConfig()
	if defaults.SamplesPerPixel != 10 || defaults.MaxDepth != 10 || defaults.Seed != 42 || defaults.TileSize != 64 {
		t.Errorf("Unexpected defaults %+v", defaults)
	}

	merged := MergeSamplingConfig(defaults, SamplingConfig{SamplesPerPixel: 100, NumWorkers: 3})
	if merged.SamplesPerPixel != 100 || merged.NumWorkers != 3 || merged.MaxDepth != 10 {
		t.Errorf("Unexpected merge result %+v", merged)
	}
}
