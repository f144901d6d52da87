package renderer

import (
	"context"
	"errors"
	"image"
	"testing"
)

func TestNewTileGrid(t *testing.T) {
	tiles := NewTileGrid(130, 70, 64, 42)

	if len(tiles) != 3*2 {
		t.Fatalf("Expected 6 tiles, got %d", len(tiles))
	}

	expected := []image.Rectangle{
		image.Rect(0, 0, 64, 64), image.Rect(64, 0, 128, 64), image.Rect(128, 0, 130, 64),
		image.Rect(0, 64, 64, 70), image.Rect(64, 64, 128, 70), image.Rect(128, 64, 130, 70),
	}
	covered := 0
	for i, tile := range tiles {
		if tile.ID != i {
			t.Errorf("Tile %d has ID %d", i, tile.ID)
		}
		if tile.Bounds != expected[i] {
			t.Errorf("Tile %d: expected bounds %v, got %v", i, expected[i], tile.Bounds)
		}
		covered += tile.Bounds.Dx() * tile.Bounds.Dy()
	}
	if covered != 130*70 {
		t.Errorf("Tiles should cover every pixel once, covered %d", covered)
	}
}

func TestNewTile_SeededStreams(t *testing.T) {
	a := NewTile(3, image.Rect(0, 0, 1, 1), 42)
	b := NewTile(3, image.Rect(0, 0, 1, 1), 42)
	c := NewTile(4, image.Rect(0, 0, 1, 1), 42)

	va, vb, vc := a.Sampler.Get1D(), b.Sampler.Get1D(), c.Sampler.Get1D()
	if va != vb {
		t.Errorf("Same seed and ID should give the same stream: %f vs %f", va, vb)
	}
	if va == vc {
		t.Errorf("Different tile IDs should give different streams")
	}
}

func TestGetSamplesForPass(t *testing.T) {
	tests := []struct {
		name       string
		spp        int
		passes     int
		initial    int
		wantPasses int
		sequence   []int
	}{
		{"default schedule", 50, 7, 1, 7, []int{1, 9, 17, 25, 33, 41, 50}},
		{"single pass", 10, 1, 1, 1, []int{10}},
		{"exact fit", 5, 5, 1, 5, []int{1, 2, 3, 4, 5}},
		{"fewer samples than passes", 3, 7, 1, 3, []int{1, 2, 3}},
		{"initial above budget", 2, 3, 5, 1, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newTestRaytracer(t, createTestCamera(2, 2), SamplingConfig{SamplesPerPixel: tt.spp, MaxDepth: 1, Seed: 1, NumWorkers: 1, TileSize: 2})
			pr, err := NewProgressiveRaytracer(rt, ProgressiveConfig{InitialSamples: tt.initial, MaxPasses: tt.passes})
			if err != nil {
				t.Fatalf("NewProgressiveRaytracer failed: %v", err)
			}

			if pr.Passes() != tt.wantPasses {
				t.Errorf("Passes() = %d, want %d", pr.Passes(), tt.wantPasses)
			}
			previous := 0
			for i, expected := range tt.sequence {
				got := pr.getSamplesForPass(i + 1)
				if got != expected {
					t.Errorf("Pass %d: expected %d samples, got %d", i+1, expected, got)
				}
				if got <= previous {
					t.Errorf("Pass %d adds no samples (%d after %d)", i+1, got, previous)
				}
				previous = got
			}
		})
	}
}

func TestRenderProgressive_SmallBudgetHasNoEmptyPasses(t *testing.T) {
	rt := newTestRaytracer(t, createTestCamera(4, 4), SamplingConfig{
		SamplesPerPixel: 3, MaxDepth: 2, Seed: 7, NumWorkers: 2, TileSize: 2,
	})
	pr, err := NewProgressiveRaytracer(rt, ProgressiveConfig{InitialSamples: 1, MaxPasses: 7})
	if err != nil {
		t.Fatalf("NewProgressiveRaytracer failed: %v", err)
	}

	passChan, _, errChan := pr.RenderProgressive(context.Background(), RenderOptions{})

	var samples []int
	for pass := range passChan {
		samples = append(samples, pass.Stats.MinSamples)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []int{1, 2, 3}
	if len(samples) != len(expected) {
		t.Fatalf("Expected %d passes, got %d (%v)", len(expected), len(samples), samples)
	}
	for i := range expected {
		if samples[i] != expected[i] {
			t.Errorf("Pass %d: expected %d samples, got %d", i+1, expected[i], samples[i])
		}
	}
}

func TestNewProgressiveRaytracer_RejectsZeroPasses(t *testing.T) {
	rt := newTestRaytracer(t, createTestCamera(2, 2), DefaultSamplingConfig())
	if _, err := NewProgressiveRaytracer(rt, ProgressiveConfig{MaxPasses: 0}); err == nil {
		t.Error("Expected error for zero passes")
	}
}

func TestRenderProgressive_PassesEndAtSampleBudget(t *testing.T) {
	rt := newTestRaytracer(t, createTestCamera(12, 8), SamplingConfig{
		SamplesPerPixel: 9, MaxDepth: 4, Seed: 42, NumWorkers: 3, TileSize: 4,
	})
	pr, err := NewProgressiveRaytracer(rt, ProgressiveConfig{InitialSamples: 1, MaxPasses: 3})
	if err != nil {
		t.Fatalf("NewProgressiveRaytracer failed: %v", err)
	}

	var progress []float64
	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), RenderOptions{
		TileUpdates: true,
		Progress:    func(f float64) { progress = append(progress, f) },
	})

	tileCount := 0
	tilesDone := make(chan struct{})
	go func() {
		defer close(tilesDone)
		for tile := range tileChan {
			if tile.TileFrame == nil || tile.TotalTiles != 6 || tile.TotalPasses != 3 {
				t.Errorf("Malformed tile event: %+v", tile)
			}
			tileCount++
		}
	}()

	var passes []PassResult
	for pass := range passChan {
		passes = append(passes, pass)
	}
	<-tilesDone

	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedSamples := []int{1, 5, 9}
	if len(passes) != len(expectedSamples) {
		t.Fatalf("Expected %d passes, got %d", len(expectedSamples), len(passes))
	}
	for i, pass := range passes {
		if pass.PassNumber != i+1 {
			t.Errorf("Expected pass number %d, got %d", i+1, pass.PassNumber)
		}
		if pass.Stats.MinSamples != expectedSamples[i] || pass.Stats.MaxSamplesUsed != expectedSamples[i] {
			t.Errorf("Pass %d: expected every pixel at %d samples, got %+v", i+1, expectedSamples[i], pass.Stats)
		}
		if pass.IsLast != (i == len(passes)-1) {
			t.Errorf("Pass %d: unexpected IsLast=%v", i+1, pass.IsLast)
		}
		if pass.Frame.Width != 12 || pass.Frame.Height != 8 {
			t.Errorf("Pass %d: unexpected frame size %dx%d", i+1, pass.Frame.Width, pass.Frame.Height)
		}
	}

	// Tile channel drops events when full; with 18 events and a buffer of 100 none are lost
	if tileCount != 6*3 {
		t.Errorf("Expected 18 tile events, got %d", tileCount)
	}

	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Fatalf("Progress went backwards: %v", progress)
		}
	}
	if len(progress) == 0 || progress[len(progress)-1] != 1 {
		t.Errorf("Expected progress to end at 1, got %v", progress)
	}
}

func TestRenderProgressive_DeterministicAcrossWorkerCounts(t *testing.T) {
	camera := createTestCamera(10, 6)

	render := func(workers int) PassResult {
		config := SamplingConfig{SamplesPerPixel: 6, MaxDepth: 5, Seed: 7, NumWorkers: workers, TileSize: 4}
		pr, err := NewProgressiveRaytracer(newTestRaytracer(t, camera, config), ProgressiveConfig{InitialSamples: 1, MaxPasses: 4})
		if err != nil {
			t.Fatalf("NewProgressiveRaytracer failed: %v", err)
		}
		passChan, _, errChan := pr.RenderProgressive(context.Background(), RenderOptions{})

		var last PassResult
		for pass := range passChan {
			last = pass
		}
		if err := <-errChan; err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return last
	}

	a, b := render(1), render(5)
	for i := range a.Frame.Pixels {
		if a.Frame.Pixels[i] != b.Frame.Pixels[i] {
			t.Fatalf("Pixel %d differs between worker counts: %v vs %v", i, a.Frame.Pixels[i], b.Frame.Pixels[i])
		}
	}
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	rt := newTestRaytracer(t, createTestCamera(8, 8), SamplingConfig{SamplesPerPixel: 4, MaxDepth: 3, Seed: 1, NumWorkers: 1, TileSize: 4})
	pr, err := NewProgressiveRaytracer(rt, DefaultProgressiveConfig())
	if err != nil {
		t.Fatalf("NewProgressiveRaytracer failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})
	for range passChan {
		t.Error("No passes expected after cancellation")
	}
	if err := <-errChan; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
