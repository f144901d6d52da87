package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/geometry"
	"github.com/df07/go-rayjay/pkg/integrator"
	"github.com/df07/go-rayjay/pkg/output"
)

// ProgressFunc receives the completed fraction of a render in [0, 1].
// It is always called from a single goroutine with non-decreasing values.
type ProgressFunc func(fraction float64)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// Raytracer renders a world through a camera in a single pass
type Raytracer struct {
	camera     *Camera
	world      geometry.Shape
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
}

// NewRaytracer validates the sampling configuration and creates a raytracer.
// A nil integrator selects path tracing with the configured max depth; a nil logger discards output.
func NewRaytracer(camera *Camera, world geometry.Shape, integratorInst integrator.Integrator, config SamplingConfig, logger core.Logger) (*Raytracer, error) {
	if camera == nil {
		return nil, fmt.Errorf("camera is required")
	}
	if world == nil {
		return nil, fmt.Errorf("world is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if integratorInst == nil {
		integratorInst = integrator.NewPathTracingIntegrator(config.MaxDepth)
	}
	if logger == nil {
		logger = nopLogger{}
	}

	return &Raytracer{
		camera:     camera,
		world:      world,
		integrator: integratorInst,
		config:     config,
		logger:     logger,
	}, nil
}

// Camera returns the camera the raytracer renders through
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// Render takes the full sample budget for every pixel and returns the averaged frame.
// The result depends only on the configuration and seed, not on the worker count.
func (rt *Raytracer) Render(ctx context.Context, progress ProgressFunc) (*output.Frame, error) {
	state := rt.newRenderState()

	rt.logger.Printf("Rendering %dx%d at %d samples/pixel (using %d workers)...\n",
		rt.camera.Width(), rt.camera.Height(), rt.config.SamplesPerPixel, rt.config.workers())
	startTime := time.Now()

	if progress != nil {
		progress(0)
	}

	completed := 0
	err := rt.renderPass(ctx, state, 1, rt.config.SamplesPerPixel, func(tile *Tile, result TileResult) {
		completed++
		if progress != nil {
			progress(float64(completed) / float64(len(state.tiles)))
		}
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	frame, stats := state.assemble(rt.config.SamplesPerPixel)
	rt.logger.Printf("Render completed in %v (%d samples over %d pixels, %.1f samples/pixel)\n",
		time.Since(startTime), stats.TotalSamples, stats.TotalPixels, stats.AverageSamples)
	return frame, nil
}

// renderState is the accumulation buffer shared by the passes of one render
type renderState struct {
	width, height int
	tiles         []*Tile
	pixelStats    [][]PixelStats
}

func (rt *Raytracer) newRenderState() *renderState {
	width, height := rt.camera.Width(), rt.camera.Height()

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &renderState{
		width:      width,
		height:     height,
		tiles:      NewTileGrid(width, height, rt.config.tileSize(), rt.config.Seed),
		pixelStats: pixelStats,
	}
}

// renderPass brings every tile up to targetSamples, invoking onTile as each tile completes
func (rt *Raytracer) renderPass(ctx context.Context, state *renderState, passNumber, targetSamples int, onTile func(*Tile, TileResult)) error {
	pool := NewWorkerPool(NewTileRenderer(rt.camera, rt.world, rt.integrator), rt.config.workers())

	tasks := make([]TileTask, len(state.tiles))
	for i, tile := range state.tiles {
		tasks[i] = TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    state.pixelStats,
		}
	}

	return pool.Run(ctx, tasks, func(result TileResult) {
		tile := state.tiles[result.TaskID]
		tile.PassesCompleted++
		if onTile != nil {
			onTile(tile, result)
		}
	})
}

// assemble averages the accumulated samples into a frame and gathers statistics
func (s *renderState) assemble(targetSamples int) (*output.Frame, RenderStats) {
	frame := output.NewFrame(s.width, s.height)

	stats := RenderStats{
		TotalPixels: s.width * s.height,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			pixel := &s.pixelStats[y][x]
			frame.Set(x, y, pixel.GetColor())
			stats.updateStats(pixel.SampleCount)
		}
	}

	stats.finalizeStats()
	return frame, stats
}

// extractTile copies the current averages inside a tile into its own frame
func (s *renderState) extractTile(tile *Tile) *output.Frame {
	bounds := tile.Bounds
	frame := output.NewFrame(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			frame.Set(x-bounds.Min.X, y-bounds.Min.Y, s.pixelStats[y][x].GetColor())
		}
	}

	return frame
}
