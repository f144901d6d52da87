package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-rayjay/pkg/core"
	"github.com/df07/go-rayjay/pkg/output"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	InitialSamples int // Samples for first pass (1 recommended)
	MaxPasses      int // Maximum number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialSamples: 1,
		MaxPasses:      7,
	}
}

// ProgressiveRaytracer refines an image over several passes, each adding samples to every pixel
type ProgressiveRaytracer struct {
	raytracer *Raytracer
	config    ProgressiveConfig
	state     *renderState
	logger    core.Logger
}

// NewProgressiveRaytracer creates a progressive raytracer on top of a single-pass raytracer
func NewProgressiveRaytracer(raytracer *Raytracer, config ProgressiveConfig) (*ProgressiveRaytracer, error) {
	if raytracer == nil {
		return nil, fmt.Errorf("raytracer is required")
	}
	if config.MaxPasses <= 0 {
		return nil, fmt.Errorf("max passes %d must be positive", config.MaxPasses)
	}
	if config.InitialSamples <= 0 {
		config.InitialSamples = 1
	}

	// Every pass after the first must add at least one sample
	maxSamples := raytracer.config.SamplesPerPixel
	if useful := maxSamples - min(config.InitialSamples, maxSamples) + 1; config.MaxPasses > useful {
		config.MaxPasses = useful
	}

	return &ProgressiveRaytracer{
		raytracer: raytracer,
		config:    config,
		state:     raytracer.newRenderState(),
		logger:    raytracer.logger,
	}, nil
}

// Passes returns the number of passes the render will run, which can be fewer
// than requested when the sample budget is small
func (pr *ProgressiveRaytracer) Passes() int {
	return pr.config.MaxPasses
}

// getSamplesForPass calculates the target total samples for a given pass.
// The final pass always ends at exactly SamplesPerPixel.
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	maxSamples := pr.raytracer.config.SamplesPerPixel
	initialSamples := min(pr.config.InitialSamples, maxSamples)

	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return maxSamples
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return initialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := maxSamples - initialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	return initialSamples + (passNumber-1)*samplesPerPass
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *output.Frame
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileFrame  *output.Frame // Image data for just this tile
	PassNumber int           // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool         // Whether to generate tile completion events
	Progress    ProgressFunc // Optional overall progress across all passes
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*output.Frame, RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)
	tileSize := pr.raytracer.config.tileSize()

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.raytracer.config.workers())

	tileNumber := 0
	err := pr.raytracer.renderPass(ctx, pr.state, passNumber, targetSamples, func(tile *Tile, result TileResult) {
		tileNumber++
		if tileCallback == nil {
			return
		}
		tileCallback(TileCompletionResult{
			TileX:       tile.Bounds.Min.X / tileSize,
			TileY:       tile.Bounds.Min.Y / tileSize,
			TileFrame:   pr.state.extractTile(tile),
			PassNumber:  passNumber,
			TileNumber:  tileNumber,
			TotalTiles:  len(pr.state.tiles),
			TotalPasses: pr.config.MaxPasses,
		})
	})
	if err != nil {
		return nil, RenderStats{}, err
	}

	frame, stats := pr.state.assemble(targetSamples)
	return frame, stats, nil
}

// RenderProgressive renders with channel-based communication. Call it at most once per ProgressiveRaytracer.
// The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100) // Buffer for tiles
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		maxSamples := pr.raytracer.config.SamplesPerPixel
		totalTiles := len(pr.state.tiles)
		lastFraction := 0.0

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// Check if client disconnected before starting this pass
			if err := ctx.Err(); err != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- err
				return
			}

			startTime := time.Now()
			previousSamples := 0
			if pass > 1 {
				previousSamples = pr.getSamplesForPass(pass - 1)
			}
			targetSamples := pr.getSamplesForPass(pass)

			var tileCallback func(TileCompletionResult)
			tilesDone := 0
			if options.TileUpdates || options.Progress != nil {
				tileCallback = func(result TileCompletionResult) {
					tilesDone++
					if options.Progress != nil {
						// Weight each pass by the samples it adds
						done := float64(previousSamples) + float64(targetSamples-previousSamples)*float64(tilesDone)/float64(totalTiles)
						if fraction := done / float64(maxSamples); fraction > lastFraction {
							lastFraction = fraction
							options.Progress(fraction)
						}
					}
					if options.TileUpdates {
						select {
						case tileChan <- result:
						case <-ctx.Done():
						default:
							// Channel full, drop the update
						}
					}
				}
			}

			frame, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					err = ctxErr
				}
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (actual: %.1f samples/pixel)\n",
				pass, time.Since(startTime), stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses || targetSamples >= maxSamples
			if isLast && options.Progress != nil && lastFraction < 1 {
				options.Progress(1)
			}

			select {
			case passChan <- PassResult{PassNumber: pass, Frame: frame, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				if targetSamples >= maxSamples {
					pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", maxSamples)
				}
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}
