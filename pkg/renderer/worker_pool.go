package renderer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // Index of the tile in its grid
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool renders tile tasks on a fixed number of goroutines
type WorkerPool struct {
	renderer   *TileRenderer
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(renderer *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkerPool{
		renderer:   renderer,
		numWorkers: numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every task and blocks until all finish or one fails.
// onResult is called from the calling goroutine, once per completed tile, in completion order.
// Tiles write disjoint regions of the shared pixel stats, so no locking is needed.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, onResult func(TileResult)) error {
	g, gctx := errgroup.WithContext(ctx)

	taskQueue := make(chan TileTask)
	resultQueue := make(chan TileResult, len(tasks))

	// Feed tasks until done or cancelled
	g.Go(func() error {
		defer close(taskQueue)
		for _, task := range tasks {
			select {
			case taskQueue <- task:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < wp.numWorkers; w++ {
		g.Go(func() error {
			for task := range taskQueue {
				stats, err := wp.renderer.RenderTileBounds(gctx, task.Tile.Bounds, task.PixelStats, task.Tile.Sampler, task.TargetSamples)
				if err != nil {
					return err
				}
				resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(resultQueue)
	}()

	for result := range resultQueue {
		if onResult != nil {
			onResult(result)
		}
	}

	return <-done
}
