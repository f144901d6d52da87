package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/df07/go-rayjay/pkg/output"
	"github.com/df07/go-rayjay/pkg/renderer"
	"github.com/df07/go-rayjay/pkg/scene"
)

// options holds the command line flags
type options struct {
	sceneName   string
	file        string
	width       int
	height      int
	samples     int
	depth       int
	seed        int64
	workers     int
	output      string
	format      string
	progressive bool
	passes      int
	preview     bool
}

var errUnknownFormat = errors.New("unknown output format")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCommand()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rayjay",
		Short: "Render spheres with a Monte-Carlo path tracer",
		Long: "Render a scene of spheres with diffuse, metal and glass materials.\n" +
			"Scenes come from the built-in set, a JSON description or a glTF file.\n" +
			"Output is saved to output/<scene>/render_<timestamp>.<format> unless --output is given.",
		Example: "  rayjay --scene final --samples 100\n" +
			"  rayjay --file scenes/three-spheres.json --format ppm --output out.ppm\n" +
			"  rayjay --scene default --preview",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.sceneName, "scene", "s", "default", "built-in scene name or file:<name> from the scenes directory")
	flags.StringVarP(&opts.file, "file", "f", "", "path to a .json, .gltf or .glb scene (overrides --scene)")
	flags.IntVar(&opts.width, "width", 0, "image width in pixels (0 = scene default)")
	flags.IntVar(&opts.height, "height", 0, "image height in pixels (0 = keep the scene aspect ratio)")
	flags.IntVar(&opts.samples, "samples", 0, "samples per pixel (0 = scene default)")
	flags.IntVar(&opts.depth, "depth", 0, "maximum ray bounces (0 = scene default)")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed (0 = scene default)")
	flags.IntVar(&opts.workers, "workers", 0, "parallel workers (0 = number of CPUs)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file path")
	flags.StringVar(&opts.format, "format", "png", "output format: png or ppm")
	flags.BoolVar(&opts.progressive, "progressive", false, "refine the image over several passes")
	flags.IntVar(&opts.passes, "passes", renderer.DefaultProgressiveConfig().MaxPasses, "number of progressive passes")
	flags.BoolVar(&opts.preview, "preview", false, "show the image in the terminal while it renders (implies --progressive)")

	cmd.AddCommand(newScenesCommand())
	return cmd
}

func newScenesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := scene.ListAllScenes()
			if err != nil {
				return err
			}
			printScenes(cmd.OutOrStdout(), response)
			return nil
		},
	}
}

func run(ctx context.Context, opts *options) error {
	format := strings.ToLower(opts.format)
	if format != "png" && format != "ppm" {
		return fmt.Errorf("%w %q: use png or ppm", errUnknownFormat, opts.format)
	}

	selected, err := createScene(opts)
	if err != nil {
		return err
	}

	status := newStatusPrinter(os.Stderr)
	status.Info("Scene %s: %d spheres, %dx%d, %d samples/pixel, depth %d",
		selected.Name, selected.GetPrimitiveCount(),
		widthOf(selected.CameraConfig), heightOf(selected.CameraConfig),
		selected.SamplingConfig.SamplesPerPixel, selected.SamplingConfig.MaxDepth)

	// The status line owns the terminal, so per-pass log lines are silenced there
	logger := renderer.NewDefaultLogger()
	if status.Interactive() || opts.preview {
		logger = nil
	}

	raytracer, err := selected.NewRaytracer(logger)
	if err != nil {
		return err
	}

	startTime := time.Now()
	var frame *output.Frame
	if opts.progressive || opts.preview {
		frame, err = renderProgressive(ctx, raytracer, opts, status)
	} else {
		bar := status.NewProgressBar()
		frame, err = raytracer.Render(ctx, bar.Update)
		bar.Done()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			status.Warn("Render cancelled")
		}
		return err
	}

	path := opts.output
	if path == "" {
		path = defaultOutputPath(selected.Name, format, time.Now())
	}
	if err := saveFrame(path, format, frame); err != nil {
		return err
	}

	status.Success("Render completed in %v, saved as %s", time.Since(startTime).Round(time.Millisecond), path)
	return nil
}

// createScene loads the scene named by the flags and applies the command line overrides
func createScene(opts *options) (*scene.Scene, error) {
	var (
		desc *scene.Description
		err  error
	)
	if opts.file != "" {
		desc, err = scene.Load(opts.file)
	} else {
		desc, err = scene.Resolve(opts.sceneName, scene.ScenesDir())
	}
	if err != nil {
		return nil, err
	}

	for _, warning := range desc.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	s, err := desc.Build()
	if err != nil {
		return nil, err
	}

	s.CameraConfig = s.CameraConfig.WithResolution(opts.width, opts.height)
	s.SamplingConfig = renderer.MergeSamplingConfig(s.SamplingConfig, renderer.SamplingConfig{
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
		Seed:            opts.seed,
		NumWorkers:      opts.workers,
	})
	return s, nil
}

func widthOf(config renderer.CameraConfig) int {
	w, _ := config.Resolution()
	return w
}

func heightOf(config renderer.CameraConfig) int {
	_, h := config.Resolution()
	return h
}

func renderProgressive(ctx context.Context, raytracer *renderer.Raytracer, opts *options, status *statusPrinter) (*output.Frame, error) {
	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = opts.passes

	progressive, err := renderer.NewProgressiveRaytracer(raytracer, config)
	if err != nil {
		return nil, err
	}

	var preview *terminalPreview
	if opts.preview {
		width, height := raytracer.Camera().Width(), raytracer.Camera().Height()
		preview, err = startPreview(width, height, raytracer.Config().TileSize)
		if err != nil {
			return nil, err
		}
		defer preview.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var bar *progressBar
	renderOpts := renderer.RenderOptions{TileUpdates: preview != nil}
	if preview == nil {
		bar = status.NewProgressBar()
		renderOpts.Progress = bar.Update
	}

	passChan, tileChan, errChan := progressive.RenderProgressive(ctx, renderOpts)

	var last *output.Frame
	quit := preview.Quit()
	for passChan != nil || tileChan != nil {
		select {
		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			preview.DrawTile(tile)
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			last = pass.Frame
			if preview != nil {
				preview.DrawPass(pass)
			} else {
				bar.Clear()
				status.Info("Pass %d: %.1f samples/pixel", pass.PassNumber, pass.Stats.AverageSamples)
			}
		case <-quit:
			cancel()
			quit = nil
		}
	}
	if bar != nil {
		bar.Done()
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if preview != nil {
		preview.WaitForKey(ctx)
	}
	return last, nil
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.<format>
func defaultOutputPath(sceneName, format string, now time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return r
	}, sceneName)
	if name == "" {
		name = "scene"
	}
	return filepath.Join("output", name, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format))
}

func saveFrame(path, format string, frame *output.Frame) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	switch format {
	case "png":
		return output.SavePNG(path, frame)
	case "ppm":
		return output.SavePPM(path, frame)
	default:
		return fmt.Errorf("%w %q", errUnknownFormat, format)
	}
}
