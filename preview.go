package main

import (
	"context"
	"fmt"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-rayjay/pkg/output"
	"github.com/df07/go-rayjay/pkg/renderer"
)

// terminalPreview shows the image in the alternate screen as passes and tiles complete
type terminalPreview struct {
	term     *uv.Terminal
	cols     int
	rows     int
	canvas   *output.Frame
	tileSize int
	status   string

	resize   chan uv.WindowSizeEvent
	quit     chan struct{}
	quitOnce sync.Once
}

func startPreview(width, height, tileSize int) (*terminalPreview, error) {
	t := uv.DefaultTerminal()

	cols, rows, err := t.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	t.EnterAltScreen()
	t.HideCursor()
	t.Resize(cols, rows)

	p := &terminalPreview{
		term:     t,
		cols:     cols,
		rows:     rows,
		canvas:   output.NewFrame(width, height),
		tileSize: tileSize,
		status:   "rendering... (q to stop)",
		resize:   make(chan uv.WindowSizeEvent, 1),
		quit:     make(chan struct{}),
	}
	go p.readEvents()
	return p, nil
}

func (p *terminalPreview) readEvents() {
	for ev := range p.term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			// Keep only the latest size
			select {
			case <-p.resize:
			default:
			}
			p.resize <- ev
		case uv.KeyPressEvent:
			if ev.MatchString("q", "escape", "ctrl+c", "enter", "space") {
				p.quitOnce.Do(func() { close(p.quit) })
			}
		}
	}
}

// Quit is closed when the user asks to stop; nil (never ready) without a preview
func (p *terminalPreview) Quit() <-chan struct{} {
	if p == nil {
		return nil
	}
	return p.quit
}

// DrawTile copies a finished tile into the canvas and redraws
func (p *terminalPreview) DrawTile(tile renderer.TileCompletionResult) {
	x0, y0 := tile.TileX*p.tileSize, tile.TileY*p.tileSize
	for y := 0; y < tile.TileFrame.Height; y++ {
		for x := 0; x < tile.TileFrame.Width; x++ {
			p.canvas.Set(x0+x, y0+y, tile.TileFrame.At(x, y))
		}
	}
	p.status = fmt.Sprintf("pass %d/%d  tile %d/%d  (q to stop)",
		tile.PassNumber, tile.TotalPasses, tile.TileNumber, tile.TotalTiles)
	p.display()
}

// DrawPass replaces the canvas with a completed pass
func (p *terminalPreview) DrawPass(pass renderer.PassResult) {
	p.canvas = pass.Frame
	p.status = fmt.Sprintf("pass %d  %.1f samples/pixel", pass.PassNumber, pass.Stats.AverageSamples)
	if pass.IsLast {
		p.status += "  done, press q to exit"
	}
	p.display()
}

// WaitForKey keeps the final image on screen until a quit key or cancellation
func (p *terminalPreview) WaitForKey(ctx context.Context) {
	for {
		select {
		case <-p.quit:
			return
		case <-ctx.Done():
			return
		case ev := <-p.resize:
			p.applyResize(ev)
			p.display()
		}
	}
}

func (p *terminalPreview) applyResize(ev uv.WindowSizeEvent) {
	p.cols, p.rows = ev.Width, ev.Height
	p.term.Erase()
	p.term.Resize(p.cols, p.rows)
}

func (p *terminalPreview) display() {
	select {
	case ev := <-p.resize:
		p.applyResize(ev)
	default:
	}

	// Bottom row is the status line
	cols, rows := output.PreviewSize(p.canvas, p.cols, p.rows-1)
	x0 := (p.cols - cols) / 2
	y0 := (p.rows - 1 - rows) / 2
	output.DrawFrame(p.term, uv.Rect(x0, y0, cols, rows), p.canvas)

	for x := 0; x < p.cols; x++ {
		content := " "
		if x < len(p.status) {
			content = string(p.status[x])
		}
		p.term.SetCell(x, p.rows-1, &uv.Cell{Content: content, Width: 1})
	}

	p.term.Display()
}

// Close restores the terminal
func (p *terminalPreview) Close() {
	p.term.ExitAltScreen()
	p.term.ShowCursor()
	p.term.Shutdown(context.Background())
}
