package output

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// DrawFrame paints the frame into area using upper half blocks, two image rows per
// terminal row. The frame is resampled with nearest-neighbor to fill the area.
func DrawFrame(scr uv.Screen, area uv.Rectangle, frame *Frame) {
	cols, rows := area.Dx(), area.Dy()
	if frame == nil || frame.Width == 0 || frame.Height == 0 || cols <= 0 || rows <= 0 {
		return
	}

	for row := 0; row < rows; row++ {
		topY := (2 * row) * frame.Height / (2 * rows)
		botY := (2*row + 1) * frame.Height / (2 * rows)

		for col := 0; col < cols; col++ {
			x := col * frame.Width / cols

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: toRGBA(frame.At(x, topY)),
					Bg: toRGBA(frame.At(x, botY)),
				},
			}
			scr.SetCell(area.Min.X+col, area.Min.Y+row, cell)
		}
	}
}

// PreviewSize returns the terminal cell area that shows the frame at its native
// aspect ratio while fitting within maxCols by maxRows
func PreviewSize(frame *Frame, maxCols, maxRows int) (cols, rows int) {
	if frame == nil || frame.Width == 0 || frame.Height == 0 {
		return 0, 0
	}
	cols = min(maxCols, frame.Width)
	// Each cell is one pixel wide and two pixels tall
	rows = (cols*frame.Height/frame.Width + 1) / 2
	if rows > maxRows {
		rows = maxRows
		cols = min(maxCols, 2*rows*frame.Width/frame.Height)
	}
	return max(cols, 1), max(rows, 1)
}
