package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/charmbracelet/x/term"

	"github.com/df07/go-rayjay/pkg/scene"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(charmtone.Malibu)
	warnStyle    = lipgloss.NewStyle().Foreground(charmtone.Mustard).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(charmtone.Guac).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(charmtone.Squid)
	groupStyle   = lipgloss.NewStyle().Foreground(charmtone.Charple).Bold(true).Underline(true)
)

const progressBarWidth = 30

// barColors runs from the empty end of the bar to the full end
var barColors = charmtone.BlendColors(progressBarWidth, charmtone.Charple, charmtone.Guac)

// statusPrinter writes styled status lines; styling and the live bar are only used on a terminal
type statusPrinter struct {
	w           io.Writer
	interactive bool
}

func newStatusPrinter(f *os.File) *statusPrinter {
	return &statusPrinter{w: f, interactive: term.IsTerminal(f.Fd())}
}

// Interactive reports whether the status output is a terminal
func (s *statusPrinter) Interactive() bool {
	return s.interactive
}

func (s *statusPrinter) print(style lipgloss.Style, format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if s.interactive {
		line = style.Render(line)
	}
	fmt.Fprintln(s.w, line)
}

func (s *statusPrinter) Info(format string, args ...interface{}) {
	s.print(infoStyle, format, args...)
}

func (s *statusPrinter) Warn(format string, args ...interface{}) {
	s.print(warnStyle, format, args...)
}

func (s *statusPrinter) Success(format string, args ...interface{}) {
	s.print(successStyle, format, args...)
}

// NewProgressBar returns a bar that redraws in place on a terminal and stays silent otherwise
func (s *statusPrinter) NewProgressBar() *progressBar {
	return &progressBar{
		w:       s.w,
		enabled: s.interactive,
		spring:  harmonica.NewSpring(harmonica.FPS(30), 6.0, 1.0),
	}
}

// progressBar eases the displayed fraction toward the reported one with a critically damped spring
type progressBar struct {
	mu        sync.Mutex
	w         io.Writer
	enabled   bool
	spring    harmonica.Spring
	target    float64
	position  float64
	velocity  float64
	displayed float64
	lastLine  string
}

// Update reports render progress in [0, 1]. Safe to call from the render goroutine.
func (b *progressBar) Update(fraction float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.target = max(b.target, clamp01(fraction))
	b.position, b.velocity = b.spring.Update(b.position, b.velocity, b.target)
	// Never move backwards or past what has actually been rendered
	b.displayed = max(b.displayed, min(clamp01(b.position), b.target))
	b.draw()
}

// Clear erases the bar so a status line can be printed
func (b *progressBar) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.enabled && b.lastLine != "" {
		fmt.Fprint(b.w, "\r\x1b[2K")
		b.lastLine = ""
	}
}

// Done draws the bar at its final value and ends the line
func (b *progressBar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.enabled {
		return
	}
	b.displayed = b.target
	b.draw()
	fmt.Fprintln(b.w)
	b.lastLine = ""
}

func (b *progressBar) draw() {
	if !b.enabled {
		return
	}
	line := renderBar(b.displayed, progressBarWidth)
	if line == b.lastLine {
		return
	}
	b.lastLine = line
	fmt.Fprint(b.w, "\r"+line)
}

// renderBar formats a fraction as a fixed-width bar with a percentage
func renderBar(fraction float64, width int) string {
	filled := int(clamp01(fraction) * float64(width))

	var bar strings.Builder
	for i := 0; i < filled; i++ {
		bar.WriteString(lipgloss.NewStyle().Foreground(barColor(i, width)).Render("█"))
	}
	bar.WriteString(dimStyle.Render(strings.Repeat("░", width-filled)))
	return fmt.Sprintf("%s %3.0f%%", bar.String(), clamp01(fraction)*100)
}

// barColor picks the gradient stop for cell i of a bar width cells wide
func barColor(i, width int) color.Color {
	if len(barColors) == 0 {
		return charmtone.Charple
	}
	return barColors[i*len(barColors)/width]
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// printScenes lists scenes grouped by category. Colors are downsampled to what w supports.
func printScenes(w io.Writer, response scene.ScenesResponse) {
	for i, group := range response.Groups {
		if i > 0 {
			lipgloss.Fprintln(w)
		}
		lipgloss.Fprintln(w, groupStyle.Render(group.Name))
		for _, s := range group.Scenes {
			line := fmt.Sprintf("  %-24s %s", s.ID, s.DisplayName)
			if s.Description != "" {
				line += dimStyle.Render(" - " + s.Description)
			}
			lipgloss.Fprintln(w, line)
		}
	}
}
