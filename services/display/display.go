// Package display renders the monitor's text onto the TFT, or onto the
// console on the bench.
//
// Coordinates are pixels, origin top left, and name the top of the text
// cell. Multi-line strings advance by the font's line height.
package display

import (
	"image/color"
	"log"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Sink is the display as the rest of the firmware sees it.
type Sink interface {
	Clear()
	// Text writes s in the small font at (x, y).
	Text(x, y int16, s string)
	// Heading writes s in the large font at (x, y).
	Heading(x, y int16, s string)
	// Line blanks the full-width row at y, then writes s at its left edge.
	Line(y int16, s string)
}

// Screen is a TFT that can also fill regions in hardware.
type Screen interface {
	drivers.Displayer
	FillScreen(c color.RGBA)
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)

// LineMargin is the left edge used by Line.
const LineMargin = 3

// Panel draws white-on-black text with tinyfont.
type Panel struct {
	scr   Screen
	small *tinyfont.Font
	large *tinyfont.Font
	fg    color.RGBA
	bg    color.RGBA
}

func NewPanel(scr Screen) *Panel {
	return &Panel{
		scr:   scr,
		small: &proggy.TinySZ8pt7b,
		large: &freemono.Regular9pt7b,
		fg:    White,
		bg:    Black,
	}
}

func (p *Panel) Clear() {
	p.scr.FillScreen(p.bg)
	p.flush()
}

func (p *Panel) Text(x, y int16, s string) {
	p.write(p.small, x, y, s)
	p.flush()
}

func (p *Panel) Heading(x, y int16, s string) {
	p.write(p.large, x, y, s)
	p.flush()
}

func (p *Panel) Line(y int16, s string) {
	w, _ := p.scr.Size()
	if err := p.scr.FillRectangle(0, y, w, LineHeight(p.small), p.bg); err != nil {
		println("[display] fill:", err.Error())
	}
	p.write(p.small, LineMargin, y, s)
	p.flush()
}

// LineHeight is the vertical advance of f.
func LineHeight(f *tinyfont.Font) int16 { return int16(f.YAdvance) }

// tinyfont positions text by baseline; callers pass the cell top.
func (p *Panel) write(f *tinyfont.Font, x, y int16, s string) {
	lh := LineHeight(f)
	base := y + lh*3/4
	for len(s) > 0 {
		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line, s = s[:i], s[i+1:]
		} else {
			s = ""
		}
		if line != "" {
			tinyfont.WriteLine(p.scr, f, x, base, line, p.fg)
		}
		base += lh
	}
}

func (p *Panel) flush() {
	if err := p.scr.Display(); err != nil {
		println("[display] flush:", err.Error())
	}
}

// Console is the bench sink; every call becomes one log line.
type Console struct {
	L *log.Logger // nil means the standard logger
}

func (c Console) logger() *log.Logger {
	if c.L != nil {
		return c.L
	}
	return log.Default()
}

func (c Console) Clear() { c.logger().Print("[display] ----") }

func (c Console) Text(x, y int16, s string) {
	c.logger().Printf("[display] (%d,%d) %s", x, y, s)
}

func (c Console) Heading(x, y int16, s string) {
	c.logger().Printf("[display] (%d,%d) # %s", x, y, s)
}

func (c Console) Line(y int16, s string) {
	c.logger().Printf("[display] (%d,%d) %s", LineMargin, y, s)
}

var (
	_ Sink = (*Panel)(nil)
	_ Sink = Console{}
)
