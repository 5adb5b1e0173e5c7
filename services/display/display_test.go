package display

import (
	"bytes"
	"image/color"
	"log"
	"strings"
	"testing"

	"tinygo.org/x/tinyfont/proggy"
)

type rect struct{ x, y, w, h int16 }

type fakeScreen struct {
	w, h     int16
	pixels   int
	minY     int16
	maxY     int16
	minX     int16
	fg       map[color.RGBA]int
	fills    []rect
	screens  []color.RGBA
	displays int
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{w: 320, h: 240, minY: 1 << 14, minX: 1 << 14, maxY: -1, fg: map[color.RGBA]int{}}
}

func (f *fakeScreen) Size() (int16, int16) { return f.w, f.h }

func (f *fakeScreen) SetPixel(x, y int16, c color.RGBA) {
	f.pixels++
	f.fg[c]++
	if y < f.minY {
		f.minY = y
	}
	if y > f.maxY {
		f.maxY = y
	}
	if x < f.minX {
		f.minX = x
	}
}

func (f *fakeScreen) Display() error {
	f.displays++
	return nil
}

func (f *fakeScreen) FillScreen(c color.RGBA) { f.screens = append(f.screens, c) }

func (f *fakeScreen) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	f.fills = append(f.fills, rect{x, y, w, h})
	return nil
}

func TestPanelClear(t *testing.T) {
	scr := newFakeScreen()
	NewPanel(scr).Clear()
	if len(scr.screens) != 1 || scr.screens[0] != Black {
		t.Fatalf("FillScreen calls = %v, want one black fill", scr.screens)
	}
	if scr.displays != 1 {
		t.Fatalf("Display calls = %d, want 1", scr.displays)
	}
}

func TestPanelTextPosition(t *testing.T) {
	hi, lo := newFakeScreen(), newFakeScreen()
	NewPanel(hi).Text(10, 20, "firmware: 2.1.0")
	NewPanel(lo).Text(10, 45, "firmware: 2.1.0")
	if hi.pixels == 0 || hi.pixels != lo.pixels {
		t.Fatalf("pixels drawn = %d and %d", hi.pixels, lo.pixels)
	}
	if lo.minY-hi.minY != 25 || lo.maxY-hi.maxY != 25 {
		t.Fatalf("text did not move with y: %d..%d vs %d..%d", hi.minY, hi.maxY, lo.minY, lo.maxY)
	}
	if hi.minX < 10 {
		t.Fatalf("text starts at x=%d, left of 10", hi.minX)
	}
	for c := range hi.fg {
		if c != White {
			t.Fatalf("pixel colour %v, want white", c)
		}
	}
}

func TestPanelMultiLine(t *testing.T) {
	one, two := newFakeScreen(), newFakeScreen()
	NewPanel(one).Text(30, 30, "temp: 25.0 C")
	NewPanel(two).Text(30, 30, "temp: 25.0 C\ntemp: 25.0 C")
	lh := LineHeight(&proggy.TinySZ8pt7b)
	if two.pixels != 2*one.pixels {
		t.Fatalf("pixels = %d, want %d", two.pixels, 2*one.pixels)
	}
	if two.maxY-one.maxY != lh || two.minY != one.minY {
		t.Fatalf("second line offset %d, want %d", two.maxY-one.maxY, lh)
	}
}

func TestPanelLineClearsRow(t *testing.T) {
	scr := newFakeScreen()
	NewPanel(scr).Line(140, "http Ok 200")
	if len(scr.fills) != 1 {
		t.Fatalf("fills = %v, want one", scr.fills)
	}
	want := rect{0, 140, 320, LineHeight(&proggy.TinySZ8pt7b)}
	if scr.fills[0] != want {
		t.Fatalf("fill = %+v, want %+v", scr.fills[0], want)
	}
	if scr.pixels == 0 || scr.minX < LineMargin {
		t.Fatalf("line text not drawn at the margin")
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := Console{L: log.New(&buf, "", 0)}
	c.Clear()
	c.Text(10, 0, "firmware: host")
	c.Line(140, "http NG failed")
	got := buf.String()
	for _, want := range []string{"[display] ----", "(10,0) firmware: host", "(3,140) http NG failed"} {
		if !strings.Contains(got, want) {
			t.Fatalf("console output %q missing %q", got, want)
		}
	}
}
