//go:build linux && !tinygo

package platform

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPeriphPinOpenDrain(t *testing.T) {
	raw := &gpiotest.Pin{N: "GPIO4", L: gpio.Low}
	p := periphPin{raw}

	p.Release()
	if raw.P != gpio.PullUp || !p.Get() {
		t.Fatalf("released line: pull=%v level=%v, want pulled up and high", raw.P, raw.L)
	}
	p.Low()
	if p.Get() {
		t.Fatal("line high while driven low")
	}
}

func TestBoardWire(t *testing.T) {
	var b Board
	if b.Wire() != nil {
		t.Fatal("Wire on a board without a probe line")
	}
	raw := &gpiotest.Pin{N: "GPIO4"}
	b.OneWire = periphPin{raw}
	b.BitDelay = func(d time.Duration) {}
	bus := b.Wire()
	if bus == nil {
		t.Fatal("no bus on a board with a probe line")
	}
	// Nothing answers on a bare pulled-up line.
	if bus.Reset() {
		t.Fatal("presence pulse on an empty line")
	}
}
