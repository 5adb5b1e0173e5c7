// Package onewiretest simulates a 1-Wire line with DS18B20-style slaves at
// the pin level, on a virtual clock.
//
// The master under test drives Wire as its onewire.Pin and Wire.Delay as its
// delay. Slots are classified by how long the master held the line low:
// 480 µs or more is a reset, under 15 µs is a 1 (or a read slot), anything
// else is a 0. Slaves pull the line low for the first 45 µs of a slot when
// they transmit a 0, and for 15..135 µs after a reset as presence.
package onewiretest

import (
	"time"

	"envmon-go/drivers/onewire"
)

const (
	resetMin      = 480 * time.Microsecond
	oneMax        = 15 * time.Microsecond
	holdZero      = 45 * time.Microsecond
	presenceStart = 15 * time.Microsecond
	presenceEnd   = 135 * time.Microsecond
)

// Wire is the simulated line plus its virtual clock.
type Wire struct {
	Now    time.Duration
	Slots  int // completed non-reset slots
	Resets int

	devs     []*Thermometer
	low      bool
	lowAt    time.Duration
	driven   bool // some slave holds the current slot low
	presFrom time.Duration
	presTo   time.Duration
}

// NewWire returns a line with the given slaves attached.
func NewWire(devs ...*Thermometer) *Wire {
	return &Wire{devs: devs, presFrom: -1, presTo: -1}
}

// Attach adds a slave.
func (w *Wire) Attach(d *Thermometer) { w.devs = append(w.devs, d) }

// Delay advances the virtual clock.
func (w *Wire) Delay(d time.Duration) { w.Now += d }

func (w *Wire) Low() {
	if w.low {
		return
	}
	w.low = true
	w.lowAt = w.Now
	w.driven = false
	for _, d := range w.devs {
		if d.pullsLow() {
			w.driven = true
		}
	}
}

func (w *Wire) Release() {
	if !w.low {
		return
	}
	w.low = false
	dur := w.Now - w.lowAt
	if dur >= resetMin {
		w.Resets++
		w.driven = false
		present := false
		for _, d := range w.devs {
			if d.reset() {
				present = true
			}
		}
		if present {
			w.presFrom, w.presTo = w.Now+presenceStart, w.Now+presenceEnd
		}
		return
	}
	w.Slots++
	bit := dur < oneMax
	for _, d := range w.devs {
		d.slot(bit)
	}
}

func (w *Wire) Get() bool {
	switch {
	case w.low:
		return false
	case w.Now >= w.presFrom && w.Now < w.presTo:
		return false
	case w.driven && w.Now-w.lowAt < holdZero:
		return false
	}
	return true
}

var _ onewire.Pin = (*Wire)(nil)
