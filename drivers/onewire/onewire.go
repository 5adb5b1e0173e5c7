// Package onewire implements a bit-banged 1-Wire master at standard speed.
//
// The bus is driven through a Pin that can pull the line low or release it
// to the external (or internal) pull-up. All slot timing goes through the
// injected Delay, which on hardware must be a busy-wait: the short parts of
// each slot run with interrupts masked.
//
// Devices are enumerated with SearchNext:
//
//	var st onewire.SearchState
//	for {
//		addr, err := bus.SearchNext(&st)
//		if err == onewire.ErrSearchDone {
//			break
//		}
//		...
//	}
package onewire

import (
	"errors"
	"time"

	"envmon-go/errcode"
	"envmon-go/x/conv"
	"envmon-go/x/timex"
)

// ROM commands.
const (
	CmdReadROM   = 0x33
	CmdMatchROM  = 0x55
	CmdSkipROM   = 0xCC
	CmdSearchROM = 0xF0
)

// Standard-speed slot timing.
const (
	tResetLow   = 480 * time.Microsecond
	tPresence   = 70 * time.Microsecond
	tResetRest  = 410 * time.Microsecond
	tWrite1Low  = 6 * time.Microsecond
	tWrite1Rest = 64 * time.Microsecond
	tWrite0Low  = 60 * time.Microsecond
	tWrite0Rest = 10 * time.Microsecond
	tReadLow    = 3 * time.Microsecond
	tReadSample = 10 * time.Microsecond
	tReadRest   = 53 * time.Microsecond
)

// Errors returned by the bus.
var (
	ErrNoPresence = errcode.OneWireTimeout
	ErrConflict   = errcode.OneWireConflict
	ErrCRC        = errcode.OneWireCRC
	ErrSearchDone = errors.New("onewire: search done")
)

// Pin is an open-drain line.
type Pin interface {
	Low()      // drive the line low
	Release()  // stop driving; the pull-up takes the line high
	Get() bool // sample the line
}

// Address is a 64-bit ROM code, family code first, CRC last.
type Address [8]byte

func (a Address) Family() byte { return a[0] }

// Valid reports whether the trailing CRC matches.
func (a Address) Valid() bool { return CRC8(a[:]) == 0 }

// Hex writes the address as 16 uppercase hex digits, family first.
// buf should be length >= 16.
func (a Address) Hex(buf []byte) []byte {
	n := 0
	for _, b := range a {
		if n+2 > len(buf) {
			break
		}
		conv.U8Hex(buf[n:], b)
		n += 2
	}
	return buf[:n]
}

// Bus is a 1-Wire master.
type Bus struct {
	pin   Pin
	delay timex.Delay
}

// New returns a master on pin. delay nil means timex.Sleep, which is only
// accurate enough on hosts with a fine-grained timer.
func New(pin Pin, delay timex.Delay) *Bus {
	if delay == nil {
		delay = timex.Sleep
	}
	pin.Release()
	return &Bus{pin: pin, delay: delay}
}

// Reset issues a reset pulse and reports whether any device answered with
// a presence pulse.
func (b *Bus) Reset() bool {
	b.pin.Low()
	b.delay(tResetLow)
	st := disableInterrupts()
	b.pin.Release()
	b.delay(tPresence)
	present := !b.pin.Get()
	restoreInterrupts(st)
	b.delay(tResetRest)
	return present
}

// WriteBit sends one time slot.
func (b *Bus) WriteBit(bit bool) {
	st := disableInterrupts()
	b.pin.Low()
	if bit {
		b.delay(tWrite1Low)
		b.pin.Release()
		restoreInterrupts(st)
		b.delay(tWrite1Rest)
		return
	}
	b.delay(tWrite0Low)
	b.pin.Release()
	restoreInterrupts(st)
	b.delay(tWrite0Rest)
}

// ReadBit issues a read slot and samples the line ~13 µs after the edge.
func (b *Bus) ReadBit() bool {
	st := disableInterrupts()
	b.pin.Low()
	b.delay(tReadLow)
	b.pin.Release()
	b.delay(tReadSample)
	v := b.pin.Get()
	restoreInterrupts(st)
	b.delay(tReadRest)
	return v
}

// Write sends a byte, LSB first.
func (b *Bus) Write(v byte) {
	for i := 0; i < 8; i++ {
		b.WriteBit(v&1 != 0)
		v >>= 1
	}
}

// Read receives a byte, LSB first.
func (b *Bus) Read() byte {
	var v byte
	for i := 0; i < 8; i++ {
		v >>= 1
		if b.ReadBit() {
			v |= 0x80
		}
	}
	return v
}

// ReadInto fills p.
func (b *Bus) ReadInto(p []byte) {
	for i := range p {
		p[i] = b.Read()
	}
}

// Select resets the bus and addresses a single device (MATCH ROM).
func (b *Bus) Select(a Address) error {
	if !b.Reset() {
		return ErrNoPresence
	}
	b.Write(CmdMatchROM)
	for _, v := range a {
		b.Write(v)
	}
	return nil
}

// Skip resets the bus and addresses every device (SKIP ROM).
func (b *Bus) Skip() error {
	if !b.Reset() {
		return ErrNoPresence
	}
	b.Write(CmdSkipROM)
	return nil
}

// ReadROM reads the address of the only device on the bus.
func (b *Bus) ReadROM() (Address, error) {
	var a Address
	if !b.Reset() {
		return a, ErrNoPresence
	}
	b.Write(CmdReadROM)
	b.ReadInto(a[:])
	if !a.Valid() {
		return Address{}, ErrCRC
	}
	return a, nil
}
