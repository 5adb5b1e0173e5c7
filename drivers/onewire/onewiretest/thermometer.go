package onewiretest

import (
	"envmon-go/drivers/onewire"
)

type phase uint8

const (
	phaseIdle phase = iota // deselected until the next reset
	phaseROMCmd
	phaseMatch
	phaseSearch
	phaseFunc
	phaseTx
	phaseRxScratch
	phaseConvert
)

// Thermometer is a DS18B20-like slave.
type Thermometer struct {
	ROM onewire.Address
	// Bytes 0..7 of the scratchpad; byte 8 is computed on every read.
	Scratchpad [8]byte
	// CorruptReads makes that many upcoming scratchpad reads carry a bad CRC.
	CorruptReads int
	// Absent keeps the slave off the bus (no presence, no replies).
	Absent bool

	Converts     int
	ScratchReads int

	phase  phase
	acc    uint64
	nacc   int
	search int // bit index * 3 + step
	tx     [9]byte
	ntx    int // bits to send
	itx    int
}

// ROM builds a valid address from a family code and a 48-bit serial.
func ROM(family byte, serial uint64) onewire.Address {
	var a onewire.Address
	a[0] = family
	for i := 1; i < 7; i++ {
		a[i] = byte(serial)
		serial >>= 8
	}
	a[7] = onewire.CRC8(a[:7])
	return a
}

// NewThermometer returns a 12-bit DS18B20 reporting raw (1/16 °C units).
func NewThermometer(serial uint64, raw uint16) *Thermometer {
	t := &Thermometer{ROM: ROM(0x28, serial)}
	t.Scratchpad = [8]byte{0, 0, 0x4B, 0x46, 0x7F, 0xFF, 0x0C, 0x10}
	t.SetRaw(raw)
	return t
}

// SetRaw changes the reading published by the next read.
func (t *Thermometer) SetRaw(raw uint16) {
	t.Scratchpad[0] = byte(raw)
	t.Scratchpad[1] = byte(raw >> 8)
}

func (t *Thermometer) romBit(i int) bool { return t.ROM[i>>3]>>(i&7)&1 != 0 }

func (t *Thermometer) reset() bool {
	if t.Absent {
		t.phase = phaseIdle
		return false
	}
	t.phase = phaseROMCmd
	t.acc, t.nacc = 0, 0
	return true
}

func (t *Thermometer) pullsLow() bool {
	switch t.phase {
	case phaseSearch:
		i, step := t.search/3, t.search%3
		switch step {
		case 0:
			return !t.romBit(i)
		case 1:
			return t.romBit(i)
		}
	case phaseTx:
		if t.itx < t.ntx {
			return t.tx[t.itx>>3]>>(t.itx&7)&1 == 0
		}
	}
	return false
}

// take shifts one received bit in (LSB first) and reports whether n bits
// have been collected.
func (t *Thermometer) take(bit bool, n int) bool {
	if bit {
		t.acc |= 1 << t.nacc
	}
	t.nacc++
	return t.nacc == n
}

func (t *Thermometer) clearAcc() { t.acc, t.nacc = 0, 0 }

func (t *Thermometer) slot(bit bool) {
	switch t.phase {
	case phaseROMCmd:
		if !t.take(bit, 8) {
			return
		}
		cmd := byte(t.acc)
		t.clearAcc()
		switch cmd {
		case onewire.CmdMatchROM:
			t.phase = phaseMatch
		case onewire.CmdSkipROM:
			t.phase = phaseFunc
		case onewire.CmdSearchROM:
			t.phase, t.search = phaseSearch, 0
		case onewire.CmdReadROM:
			t.send(t.ROM[:])
		default:
			t.phase = phaseIdle
		}
	case phaseMatch:
		if !t.take(bit, 64) {
			return
		}
		var a onewire.Address
		for i := range a {
			a[i] = byte(t.acc >> (8 * i))
		}
		t.clearAcc()
		if a == t.ROM {
			t.phase = phaseFunc
		} else {
			t.phase = phaseIdle
		}
	case phaseSearch:
		i, step := t.search/3, t.search%3
		if step < 2 {
			t.search++
			return
		}
		if bit != t.romBit(i) {
			t.phase = phaseIdle
			return
		}
		t.search++
		if i == 63 {
			t.phase = phaseIdle
		}
	case phaseFunc:
		if !t.take(bit, 8) {
			return
		}
		cmd := byte(t.acc)
		t.clearAcc()
		switch cmd {
		case 0x44:
			t.Converts++
			t.phase = phaseConvert
		case 0xBE:
			t.ScratchReads++
			var pad [9]byte
			copy(pad[:], t.Scratchpad[:])
			pad[8] = onewire.CRC8(pad[:8])
			if t.CorruptReads > 0 {
				t.CorruptReads--
				pad[8] ^= 0xA5
			}
			t.send(pad[:])
		case 0x4E:
			t.phase = phaseRxScratch
		default:
			t.phase = phaseIdle
		}
	case phaseTx:
		t.itx++
	case phaseRxScratch:
		if !t.take(bit, 24) {
			return
		}
		t.Scratchpad[2] = byte(t.acc)
		t.Scratchpad[3] = byte(t.acc >> 8)
		t.Scratchpad[4] = byte(t.acc>>16)&0x60 | 0x1F
		t.clearAcc()
		t.phase = phaseIdle
	}
}

func (t *Thermometer) send(p []byte) {
	n := copy(t.tx[:], p)
	t.ntx, t.itx = n*8, 0
	t.phase = phaseTx
}
