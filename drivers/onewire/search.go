package onewire

// SearchState carries ROM search progress between SearchNext calls.
// The zero value starts a new enumeration.
type SearchState struct {
	rom             Address
	lastDiscrepancy int // 1-based bit index of the last 0 taken at a fork
	done            bool
}

// Reset restarts the enumeration.
func (s *SearchState) Reset() { *s = SearchState{} }

// SearchNext returns the next ROM code on the bus.
//
// It returns ErrSearchDone once every device has been reported,
// ErrNoPresence when nothing answers the reset, ErrConflict when no device
// drives a bit mid-search (a device left the bus), and ErrCRC when the
// collected code fails its checksum. After an error other than
// ErrSearchDone the state is reset.
func (b *Bus) SearchNext(st *SearchState) (Address, error) {
	if st.done {
		return Address{}, ErrSearchDone
	}
	if !b.Reset() {
		st.Reset()
		return Address{}, ErrNoPresence
	}
	b.Write(CmdSearchROM)

	lastZero := 0
	for i := 1; i <= 64; i++ {
		byteIdx, mask := (i-1)>>3, byte(1)<<((i-1)&7)
		id := b.ReadBit()
		cmp := b.ReadBit()

		var dir bool
		switch {
		case id && cmp:
			st.Reset()
			return Address{}, ErrConflict
		case id != cmp:
			dir = id
		case i < st.lastDiscrepancy:
			dir = st.rom[byteIdx]&mask != 0
		default:
			dir = i == st.lastDiscrepancy
		}
		if !id && !cmp && !dir {
			lastZero = i
		}

		if dir {
			st.rom[byteIdx] |= mask
		} else {
			st.rom[byteIdx] &^= mask
		}
		b.WriteBit(dir)
	}

	if !st.rom.Valid() {
		st.Reset()
		return Address{}, ErrCRC
	}
	st.lastDiscrepancy = lastZero
	if lastZero == 0 {
		st.done = true
	}
	return st.rom, nil
}

// SearchFamily is SearchNext filtered by family code.
func (b *Bus) SearchFamily(st *SearchState, family byte) (Address, error) {
	for {
		a, err := b.SearchNext(st)
		if err != nil || a.Family() == family {
			return a, err
		}
	}
}
