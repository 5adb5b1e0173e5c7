package conv

const hexd = "0123456789ABCDEF"

// U8Hex writes 2-digit uppercase hex into buf[:2] and returns it.
func U8Hex(buf []byte, b byte) []byte {
	if len(buf) < 2 {
		return buf[:0]
	}
	buf[0] = hexd[b>>4]
	buf[1] = hexd[b&0xF]
	return buf[:2]
}

// MAC writes hw as colon-separated uppercase hex ("AA:BB:..").
// buf should be length >= 3*len(hw)-1.
func MAC(buf []byte, hw []byte) []byte {
	n := 0
	for i, b := range hw {
		if i > 0 {
			if n >= len(buf) {
				break
			}
			buf[n] = ':'
			n++
		}
		if n+2 > len(buf) {
			break
		}
		U8Hex(buf[n:], b)
		n += 2
	}
	return buf[:n]
}
