// Package conv renders numbers into caller buffers for code that must not
// allocate, such as the request builder and the 1-Wire ROM dump.
package conv

// Utoa writes n in decimal at the end of buf and returns the digits.
// Digits that do not fit are dropped from the front; 20 bytes hold any
// uint64.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	for i > 0 {
		i--
		buf[i] = '0' + byte(n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return buf[i:]
}

// Itoa is Utoa with a leading '-' for negative n. MinInt64 needs 20 bytes.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	d := Utoa(buf, uint64(-n))
	i := len(buf) - len(d)
	if i == 0 {
		return d
	}
	buf[i-1] = '-'
	return buf[i-1:]
}
