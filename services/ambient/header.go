package ambient

import (
	"math"

	"envmon-go/errcode"
)

const clField = "content-length:"

// ContentLength finds the first Content-Length header in buf. The field
// name matches case-insensitively; blanks around the value are skipped and
// the line terminator must already be in buf, so a value cut off mid-read
// is not reported early.
func ContentLength(buf []byte) (uint32, bool) {
	j, start := 0, -1
	for i := 0; i < len(buf); i++ {
		c := lower(buf[i])
		switch {
		case c == clField[j]:
			j++
		case c == clField[0]:
			j = 1
		default:
			j = 0
		}
		if j == len(clField) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	var n uint64
	digits, trailing := 0, false
	for i := start; i < len(buf); i++ {
		c := buf[i]
		switch {
		case c == '\r' || c == '\n':
			return uint32(n), digits > 0
		case c == ' ' || c == '\t':
			if digits > 0 {
				trailing = true
			}
		case c >= '0' && c <= '9' && !trailing:
			n = n*10 + uint64(c-'0')
			digits++
			if n > math.MaxUint32 {
				return 0, false
			}
		default:
			return 0, false
		}
	}
	return 0, false
}

// StatusCode parses the second blank-separated token of the status line.
func StatusCode(buf []byte) (uint32, error) {
	i := skipBlank(buf, 0)
	for i < len(buf) && !blank(buf[i]) {
		i++
	}
	i = skipBlank(buf, i)
	var n uint64
	digits := 0
	for ; i < len(buf) && !blank(buf[i]); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			return 0, errcode.Unknown
		}
		n = n*10 + uint64(c-'0')
		digits++
		if n > math.MaxUint32 {
			return 0, errcode.Unknown
		}
	}
	if digits == 0 {
		return 0, errcode.Unknown
	}
	return uint32(n), nil
}

func skipBlank(b []byte, i int) int {
	for i < len(b) && blank(b[i]) {
		i++
	}
	return i
}

func blank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
