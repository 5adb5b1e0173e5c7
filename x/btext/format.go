package btext

import (
	"math"
	"strconv"

	"envmon-go/x/conv"
)

// Tiny formatter subset writing straight into the bounded buffer.
// Supports: %s %q %d %x %X %v %t %f %% with width and precision.
// Floats round half to even; %f defaults to 6 digits, %v to 1.

type writer struct {
	dst  []byte
	n    int
	over bool
}

func (w *writer) byte(c byte) {
	if w.n >= len(w.dst) {
		w.over = true
		return
	}
	w.dst[w.n] = c
	w.n++
}

func (w *writer) str(s string) {
	if len(s) > len(w.dst)-w.n {
		w.over = true
		return
	}
	w.n += copy(w.dst[w.n:], s)
}

func (w *writer) bytes(p []byte) {
	if len(p) > len(w.dst)-w.n {
		w.over = true
		return
	}
	w.n += copy(w.dst[w.n:], p)
}

func (w *writer) pad(width, used int) {
	for ; used < width; used++ {
		w.byte(' ')
	}
}

func (w *writer) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format) && !w.over; {
		if format[i] != '%' {
			w.byte(format[i])
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			w.byte('%')
			i += 2
			continue
		}
		i++
		// %<w>.<p><verb>
		width, prec := 0, -1
		i = parseNum(format, i, &width)
		if i < len(format) && format[i] == '.' {
			i++
			prec = 0
			i = parseNum(format, i, &prec)
		}
		if i >= len(format) || ai >= len(args) {
			return
		}
		verb := format[i]
		arg := args[ai]
		ai++
		i++

		switch verb {
		case 's':
			switch x := arg.(type) {
			case string:
				if prec >= 0 && prec < len(x) {
					x = x[:prec]
				}
				w.pad(width, len(x))
				w.str(x)
			case []byte:
				if prec >= 0 && prec < len(x) {
					x = x[:prec]
				}
				w.pad(width, len(x))
				w.bytes(x)
			default:
				w.value(arg, width)
			}
		case 'q':
			s, _ := asString(arg)
			w.quote(s)
		case 'd':
			w.int(arg, width)
		case 'x', 'X':
			w.hex(toU64(arg), verb == 'X', width)
		case 't':
			b, _ := arg.(bool)
			w.bool(b)
		case 'f':
			if prec < 0 {
				prec = 6
			}
			w.float(toF64(arg), prec, width)
		case 'v':
			w.value(arg, width)
		default:
			// Unknown verb: write it literally to aid debugging.
			w.byte('%')
			w.byte(verb)
		}
	}
}

func (w *writer) value(arg any, width int) {
	switch x := arg.(type) {
	case string:
		w.pad(width, len(x))
		w.str(x)
	case []byte:
		w.pad(width, len(x))
		w.bytes(x)
	case bool:
		w.bool(x)
	case float32:
		w.float(float64(x), 1, width)
	case float64:
		w.float(x, 1, width)
	case error:
		w.str(x.Error())
	default:
		w.int(arg, width)
	}
}

func (w *writer) int(arg any, width int) {
	var tmp [20]byte
	var digits []byte
	switch x := arg.(type) {
	case int:
		digits = conv.Itoa(tmp[:], int64(x))
	case int8:
		digits = conv.Itoa(tmp[:], int64(x))
	case int16:
		digits = conv.Itoa(tmp[:], int64(x))
	case int32:
		digits = conv.Itoa(tmp[:], int64(x))
	case int64:
		digits = conv.Itoa(tmp[:], x)
	case uint, uint8, uint16, uint32, uint64:
		digits = conv.Utoa(tmp[:], toU64(x))
	default:
		w.str("<unk>")
		return
	}
	w.pad(width, len(digits))
	w.bytes(digits)
}

func (w *writer) hex(u uint64, upper bool, width int) {
	const lower, upperd = "0123456789abcdef", "0123456789ABCDEF"
	d := lower
	if upper {
		d = upperd
	}
	var tmp [16]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = d[u&0xF]
		u >>= 4
		if u == 0 {
			break
		}
	}
	w.pad(width, len(tmp)-i)
	w.bytes(tmp[i:])
}

func (w *writer) bool(b bool) {
	if b {
		w.str("true")
	} else {
		w.str("false")
	}
}

// float renders f with exactly prec fractional digits (prec <= 9).
func (w *writer) float(f float64, prec, width int) {
	switch {
	case math.IsNaN(f):
		w.pad(width, 3)
		w.str("NaN")
		return
	case math.IsInf(f, 1):
		w.pad(width, 4)
		w.str("+Inf")
		return
	case math.IsInf(f, -1):
		w.pad(width, 4)
		w.str("-Inf")
		return
	}
	if prec > 9 {
		prec = 9
	}
	// Exact decimal expansion; ties round to even as fmt does.
	var buf [32]byte
	d := buf[:0]
	if math.Abs(f) < 1e15 {
		d = strconv.AppendFloat(d, f, 'f', prec, 64)
	} else {
		d = append(d, "<big>"...)
	}
	w.pad(width, len(d))
	w.bytes(d)
}

func (w *writer) quote(s string) {
	w.byte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			w.byte('\\')
			w.byte(s[i])
		case '\n':
			w.str(`\n`)
		case '\r':
			w.str(`\r`)
		case '\t':
			w.str(`\t`)
		default:
			w.byte(s[i])
		}
	}
	w.byte('"')
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

func toU64(v any) uint64 {
	switch t := v.(type) {
	case uint:
		return uint64(t)
	case uint8:
		return uint64(t)
	case uint16:
		return uint64(t)
	case uint32:
		return uint64(t)
	case uint64:
		return t
	case int:
		return uint64(t)
	case int8:
		return uint64(uint8(t))
	case int16:
		return uint64(uint16(t))
	case int32:
		return uint64(uint32(t))
	case int64:
		return uint64(t)
	default:
		return 0
	}
}

func toF64(v any) float64 {
	switch t := v.(type) {
	case float32:
		return float64(t)
	case float64:
		return t
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case uint32:
		return float64(t)
	default:
		return 0
	}
}

func parseNum(s string, i int, out *int) int {
	n := 0
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i > start {
		*out = n
	}
	return i
}
