// Package btext provides a fixed-capacity text buffer with fallible append.
//
// The backing storage is supplied by the caller (usually a stack or package
// array), so nothing here allocates:
//
//	var store [btext.RequestCap]byte
//	t := btext.New(store[:])
//	if err := t.Appendf("Content-Length: %d\r\n", n); err != nil {
//		// err == errcode.Overflow, t is unchanged
//	}
//
// Every append is all-or-nothing: on overflow the length and the bytes
// already written are left exactly as they were.
package btext

import (
	"unicode/utf8"

	"envmon-go/errcode"
)

// Capacities used by the firmware.
const (
	RequestCap = 256
	RecvCap    = 4096
)

// ErrOverflow is returned when an append does not fit.
var ErrOverflow = errcode.Overflow

// Text is a bounded byte buffer. The zero value has capacity 0.
type Text struct {
	buf []byte
	n   int
}

// New wraps backing as an empty Text whose capacity is len(backing).
func New(backing []byte) Text {
	return Text{buf: backing[:len(backing):len(backing)]}
}

func (t *Text) Len() int { return t.n }
func (t *Text) Cap() int { return len(t.buf) }

// Bytes borrows the current contents. The slice is invalidated by Reset.
func (t *Text) Bytes() []byte { return t.buf[:t.n] }

// String copies the contents. Prefer Bytes on MCU hot paths.
func (t *Text) String() string { return string(t.buf[:t.n]) }

// Reset truncates to zero without clearing the backing bytes.
func (t *Text) Reset() { t.n = 0 }

// Valid reports whether the contents are well-formed UTF-8.
func (t *Text) Valid() bool { return utf8.Valid(t.buf[:t.n]) }

// AppendString appends s or nothing.
func (t *Text) AppendString(s string) error {
	if len(s) > len(t.buf)-t.n {
		return ErrOverflow
	}
	t.n += copy(t.buf[t.n:], s)
	return nil
}

// AppendBytes appends p or nothing.
func (t *Text) AppendBytes(p []byte) error {
	if len(p) > len(t.buf)-t.n {
		return ErrOverflow
	}
	t.n += copy(t.buf[t.n:], p)
	return nil
}

// Appendf renders format and args and appends the result or nothing.
// See the package formatter for the supported verbs.
func (t *Text) Appendf(format string, args ...any) error {
	w := writer{dst: t.buf, n: t.n}
	w.format(format, args...)
	if w.over {
		return ErrOverflow
	}
	t.n = w.n
	return nil
}
