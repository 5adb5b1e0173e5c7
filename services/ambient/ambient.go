// Package ambient posts readings to the Ambient cloud logger over a single
// raw TCP stream on the Wi-Fi coprocessor.
//
// A post is connect, send in small windows, then poll for the response
// until the declared body has had time to arrive:
//
//	p := ambient.New(wifi.Radio().Link, ambient.Config{})
//	res, err := p.Post(ep, req.Bytes())
//
// The coprocessor's receive path is slow and lossy under load, so the
// response is never parsed beyond the status code and Content-Length.
package ambient

import (
	"time"
	"unicode/utf8"

	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/wifi"
	"envmon-go/x/btext"
	"envmon-go/x/mathx"
	"envmon-go/x/timex"
)

// Defaults.
const (
	ChunkSize           = 40
	ChunkPause          = 30 * time.Millisecond
	PollPause           = 30 * time.Millisecond
	InitialPolls        = 10
	PollStep            = 512
	ConnectTimeoutTicks = 4_000_000
)

// Trace receives progress callbacks. Any field may be nil.
type Trace struct {
	Connected     func(ep types.Endpoint, reqLen int)
	Polled        func(poll, received int)
	ContentLength func(n uint32)
}

type Config struct {
	ChunkSize           int
	ChunkPause          time.Duration
	PollPause           time.Duration
	InitialPolls        uint32
	ConnectTimeoutTicks uint32
	Delay               timex.Delay
	Trace               Trace
}

func (c *Config) setDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = ChunkSize
	}
	c.ChunkSize = mathx.Clamp(c.ChunkSize, 1, btext.RequestCap)
	if c.ChunkPause == 0 {
		c.ChunkPause = ChunkPause
	}
	if c.PollPause == 0 {
		c.PollPause = PollPause
	}
	if c.InitialPolls == 0 {
		c.InitialPolls = InitialPolls
	}
	if c.ConnectTimeoutTicks == 0 {
		c.ConnectTimeoutTicks = ConnectTimeoutTicks
	}
	if c.Delay == nil {
		c.Delay = timex.Sleep
	}
}

// Poster owns the receive accumulator; one post at a time.
type Poster struct {
	link wifi.Link
	cfg  Config

	store [btext.RecvCap]byte
	acc   btext.Text
	// window holds one poll plus the carried tail of a split character.
	window [PollStep + utf8.UTFMax - 1]byte
}

func New(link wifi.Link, cfg Config) *Poster {
	cfg.setDefaults()
	p := &Poster{link: link, cfg: cfg}
	p.acc = btext.New(p.store[:])
	return p
}

// Received borrows what the last Post accumulated. It is overwritten by
// the next Post.
func (p *Poster) Received() []byte { return p.acc.Bytes() }

// Post sends req to ep and waits for the response header.
//
// Errors carry errcode.ConnectFailed, SendFailed, RecvFailed (no
// Content-Length seen in time), Unknown (unparseable status line) or
// CloseFailed.
func (p *Poster) Post(ep types.Endpoint, req []byte) (types.Response, error) {
	const op = "ambient.post"
	if err := p.link.Connect(ep, p.cfg.ConnectTimeoutTicks); err != nil {
		println("[ambient] connect failed:", err.Error())
		return types.Response{}, errcode.Wrap(errcode.ConnectFailed, op, err)
	}
	if t := p.cfg.Trace.Connected; t != nil {
		t(ep, len(req))
	}

	if err := p.send(req); err != nil {
		_ = p.link.Close()
		return types.Response{}, errcode.Wrap(errcode.SendFailed, op, err)
	}

	declared, ok := p.receive()
	if !ok {
		_ = p.link.Close()
		println("[ambient] no content length after", p.acc.Len(), "bytes")
		return types.Response{}, errcode.Wrap(errcode.RecvFailed, op, nil)
	}

	status, serr := StatusCode(p.acc.Bytes())
	if err := p.link.Close(); err != nil {
		return types.Response{}, errcode.Wrap(errcode.CloseFailed, op, err)
	}
	if serr != nil {
		return types.Response{}, errcode.Wrap(errcode.Unknown, op, serr)
	}
	return types.Response{Status: status, BodyLen: declared}, nil
}

// send writes req in ChunkSize windows, pausing after each.
func (p *Poster) send(req []byte) error {
	n := mathx.Chunks(len(req), p.cfg.ChunkSize)
	for i := 0; i < n; i++ {
		lo := i * p.cfg.ChunkSize
		hi := mathx.Min(lo+p.cfg.ChunkSize, len(req))
		w, err := p.link.Send(req[lo:hi])
		if err != nil {
			return err
		}
		if w != hi-lo {
			return errcode.SendFailed
		}
		p.cfg.Delay(p.cfg.ChunkPause)
	}
	return nil
}

// receive polls until the budget runs out. The budget starts at
// InitialPolls and, once Content-Length is known, is replaced by one poll
// per 512 bytes of body plus one; each poll drains up to PollStep bytes.
// A chunk that is not valid UTF-8 is dropped, except that a character cut
// by the window edge is carried into the next poll.
func (p *Poster) receive() (uint32, bool) {
	p.acc.Reset()
	budget := timex.NewBudget(p.cfg.InitialPolls)
	var declared uint32
	found := false
	carry := 0
	for poll := 1; ; poll++ {
		n, err := p.link.Recv(p.window[carry : carry+PollStep])
		if err != nil {
			// Treated as nothing arrived; the budget bounds the wait.
			n = 0
		}
		if n > 0 {
			total := carry + n
			k := completePrefix(p.window[:total])
			carry = 0
			if utf8.Valid(p.window[:k]) {
				if p.acc.AppendBytes(p.window[:k]) != nil {
					println("[ambient] receive buffer full")
					break
				}
				carry = copy(p.window[:], p.window[k:total])
			}
		}
		if t := p.cfg.Trace.Polled; t != nil {
			t(poll, p.acc.Len())
		}
		p.cfg.Delay(p.cfg.PollPause)
		more := budget.Spend()
		if !found {
			if cl, ok := ContentLength(p.acc.Bytes()); ok {
				found, declared = true, cl
				budget.Reset(uint32(mathx.CeilDiv(uint64(cl)+PollStep, PollStep)))
				more = true
				if t := p.cfg.Trace.ContentLength; t != nil {
					t(cl)
				}
			}
		}
		if !more {
			break
		}
	}
	return declared, found
}

// completePrefix returns how much of b ends on a character boundary. Only
// a well-formed lead byte in the last utf8.UTFMax-1 bytes whose sequence
// is cut short is held back.
func completePrefix(b []byte) int {
	n := len(b)
	for i := n - 1; i >= 0 && i >= n-(utf8.UTFMax-1); i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			return n
		}
		if !utf8.RuneStart(c) {
			continue
		}
		need := 0
		switch {
		case c >= 0xC2 && c <= 0xDF:
			need = 2
		case c >= 0xE0 && c <= 0xEF:
			need = 3
		case c >= 0xF0 && c <= 0xF4:
			need = 4
		}
		if need > 0 && i+need > n {
			return i
		}
		return n
	}
	return n
}
