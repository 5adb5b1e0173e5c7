package types

import (
	"encoding/binary"
	"math/bits"
	"net/netip"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// Endpoint is a raw IPv4 endpoint as the Wi-Fi coprocessor takes it.
// Both fields hold network-order bytes in a little-endian integer, so
// 0x3BCE4136 is 54.65.206.59 and a Port of 0x5000 is TCP port 80.
type Endpoint struct {
	IPv4 uint32
	Port uint16
}

// EndpointFrom builds an Endpoint from a host-order address and port.
func EndpointFrom(ap netip.AddrPort) Endpoint {
	a := ap.Addr().As4()
	return Endpoint{
		IPv4: binary.LittleEndian.Uint32(a[:]),
		Port: bits.ReverseBytes16(ap.Port()),
	}
}

// Octets returns the address bytes in dotted order.
func (e Endpoint) Octets() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], e.IPv4)
	return b
}

// HostPort returns the TCP port in host order.
func (e Endpoint) HostPort() uint16 { return bits.ReverseBytes16(e.Port) }

// AddrPort decodes the endpoint for socket APIs.
func (e Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(netip.AddrFrom4(e.Octets()), e.HostPort())
}

// MarshalEasyJSON writes the endpoint as "a.b.c.d:port".
func (e Endpoint) MarshalEasyJSON(w *jwriter.Writer) {
	w.String(e.AddrPort().String())
}

// UnmarshalEasyJSON accepts "a.b.c.d:port".
func (e *Endpoint) UnmarshalEasyJSON(l *jlexer.Lexer) {
	s := l.String()
	if !l.Ok() {
		return
	}
	ap, err := netip.ParseAddrPort(s)
	if err != nil || !ap.Addr().Is4() {
		l.AddError(&jlexer.LexerError{Reason: "endpoint must be ipv4:port", Data: s})
		return
	}
	*e = EndpointFrom(ap)
}

// IPInfo is what the station reports after association. Netmask and
// Gateway are zero when the coprocessor cannot report them.
type IPInfo struct {
	IP      netip.Addr
	Netmask netip.Addr
	Gateway netip.Addr
}

// Response summarises an HTTP exchange.
type Response struct {
	Status  uint32
	BodyLen uint32
}
