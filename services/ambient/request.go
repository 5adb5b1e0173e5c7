package ambient

import (
	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/x/btext"
	"envmon-go/x/strx"
)

// DefaultBaseURI is the Ambient channel collection.
const DefaultBaseURI = "/api/v2/channels"

// Target names where a reading goes.
type Target struct {
	BaseURI   string // "" means DefaultBaseURI
	ChannelID uint32
	Host      string // Host header value, usually HostFor(ep)
	WriteKey  string
}

// HostFor renders ep's address as a dotted quad, for the Host header.
func HostFor(ep types.Endpoint) string { return ep.AddrPort().Addr().String() }

// BuildBody renders the JSON body, one decimal per field, LF terminated.
func BuildBody(dst *btext.Text, key string, d [3]float32) error {
	return dst.Appendf("{\"writeKey\":\"%s\",\"d1\":\"%.1f\",\"d2\":\"%.1f\",\"d3\":\"%.1f\"}\n",
		key, d[0], d[1], d[2])
}

// BuildRequest renders the whole POST into dst. On overflow dst is left
// empty and errcode.Overflow is returned.
func BuildRequest(dst *btext.Text, t Target, d [3]float32) error {
	var bb [btext.RequestCap]byte
	body := btext.New(bb[:])
	if err := BuildBody(&body, t.WriteKey, d); err != nil {
		dst.Reset()
		return errcode.Wrap(errcode.Overflow, "ambient.body", err)
	}
	base := strx.Coalesce(t.BaseURI, DefaultBaseURI)
	dst.Reset()
	err := dst.Appendf("POST %s/%d/data HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Content-Type: application/json\r\n"+
		"Content-Length: %d\r\n"+
		"\r\n"+
		"%s",
		base, t.ChannelID, t.Host, body.Len(), body.Bytes())
	if err != nil {
		dst.Reset()
		return errcode.Wrap(errcode.Overflow, "ambient.request", err)
	}
	return nil
}
