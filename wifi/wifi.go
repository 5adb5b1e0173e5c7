// Package wifi is the firmware's view of the Wi-Fi coprocessor: a station
// that associates to an access point, and a single blocking TCP byte
// stream.
//
// The coprocessor is one physical resource, so the pair is registered once
// at boot with Init and fetched with Radio afterwards.
package wifi

import (
	"sync/atomic"

	"envmon-go/types"
)

// Link is one TCP connection at a time, strictly serialised:
// Connect, then Send*, then Recv*, then Close.
type Link interface {
	// Connect opens a stream to ep, giving up after timeoutTicks
	// coprocessor ticks (see timex.FromTicks).
	Connect(ep types.Endpoint, timeoutTicks uint32) error
	// Send writes p and returns how much was accepted.
	Send(p []byte) (int, error)
	// Recv polls for pending bytes. It returns 0, nil when nothing has
	// arrived yet; it never blocks for long.
	Recv(p []byte) (int, error)
	Close() error
}

// Station is the association side of the coprocessor.
type Station interface {
	FirmwareVersion() (string, error)
	MAC() (string, error)
	// Associate joins ssid with WPA2-AES and returns the leased addresses.
	Associate(ssid, pass string) (types.IPInfo, error)
}

// Pair is what Init registers.
type Pair struct {
	Station Station
	Link    Link
}

var (
	initialised atomic.Bool
	radio       Pair
)

// Init registers the coprocessor. Calling it twice is a programming error
// and panics.
func Init(s Station, l Link) Pair {
	if s == nil || l == nil {
		panic("wifi: Init with nil station or link")
	}
	if !initialised.CompareAndSwap(false, true) {
		panic("wifi: Init called twice")
	}
	radio = Pair{Station: s, Link: l}
	return radio
}

// Radio returns the registered pair. It panics before Init.
func Radio() Pair {
	if !initialised.Load() {
		panic("wifi: Radio used before Init")
	}
	return radio
}
