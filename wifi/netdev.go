package wifi

import (
	"errors"
	"io"
	"time"

	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/x/timex"

	"tinygo.org/x/drivers/netdev"
)

var errNotConnected = errors.New("wifi: link not connected")

// NetdevLink is a Link over a TinyGo netdev socket driver.
type NetdevLink struct {
	dev  netdev.Netdever
	fd   int
	open bool
	send time.Duration

	// PollWindow is how long one Recv may wait for data. Default 10 ms.
	PollWindow time.Duration
}

func NewNetdevLink(dev netdev.Netdever) *NetdevLink {
	return &NetdevLink{dev: dev, fd: -1, PollWindow: 10 * time.Millisecond}
}

// Connect opens a TCP socket to ep. netdev has no connect deadline (the
// coprocessor applies its own); the tick budget bounds each Send instead.
func (l *NetdevLink) Connect(ep types.Endpoint, timeoutTicks uint32) error {
	if l.open {
		_ = l.Close()
	}
	fd, err := l.dev.Socket(netdev.AF_INET, netdev.SOCK_STREAM, netdev.IPPROTO_TCP)
	if err != nil {
		return err
	}
	if err := l.dev.Connect(fd, "", ep.AddrPort()); err != nil {
		_ = l.dev.Close(fd)
		return err
	}
	l.fd, l.open = fd, true
	l.send = timex.FromTicks(timeoutTicks)
	return nil
}

func (l *NetdevLink) Send(p []byte) (int, error) {
	if !l.open {
		return 0, errNotConnected
	}
	var deadline time.Time
	if l.send > 0 {
		deadline = time.Now().Add(l.send)
	}
	n, err := l.dev.Send(l.fd, p, 0, deadline)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (l *NetdevLink) Recv(p []byte) (int, error) {
	if !l.open {
		return 0, errNotConnected
	}
	n, err := l.dev.Recv(l.fd, p, 0, time.Now().Add(l.PollWindow))
	switch {
	case err == nil:
		if n < 0 {
			n = 0
		}
		return n, nil
	case err == io.EOF, errcode.MapDriverErr(err) == errcode.Timeout:
		return 0, nil
	}
	return 0, err
}

func (l *NetdevLink) Close() error {
	if !l.open {
		return nil
	}
	l.open = false
	fd := l.fd
	l.fd = -1
	return l.dev.Close(fd)
}
