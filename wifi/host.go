//go:build !tinygo

package wifi

import (
	"errors"
	"io"
	"net"
	"net/netip"
	"os"
	"runtime"
	"time"

	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/x/timex"
)

// NetLink is a Link over the host's TCP stack, for bench builds.
type NetLink struct {
	conn net.Conn

	// PollWindow is how long one Recv may wait for data. Default 10 ms.
	PollWindow time.Duration
}

func NewNetLink() *NetLink { return &NetLink{PollWindow: 10 * time.Millisecond} }

func (l *NetLink) Connect(ep types.Endpoint, timeoutTicks uint32) error {
	if l.conn != nil {
		_ = l.Close()
	}
	c, err := net.DialTimeout("tcp4", ep.AddrPort().String(), timex.FromTicks(timeoutTicks))
	if err != nil {
		return err
	}
	l.conn = c
	return nil
}

func (l *NetLink) Send(p []byte) (int, error) {
	if l.conn == nil {
		return 0, errNotConnected
	}
	return l.conn.Write(p)
}

func (l *NetLink) Recv(p []byte) (int, error) {
	if l.conn == nil {
		return 0, errNotConnected
	}
	_ = l.conn.SetReadDeadline(time.Now().Add(l.PollWindow))
	n, err := l.conn.Read(p)
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}

func (l *NetLink) Close() error {
	if l.conn == nil {
		return nil
	}
	c := l.conn
	l.conn = nil
	return c.Close()
}

// HostStation reports the host interface the bench runs on. The host is
// already associated, so Associate only reads the lease.
type HostStation struct {
	Iface string // empty picks the first up, non-loopback IPv4 interface
}

func (s *HostStation) FirmwareVersion() (string, error) {
	return "host " + runtime.GOOS + "/" + runtime.GOARCH, nil
}

func (s *HostStation) MAC() (string, error) {
	ifc, _, err := s.pick()
	if err != nil {
		return "", err
	}
	return ifc.HardwareAddr.String(), nil
}

func (s *HostStation) Associate(ssid, pass string) (types.IPInfo, error) {
	_, pfx, err := s.pick()
	if err != nil {
		return types.IPInfo{}, errcode.Wrap(errcode.AssociateFailed, "wifi.host", err)
	}
	mask := net.CIDRMask(pfx.Bits(), 32)
	m, _ := netip.AddrFromSlice(mask)
	return types.IPInfo{IP: pfx.Addr(), Netmask: m}, nil
}

var errNoIface = errors.New("wifi: no usable IPv4 interface")

func (s *HostStation) pick() (net.Interface, netip.Prefix, error) {
	ifs, err := net.Interfaces()
	if err != nil {
		return net.Interface{}, netip.Prefix{}, err
	}
	for _, ifc := range ifs {
		if s.Iface != "" && ifc.Name != s.Iface {
			continue
		}
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipn, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip, ok := netip.AddrFromSlice(ipn.IP.To4())
			if !ok {
				continue
			}
			ones, _ := ipn.Mask.Size()
			return ifc, netip.PrefixFrom(ip, ones), nil
		}
	}
	return net.Interface{}, netip.Prefix{}, errNoIface
}
