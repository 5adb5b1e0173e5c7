package wifi

import (
	"net/netip"
	"time"

	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/x/conv"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/netdev"
	"tinygo.org/x/drivers/netlink"
)

// NetlinkStation associates through a TinyGo netlink driver and reads the
// lease through its netdev side.
type NetlinkStation struct {
	link netlink.Netlinker
	dev  netdev.Netdever

	Retries        int
	ConnectTimeout time.Duration
}

func NewNetlinkStation(link netlink.Netlinker, dev netdev.Netdever) *NetlinkStation {
	s := &NetlinkStation{link: link, dev: dev, Retries: 3, ConnectTimeout: netlink.DefaultConnectTimeout}
	link.NetNotify(func(e netlink.Event) {
		if e == netlink.EventNetDown {
			println("[wifi] link down")
		}
	})
	return s
}

// FirmwareVersion asks the driver when it can tell; otherwise it reports
// the driver package version.
func (s *NetlinkStation) FirmwareVersion() (string, error) {
	type versioner interface{ FirmwareVersion() (string, error) }
	if v, ok := s.link.(versioner); ok {
		return v.FirmwareVersion()
	}
	return "drivers " + drivers.Version, nil
}

func (s *NetlinkStation) MAC() (string, error) {
	hw, err := s.link.GetHardwareAddr()
	if err != nil {
		return "", err
	}
	var buf [17]byte
	return string(conv.MAC(buf[:], hw)), nil
}

func (s *NetlinkStation) Associate(ssid, pass string) (types.IPInfo, error) {
	err := s.link.NetConnect(&netlink.ConnectParams{
		ConnectMode:    netlink.ConnectModeSTA,
		Ssid:           ssid,
		Passphrase:     pass,
		AuthType:       netlink.AuthTypeWPA2,
		Retries:        s.Retries,
		ConnectTimeout: s.ConnectTimeout,
	})
	if err != nil && err != netlink.ErrConnected {
		return types.IPInfo{}, errcode.Wrap(errcode.AssociateFailed, "wifi.associate", err)
	}
	var info types.IPInfo
	// Some drivers expose the whole lease.
	type leaser interface {
		IPInfo() (ip, mask, gw netip.Addr, err error)
	}
	if l, ok := s.dev.(leaser); ok {
		if ip, mask, gw, err := l.IPInfo(); err == nil {
			return types.IPInfo{IP: ip, Netmask: mask, Gateway: gw}, nil
		}
	}
	info.IP, err = s.dev.Addr()
	if err != nil {
		return info, errcode.Wrap(errcode.AssociateFailed, "wifi.addr", err)
	}
	return info, nil
}
