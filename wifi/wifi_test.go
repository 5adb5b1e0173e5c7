package wifi

import (
	"errors"
	"io"
	"net"
	"net/netip"
	"testing"
	"time"

	"envmon-go/types"

	"tinygo.org/x/drivers/netdev"
)

func resetRadio() {
	initialised.Store(false)
	radio = Pair{}
}

type nopStation struct{}

func (nopStation) FirmwareVersion() (string, error) { return "1.0", nil }
func (nopStation) MAC() (string, error)             { return "00:11:22:33:44:55", nil }
func (nopStation) Associate(string, string) (types.IPInfo, error) {
	return types.IPInfo{}, nil
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s did not panic", name)
		}
	}()
	f()
}

func TestInit_Once(t *testing.T) {
	resetRadio()
	t.Cleanup(resetRadio)

	mustPanic(t, "Radio before Init", func() { Radio() })

	l := NewNetLink()
	p := Init(nopStation{}, l)
	if p.Link != l || Radio().Link != l {
		t.Fatal("Radio does not return the registered link")
	}
	mustPanic(t, "second Init", func() { Init(nopStation{}, l) })
}

// fakeNetdev scripts a coprocessor socket.
type fakeNetdev struct {
	connected netip.AddrPort
	sent      []byte
	rx        [][]byte // nil entry = timeout
	eof       bool
	closed    int
	connErr   error
}

func (f *fakeNetdev) GetHostByName(string) (netip.Addr, error) { return netip.Addr{}, nil }
func (f *fakeNetdev) Addr() (netip.Addr, error)                { return netip.MustParseAddr("10.0.0.5"), nil }
func (f *fakeNetdev) Socket(int, int, int) (int, error)        { return 3, nil }
func (f *fakeNetdev) Bind(int, netip.AddrPort) error           { return nil }
func (f *fakeNetdev) Connect(fd int, host string, ip netip.AddrPort) error {
	f.connected = ip
	return f.connErr
}
func (f *fakeNetdev) Listen(int, int) error                       { return nil }
func (f *fakeNetdev) Accept(int) (int, netip.AddrPort, error)     { return 0, netip.AddrPort{}, nil }
func (f *fakeNetdev) SetSockOpt(int, int, int, interface{}) error { return nil }
func (f *fakeNetdev) Close(int) error                             { f.closed++; return nil }
func (f *fakeNetdev) Send(fd int, b []byte, _ int, _ time.Time) (int, error) {
	f.sent = append(f.sent, b...)
	return len(b), nil
}
func (f *fakeNetdev) Recv(fd int, b []byte, _ int, _ time.Time) (int, error) {
	if len(f.rx) == 0 {
		if f.eof {
			return -1, io.EOF
		}
		return -1, netdev.ErrTimeout
	}
	next := f.rx[0]
	f.rx = f.rx[1:]
	if next == nil {
		return -1, netdev.ErrTimeout
	}
	return copy(b, next), nil
}

var _ netdev.Netdever = (*fakeNetdev)(nil)

func TestNetdevLink_Lifecycle(t *testing.T) {
	dev := &fakeNetdev{rx: [][]byte{nil, []byte("HTTP/1.1 200")}}
	l := NewNetdevLink(dev)

	if _, err := l.Send([]byte("x")); err == nil {
		t.Fatal("Send before Connect succeeded")
	}
	ep := types.Endpoint{IPv4: 0x3BCE4136, Port: 0x5000}
	if err := l.Connect(ep, 4_000_000); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if dev.connected.String() != "54.65.206.59:80" {
		t.Fatalf("dialled %s", dev.connected)
	}
	if n, err := l.Send([]byte("POST")); n != 4 || err != nil {
		t.Fatalf("Send = %d, %v", n, err)
	}

	buf := make([]byte, 64)
	if n, err := l.Recv(buf); n != 0 || err != nil {
		t.Fatalf("Recv on timeout = %d, %v; want 0, nil", n, err)
	}
	if n, err := l.Recv(buf); err != nil || string(buf[:n]) != "HTTP/1.1 200" {
		t.Fatalf("Recv = %q, %v", buf[:n], err)
	}
	dev.eof = true
	if n, err := l.Recv(buf); n != 0 || err != nil {
		t.Fatalf("Recv after EOF = %d, %v", n, err)
	}
	if err := l.Close(); err != nil || dev.closed != 1 {
		t.Fatalf("Close: %v (closed=%d)", err, dev.closed)
	}
	if err := l.Close(); err != nil || dev.closed != 1 {
		t.Fatal("second Close touched the socket")
	}
}

func TestNetdevLink_ConnectErrorClosesSocket(t *testing.T) {
	dev := &fakeNetdev{connErr: errors.New("refused")}
	l := NewNetdevLink(dev)
	if err := l.Connect(types.Endpoint{}, 1); err == nil {
		t.Fatal("Connect succeeded")
	}
	if dev.closed != 1 {
		t.Fatalf("socket not released: closed=%d", dev.closed)
	}
}

func TestNetLink_Loopback(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no loopback: %v", err)
	}
	defer ln.Close()
	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	ap := netip.MustParseAddrPort(ln.Addr().String())
	l := NewNetLink()
	if err := l.Connect(types.EndpointFrom(ap), 1_000_000); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer l.Close()

	var srv net.Conn
	select {
	case srv = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("server did not accept")
	}
	defer srv.Close()

	buf := make([]byte, 16)
	if n, err := l.Recv(buf); n != 0 || err != nil {
		t.Fatalf("idle Recv = %d, %v", n, err)
	}
	if _, err := srv.Write([]byte("ok")); err != nil {
		t.Fatalf("server write: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		n, err := l.Recv(buf)
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if n > 0 {
			if string(buf[:n]) != "ok" {
				t.Fatalf("Recv = %q", buf[:n])
			}
			return
		}
	}
	t.Fatal("data never arrived")
}
