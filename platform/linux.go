//go:build linux && !tinygo

package platform

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"envmon-go/errcode"
	"envmon-go/services/display"
	"envmon-go/wifi"
	"envmon-go/x/timex"
)

// BenchOptions selects the host peripherals.
type BenchOptions struct {
	I2CBus  string // periph bus name, "" for the first one
	Pin     string // 1-Wire GPIO name, "" when no probe is attached
	Iface   string // network interface reported as the station
	Display display.Sink
}

// OpenBench opens the Linux peripherals through periph. The 1-Wire line is
// bit-banged with the OS sleep, which is only good enough on an idle host.
func OpenBench(opts BenchOptions) (*Board, error) {
	const op = "platform.bench"
	if _, err := host.Init(); err != nil {
		return nil, errcode.Wrap(errcode.Error, op, err)
	}
	bus, err := i2creg.Open(opts.I2CBus)
	if err != nil {
		return nil, errcode.Wrap(errcode.I2CError, op, err)
	}
	b := &Board{I2C: bus, BitDelay: timex.Sleep, Sink: opts.Display}
	if b.Sink == nil {
		b.Sink = display.Console{}
	}
	if opts.Pin != "" {
		p := gpioreg.ByName(opts.Pin)
		if p == nil {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "no gpio " + opts.Pin}
		}
		b.OneWire = periphPin{p}
	}
	b.Radio = wifi.Init(&wifi.HostStation{Iface: opts.Iface}, wifi.NewNetLink())
	return b, nil
}

type periphPin struct{ p gpio.PinIO }

func (g periphPin) Low()      { _ = g.p.Out(gpio.Low) }
func (g periphPin) Release()  { _ = g.p.In(gpio.PullUp, gpio.NoEdge) }
func (g periphPin) Get() bool { return g.p.Read() == gpio.High }
