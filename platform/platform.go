// Package platform wires a board's peripherals into the shapes the
// monitor consumes. One Open function exists per supported build.
package platform

import (
	"tinygo.org/x/drivers"

	"envmon-go/drivers/aht20"
	"envmon-go/drivers/onewire"
	"envmon-go/drivers/sht3x"
	"envmon-go/errcode"
	"envmon-go/services/config"
	"envmon-go/services/display"
	"envmon-go/services/monitor"
	"envmon-go/wifi"
	"envmon-go/x/timex"
)

// Board is everything the monitor needs from the hardware.
type Board struct {
	I2C drivers.I2C
	// OneWire is the water probe line; nil when the board has none.
	OneWire onewire.Pin
	// BitDelay times 1-Wire slots. It must be a busy-wait on MCUs.
	BitDelay timex.Delay
	Sink     display.Sink
	Radio    wifi.Pair
}

// Wire returns a 1-Wire master on the probe line, or nil.
func (b *Board) Wire() *onewire.Bus {
	if b.OneWire == nil {
		return nil
	}
	return onewire.New(b.OneWire, b.BitDelay)
}

// OpenClimate configures the named ambient sensor on the I2C bus.
func (b *Board) OpenClimate(name string) (monitor.Climate, error) {
	switch name {
	case "", config.ClimateSHT3x:
		d := sht3x.New(b.I2C)
		d.Configure(sht3x.Config{})
		return d, nil
	case config.ClimateAHT20:
		d := aht20.New(b.I2C)
		if err := d.Configure(aht20.Config{}); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, &errcode.E{C: errcode.InvalidParams, Op: "platform.climate", Msg: name}
}
