// Package ds18b20 drives a DS18B20 thermometer over a shared 1-Wire bus.
//
// A Device only remembers its ROM address. The bus is passed to every
// call, so several devices (and ROM searches) can share it.
package ds18b20

import (
	"time"

	"envmon-go/drivers/onewire"
	"envmon-go/errcode"
	"envmon-go/x/timex"

	tgds "tinygo.org/x/drivers/ds18b20"
)

// FamilyCode is the first ROM byte of every DS18B20.
const FamilyCode = 0x28

// MaxTrials bounds convert+read rounds per measurement.
const MaxTrials = 20

// Sentinel is reported alongside ErrMeasurementFailed. It lies outside the
// sensor range so it cannot be mistaken for a reading.
const Sentinel float32 = 100.0

// Conversion time at 12-bit resolution; each bit less halves it.
const tConv12 = 750 * time.Millisecond

// Errors returned by the driver.
var (
	ErrWrongFamily       = errcode.WrongFamily
	ErrCRC               = errcode.OneWireCRC
	ErrMeasurementFailed = errcode.MeasurementFailed
)

// Bus is the part of a 1-Wire master the driver needs.
type Bus interface {
	Select(onewire.Address) error
	Write(byte)
	Read() byte
}

// Device is one DS18B20.
type Device struct {
	addr     onewire.Address
	bits     uint8 // resolution from the last good scratchpad, 0 = unknown
	attempts int
	pad      [9]byte
}

// New binds a device to addr. Only family 0x28 is accepted.
func New(addr onewire.Address) (*Device, error) {
	if addr.Family() != FamilyCode {
		return nil, ErrWrongFamily
	}
	return &Device{addr: addr}, nil
}

func (d *Device) Address() onewire.Address { return d.addr }

// Attempts returns how many trials the last measurement used.
func (d *Device) Attempts() int { return d.attempts }

// Resolution returns the bit depth seen on the last good read (9..12),
// or 0 before any.
func (d *Device) Resolution() uint8 { return d.bits }

// ConversionTime is the worst-case t_conv for the current resolution.
func (d *Device) ConversionTime() time.Duration {
	if d.bits < 9 || d.bits > 12 {
		return tConv12
	}
	return tConv12 >> (12 - d.bits)
}

// MeasureTemperature converts and reads the temperature. A scratchpad with
// a bad CRC (or no presence pulse) is retried from the convert step, up to
// MaxTrials times. On exhaustion it returns Sentinel and
// ErrMeasurementFailed wrapping the last cause.
func (d *Device) MeasureTemperature(bus Bus, delay timex.Delay) (float32, error) {
	if delay == nil {
		delay = timex.Sleep
	}
	var cause error
	for d.attempts = 1; d.attempts <= MaxTrials; d.attempts++ {
		if err := d.convert(bus, delay); err != nil {
			cause = err
			continue
		}
		if err := d.readScratchpad(bus); err != nil {
			cause = err
			continue
		}
		d.bits = 9 + (d.pad[4]>>5)&3
		return Celsius(uint16(d.pad[1])<<8 | uint16(d.pad[0])), nil
	}
	d.attempts = MaxTrials
	return Sentinel, errcode.Wrap(ErrMeasurementFailed, "ds18b20.measure", cause)
}

func (d *Device) convert(bus Bus, delay timex.Delay) error {
	if err := bus.Select(d.addr); err != nil {
		return err
	}
	bus.Write(tgds.CONVERT_TEMPERATURE)
	delay(d.ConversionTime())
	return nil
}

func (d *Device) readScratchpad(bus Bus) error {
	if err := bus.Select(d.addr); err != nil {
		return err
	}
	bus.Write(tgds.READ_SCRATCHPAD)
	for i := range d.pad {
		d.pad[i] = bus.Read()
	}
	// An all-zero pad passes the CRC; the config byte's low five bits are
	// always set on a real device.
	if onewire.CRC8(d.pad[:]) != 0 || d.pad[4]&0x1F != 0x1F {
		return ErrCRC
	}
	return nil
}

// SetResolution writes the configuration register (9..12 bits), keeping
// the alarm bytes from the last scratchpad read.
func (d *Device) SetResolution(bus Bus, bits uint8) error {
	if bits < 9 || bits > 12 {
		return errcode.InvalidParams
	}
	if err := bus.Select(d.addr); err != nil {
		return err
	}
	bus.Write(tgds.WRITE_SCRATCHPAD)
	bus.Write(d.pad[2])
	bus.Write(d.pad[3])
	bus.Write((bits-9)<<5 | 0x1F)
	d.bits = bits
	return nil
}

// Celsius converts a raw scratchpad reading (1/16 °C, two's complement).
func Celsius(raw uint16) float32 {
	return float32(int16(raw)) * 0.0625
}
