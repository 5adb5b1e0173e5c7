// Package sht3x provides a driver for the Sensirion SHT3x temperature and
// humidity sensor family.
//
// Only the single-shot, high-repeatability, clock-stretching measurement is
// used:
//
//	d := sht3x.New(bus)
//	if err := d.Measure(); err == nil {
//		t, h := d.Celsius(), d.Humidity()
//	}
//
// The driver waits a fixed settle time between the command write and the
// 6-byte read, so it also works on masters that do not honour clock
// stretching.
package sht3x

import (
	"time"

	"envmon-go/errcode"
	"envmon-go/x/timex"

	"tinygo.org/x/drivers"
	tgsht3x "tinygo.org/x/drivers/sht3x"
)

// I2C address (ADDR pin low).
const Address = tgsht3x.AddressA

// Single shot, high repeatability, clock stretching enabled.
var cmdMeasureHigh = [2]byte{0x2C, 0x06}

const (
	crcPoly = 0x31
	crcInit = 0xFF
)

// Errors returned by the driver.
var (
	ErrBus = errcode.I2CError
	ErrCRC = errcode.I2CCRC
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x44 if zero.
	Address uint16
	// Settle is the wait between command and read. Default 16 ms, the
	// datasheet maximum for high repeatability is 15 ms.
	Settle time.Duration
	// SkipCRC disables the per-word checksum check.
	SkipCRC bool
	// Delay defaults to timex.Sleep.
	Delay timex.Delay
}

// Device wraps an I2C connection to an SHT3x device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg Config
	buf [6]byte
	s   Sample
}

// New creates a new SHT3x connection. The I2C bus must already be configured.
func New(bus drivers.I2C) *Device {
	d := &Device{bus: bus, Address: Address}
	d.Configure(Config{})
	return d
}

// Configure applies cfg, filling in defaults.
func (d *Device) Configure(cfg Config) {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 16 * time.Millisecond
	}
	if cfg.Delay == nil {
		cfg.Delay = timex.Sleep
	}
	d.cfg = cfg
}

// Measure runs one single-shot conversion and caches the result.
// On error the previous sample is kept.
func (d *Device) Measure() error {
	if err := d.bus.Tx(d.Address, cmdMeasureHigh[:], nil); err != nil {
		return errcode.Wrap(ErrBus, "sht3x.measure", err)
	}
	d.cfg.Delay(d.cfg.Settle)
	if err := d.bus.Tx(d.Address, nil, d.buf[:]); err != nil {
		return errcode.Wrap(ErrBus, "sht3x.read", err)
	}
	s, err := Decode(d.buf, !d.cfg.SkipCRC)
	if err != nil {
		return err
	}
	d.s = s
	return nil
}

// Sample holds raw readings.
type Sample struct {
	RawTemp     uint16
	RawHumidity uint16
}

// Decode parses a 6-byte measurement response. With verify set, a word
// whose checksum does not match yields ErrCRC.
func Decode(b [6]byte, verify bool) (Sample, error) {
	if verify && (CRC8(b[0:2]) != b[2] || CRC8(b[3:5]) != b[5]) {
		return Sample{}, ErrCRC
	}
	return Sample{
		RawTemp:     uint16(b[0])<<8 | uint16(b[1]),
		RawHumidity: uint16(b[3])<<8 | uint16(b[4]),
	}, nil
}

// Celsius returns °C for the sample.
func (s Sample) Celsius() float32 {
	return -45 + 175*float32(s.RawTemp)/65535
}

// Humidity returns %RH for the sample.
func (s Sample) Humidity() float32 {
	return 100 * float32(s.RawHumidity) / 65535
}

// DeciCelsius returns tenths of °C without floating point.
func (s Sample) DeciCelsius() int32 {
	return int32(uint32(s.RawTemp)*1750/65535) - 450
}

// Accessors for the last good sample.

func (d *Device) Last() Sample       { return d.s }
func (d *Device) Celsius() float32   { return d.s.Celsius() }
func (d *Device) Humidity() float32  { return d.s.Humidity() }
func (d *Device) DeciCelsius() int32 { return d.s.DeciCelsius() }

// CRC8 is the Sensirion checksum: poly 0x31, init 0xFF, no reflection.
func CRC8(p []byte) byte {
	crc := byte(crcInit)
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
