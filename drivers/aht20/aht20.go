// Package aht20 drives the AHT20 temperature/humidity sensor, the common
// alternative to the SHT3x on Grove I2C boards.
//
// Measure triggers one conversion and polls the status byte until the
// sensor is idle, for at most Config.Polls attempts:
//
//	d := aht20.New(i2c)
//	d.Configure(aht20.Config{})
//	if err := d.Measure(); err == nil {
//		println(d.DeciCelsius())
//	}
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
package aht20

import (
	"time"

	"tinygo.org/x/drivers"

	"envmon-go/errcode"
	"envmon-go/x/timex"
)

// I2C address.
const Address = 0x38

const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

var (
	ErrBus      = errcode.I2CError
	ErrCRC      = errcode.I2CCRC
	ErrTimeout  = errcode.Timeout
	ErrNotReady = errcode.E{C: errcode.Timeout, Op: "aht20", Msg: "busy"}
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x38 if zero.
	Address uint16
	// Settle is the wait after a trigger before the first poll. Default 80 ms.
	Settle time.Duration
	// PollInterval separates status polls. Default 15 ms.
	PollInterval time.Duration
	// Polls bounds the polling. Default 12.
	Polls uint32
	// SkipCRC ignores the trailing checksum byte.
	SkipCRC bool
	Delay   timex.Delay
}

// Device wraps an I2C connection to an AHT20 device.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg Config
	buf [7]byte
	s   Sample
}

// New creates a new AHT20 connection. The I2C bus must already be configured.
// It does not touch the device until Configure.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

// Configure applies cfg and calibrates the sensor if it reports it is not.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 80 * time.Millisecond
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Millisecond
	}
	if cfg.Polls == 0 {
		cfg.Polls = 12
	}
	if cfg.Delay == nil {
		cfg.Delay = timex.Sleep
	}
	d.cfg = cfg

	st, err := d.Status()
	if err == nil && st&statusCalibrated != 0 {
		return nil
	}
	if err := d.bus.Tx(d.Address, []byte{cmdInitialize, 0x08, 0x00}, nil); err != nil {
		return errcode.Wrap(ErrBus, "aht20.init", err)
	}
	d.cfg.Delay(10 * time.Millisecond)
	return nil
}

// Reset issues a soft reset. Give the device ~20ms afterwards before using.
func (d *Device) Reset() error {
	if err := d.bus.Tx(d.Address, []byte{cmdSoftReset}, nil); err != nil {
		return errcode.Wrap(ErrBus, "aht20.reset", err)
	}
	return nil
}

// Status reads the status byte.
func (d *Device) Status() (byte, error) {
	var data [1]byte
	if err := d.bus.Tx(d.Address, []byte{cmdStatus}, data[:]); err != nil {
		return 0, errcode.Wrap(ErrBus, "aht20.status", err)
	}
	return data[0], nil
}

// Measure runs one conversion and caches the result. On error the previous
// sample is kept.
func (d *Device) Measure() error {
	if d.cfg.Delay == nil {
		if err := d.Configure(Config{}); err != nil {
			return err
		}
	}
	if err := d.bus.Tx(d.Address, []byte{cmdTrigger, 0x33, 0x00}, nil); err != nil {
		return errcode.Wrap(ErrBus, "aht20.trigger", err)
	}
	d.cfg.Delay(d.cfg.Settle)
	budget := timex.NewBudget(d.cfg.Polls)
	for {
		if err := d.bus.Tx(d.Address, nil, d.buf[:]); err != nil {
			return errcode.Wrap(ErrBus, "aht20.read", err)
		}
		s, err := Decode(d.buf, !d.cfg.SkipCRC)
		if err == nil {
			d.s = s
			return nil
		}
		if err != &ErrNotReady {
			return err
		}
		if !budget.Spend() {
			return errcode.Wrap(ErrTimeout, "aht20.measure", err)
		}
		d.cfg.Delay(d.cfg.PollInterval)
	}
}

// Sample holds one raw 20-bit reading pair.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// Decode parses a 7-byte frame: status, 20-bit humidity, 20-bit
// temperature, CRC. A busy or uncalibrated status yields &ErrNotReady.
func Decode(b [7]byte, verify bool) (Sample, error) {
	if b[0]&statusCalibrated == 0 || b[0]&statusBusy != 0 {
		return Sample{}, &ErrNotReady
	}
	if verify && crc8(b[:6]) != b[6] {
		return Sample{}, ErrCRC
	}
	return Sample{
		RawHumidity: uint32(b[1])<<12 | uint32(b[2])<<4 | uint32(b[3])>>4,
		RawTemp:     uint32(b[3]&0x0F)<<16 | uint32(b[4])<<8 | uint32(b[5]),
	}, nil
}

func (s Sample) Celsius() float32  { return float32(s.RawTemp)*200/0x100000 - 50 }
func (s Sample) Humidity() float32 { return float32(s.RawHumidity) * 100 / 0x100000 }

// Fixed-point, tenths of a unit.
func (s Sample) DeciCelsius() int32     { return int32(int64(s.RawTemp)*2000/0x100000) - 500 }
func (s Sample) DeciRelHumidity() int32 { return int32(int64(s.RawHumidity) * 1000 / 0x100000) }

func (d *Device) Last() Sample           { return d.s }
func (d *Device) Celsius() float32       { return d.s.Celsius() }
func (d *Device) Humidity() float32      { return d.s.Humidity() }
func (d *Device) DeciCelsius() int32     { return d.s.DeciCelsius() }
func (d *Device) DeciRelHumidity() int32 { return d.s.DeciRelHumidity() }

// crc8 is CRC-8/NRSC-5 (poly 0x31, init 0xFF), as on Sensirion parts.
func crc8(p []byte) byte {
	crc := byte(0xFF)
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
