package aht20

import (
	"errors"
	"testing"
	"time"

	"tinygo.org/x/drivers"

	"envmon-go/errcode"
)

var _ drivers.I2C = (*fakeI2C)(nil)

// Scripted AHT20: reports busy for the first busyReads data reads after a
// trigger.
type fakeI2C struct {
	calib      bool
	busyReads  int
	badCRC     bool
	txErr      error
	hraw, traw uint32

	left     int
	inits    int
	triggers int
	reads    int
}

func newFake() *fakeI2C {
	// 25.0 C, 55.0 %RH
	return &fakeI2C{calib: true, traw: 393_216, hraw: 576_717}
}

func (f *fakeI2C) status() byte {
	var s byte
	if f.calib {
		s |= statusCalibrated
	}
	if f.left > 0 {
		s |= statusBusy
	}
	return s
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.txErr != nil {
		return f.txErr
	}
	switch {
	case len(w) == 1 && w[0] == cmdStatus && len(r) == 1:
		r[0] = f.status()
	case len(w) == 3 && w[0] == cmdInitialize:
		f.inits++
		f.calib = true
	case len(w) == 3 && w[0] == cmdTrigger:
		f.triggers++
		f.left = f.busyReads
	case len(w) == 0 && len(r) == 7:
		f.reads++
		r[0] = f.status()
		if f.left > 0 {
			f.left--
		}
		h, t := f.hraw, f.traw
		r[1] = byte(h >> 12)
		r[2] = byte(h >> 4)
		r[3] = byte(h&0xF)<<4 | byte(t>>16)&0x0F
		r[4] = byte(t >> 8)
		r[5] = byte(t)
		r[6] = crc8(r[:6])
		if f.badCRC {
			r[6] ^= 0xFF
		}
	}
	return nil
}

func noDelay(time.Duration) {}

func open(t *testing.T, f *fakeI2C, cfg Config) *Device {
	t.Helper()
	cfg.Delay = noDelay
	d := New(f)
	if err := d.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return d
}

func TestMeasure(t *testing.T) {
	f := newFake()
	f.busyReads = 2
	d := open(t, f, Config{})
	if err := d.Measure(); err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if f.reads != 3 {
		t.Fatalf("data reads = %d, want 3", f.reads)
	}
	if got := d.DeciCelsius(); got != 250 {
		t.Fatalf("DeciCelsius = %d, want 250", got)
	}
	if got := d.DeciRelHumidity(); got != 550 {
		t.Fatalf("DeciRelHumidity = %d, want 550", got)
	}
	if c := d.Celsius(); c < 24.99 || c > 25.01 {
		t.Fatalf("Celsius = %v", c)
	}
}

func TestConfigureCalibratesOnce(t *testing.T) {
	f := newFake()
	f.calib = false
	open(t, f, Config{})
	if f.inits != 1 {
		t.Fatalf("init commands = %d, want 1", f.inits)
	}
	open(t, f, Config{})
	if f.inits != 1 {
		t.Fatalf("calibrated sensor re-initialised")
	}
}

func TestMeasureTimeout(t *testing.T) {
	f := newFake()
	f.busyReads = 100
	d := open(t, f, Config{Polls: 4})
	err := d.Measure()
	if !errors.Is(err, errcode.Timeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
	if f.reads != 4 {
		t.Fatalf("data reads = %d, want 4", f.reads)
	}
}

func TestMeasureCRC(t *testing.T) {
	f := newFake()
	d := open(t, f, Config{})
	if err := d.Measure(); err != nil {
		t.Fatalf("Measure: %v", err)
	}
	f.badCRC = true
	f.traw = 0
	if err := d.Measure(); !errors.Is(err, errcode.I2CCRC) {
		t.Fatalf("err = %v, want crc", err)
	}
	if d.DeciCelsius() != 250 {
		t.Fatalf("failed read replaced the last sample")
	}

	d = open(t, f, Config{SkipCRC: true})
	if err := d.Measure(); err != nil {
		t.Fatalf("SkipCRC Measure: %v", err)
	}
	if d.DeciCelsius() != -500 {
		t.Fatalf("DeciCelsius = %d, want -500", d.DeciCelsius())
	}
}

func TestBusError(t *testing.T) {
	f := newFake()
	d := open(t, f, Config{})
	f.txErr = errors.New("nack")
	if err := d.Measure(); errcode.Of(err) != errcode.I2CError {
		t.Fatalf("err = %v, want i2c_error", err)
	}
}
