//go:build wioterminal

package platform

import (
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/delay"
	"tinygo.org/x/drivers/ili9341"
	"tinygo.org/x/drivers/netlink/probe"

	"envmon-go/services/display"
	"envmon-go/wifi"
)

// OneWirePin is the header pin the DS18B20 data line is wired to.
var OneWirePin = machine.D0

// OpenWioTerminal brings up the LCD, the grove I2C port, the probe line
// and the RTL8720DN coprocessor.
func OpenWioTerminal() (*Board, error) {
	println("[platform] lcd")
	machine.SPI3.Configure(machine.SPIConfig{
		SCK:       machine.LCD_SCK_PIN,
		SDO:       machine.LCD_SDO_PIN,
		SDI:       machine.LCD_SDI_PIN,
		Frequency: 40000000,
	})
	lcd := ili9341.NewSPI(machine.SPI3, machine.LCD_DC, machine.LCD_SS_PIN, machine.LCD_RESET)
	backlight := machine.LCD_BACKLIGHT
	backlight.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lcd.Configure(ili9341.Config{})
	backlight.High()
	if err := lcd.SetRotation(ili9341.Rotation270); err != nil {
		return nil, err
	}
	lcd.FillScreen(display.Black)

	println("[platform] i2c0")
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.SDA_PIN,
		SCL:       machine.SCL_PIN,
	}); err != nil {
		return nil, err
	}

	pin := openDrain{OneWirePin}
	pin.Release()

	println("[platform] wifi")
	// The coprocessor's UART setup must not be interrupted part way.
	st := interrupt.Disable()
	link, dev := probe.Probe()
	interrupt.Restore(st)
	pair := wifi.Init(wifi.NewNetlinkStation(link, dev), wifi.NewNetdevLink(dev))

	return &Board{
		I2C:      i2c,
		OneWire:  pin,
		BitDelay: delay.Sleep,
		Sink:     display.NewPanel(lcd),
		Radio:    pair,
	}, nil
}

// openDrain emulates an open-drain output: driving low is an output,
// releasing is an input with the pull-up on.
type openDrain struct{ p machine.Pin }

func (o openDrain) Low() {
	o.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	o.p.Low()
}

func (o openDrain) Release()  { o.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup}) }
func (o openDrain) Get() bool { return o.p.Get() }
