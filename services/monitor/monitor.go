// Package monitor is the firmware's main loop: boot the radio and the
// sensors, then measure, post and render once per interval.
package monitor

import (
	"context"
	"net/netip"
	"time"

	"envmon-go/drivers/ds18b20"
	"envmon-go/drivers/onewire"
	"envmon-go/errcode"
	"envmon-go/services/ambient"
	"envmon-go/services/config"
	"envmon-go/services/display"
	"envmon-go/services/heartbeat"
	"envmon-go/types"
	"envmon-go/wifi"
	"envmon-go/x/btext"
	"envmon-go/x/strx"
	"envmon-go/x/timex"
)

// Climate is the ambient temperature and humidity sensor. Celsius and
// Humidity report the last good sample.
type Climate interface {
	Measure() error
	Celsius() float32
	Humidity() float32
}

// Deps are the collaborators wired up by the platform.
type Deps struct {
	Station wifi.Station
	Link    wifi.Link
	// OpenClimate brings up the ambient sensor during Boot, after the
	// station has associated. Climate, when set, is used as is.
	OpenClimate func() (Climate, error)
	Climate     Climate
	// Wire is the 1-Wire bus of the water probe; nil is only valid with
	// WithoutSensors.
	Wire *onewire.Bus
	Sink display.Sink
	// Delay serves the long waits: between cycles, after each chunk and
	// poll, and DS18B20 conversions.
	Delay timex.Delay
	// Halt parks the firmware after a fatal boot error. It normally never
	// returns.
	Halt func()
	// Post tunes the HTTP poster; Delay and Trace are filled in.
	Post ambient.Config
	// Heartbeat defaults to a line every HeartbeatEvery cycles.
	Heartbeat *heartbeat.Service
}

// HeartbeatEvery is about two minutes at the default interval.
const HeartbeatEvery = 12

// Screen layout, pixels.
const (
	rowBoot     = 0
	rowIP       = 15
	colFirmware = 10
	colMAC      = 180

	rowHeading  = 30
	rowReadings = 50
	rowPanelIP  = 95
	colPanel    = 30

	rowMsgLen   = 115
	rowConnect  = 130
	rowProgress = 145
	rowLength   = 160
	rowStatus   = 185
	rowFooter   = 220
)

// Status texts.
const (
	StatusOK         = "http Ok "
	StatusConnect    = "http NG Connection failed"
	StatusRecv       = "http NG Recv failed"
	StatusFailed     = "http NG failed"
	MsgNoAP          = "Cannot connect to AP"
	MsgNoFirmware    = "Cannot read firmware version"
	MsgNoMAC         = "Cannot read MAC address"
	MsgNoClimate     = "Cannot start climate sensor"
	MsgSensorFailed  = "sensor read failed"
	MsgWaterFailed   = "water read failed"
	MsgNoProbe       = "DS18B20 not found"
	MsgRequestTooBig = "request overflow"
	HeadingText      = "wio sauna monitor"
)

type Monitor struct {
	cfg     types.MonitorConfig
	st      wifi.Station
	poster  *ambient.Poster
	climate Climate
	open    func() (Climate, error)
	wire    *onewire.Bus
	probe   *ds18b20.Device
	sink    display.Sink
	delay   timex.Delay
	halt    func()
	beat    *heartbeat.Service

	target ambient.Target
	fw     string
	mac    string
	ip     types.IPInfo

	last        types.SensorReadings
	haveClimate bool
	haveWater   bool

	reqStore  [btext.RequestCap]byte
	req       btext.Text
	lineStore [btext.RequestCap]byte
	line      btext.Text
	progStore [64]byte
	prog      btext.Text
}

func New(cfg types.MonitorConfig, d Deps) *Monitor {
	if d.Delay == nil {
		d.Delay = timex.Sleep
	}
	if d.Halt == nil {
		d.Halt = idle
	}
	if d.Heartbeat == nil {
		d.Heartbeat = heartbeat.New(HeartbeatEvery)
	}
	m := &Monitor{
		cfg:     cfg,
		st:      d.Station,
		climate: d.Climate,
		open:    d.OpenClimate,
		wire:    d.Wire,
		sink:    d.Sink,
		delay:   d.Delay,
		halt:    d.Halt,
		beat:    d.Heartbeat,
	}
	m.req = btext.New(m.reqStore[:])
	m.line = btext.New(m.lineStore[:])
	m.prog = btext.New(m.progStore[:])

	m.target = ambient.Target{
		BaseURI:   cfg.BaseURI,
		ChannelID: cfg.ChannelID,
		Host:      strx.Coalesce(cfg.Host, ambient.HostFor(cfg.Endpoint)),
		WriteKey:  cfg.WriteKey,
	}

	pc := d.Post
	pc.Delay = d.Delay
	pc.Trace = ambient.Trace{
		Connected:     m.onConnected,
		Polled:        m.onPolled,
		ContentLength: m.onContentLength,
	}
	m.poster = ambient.New(d.Link, pc)
	return m
}

// Last returns the most recent readings and whether a cycle produced any.
func (m *Monitor) Last() (types.SensorReadings, bool) {
	return m.last, m.haveClimate && (m.haveWater || m.cfg.WithoutSensors)
}

// Run boots and then cycles until ctx is done. A fatal boot error is
// rendered, Halt is called and the error returned.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Boot(); err != nil {
		println("[monitor] boot failed:", err.Error())
		m.halt()
		return err
	}
	pause := time.Duration(config.PauseMS(m.cfg)) * time.Millisecond
	for {
		err := m.Cycle()
		if err != nil {
			println("[monitor] cycle:", err.Error())
		}
		m.beat.Beat(err)
		if err := ctx.Err(); err != nil {
			return err
		}
		m.delay(pause)
		if err := ctx.Err(); err != nil {
			return err
		}
		m.sink.Clear()
	}
}

// Boot brings up the radio and the sensors. Every error is fatal.
func (m *Monitor) Boot() error {
	m.sink.Clear()

	fw, err := m.st.FirmwareVersion()
	if err != nil {
		m.sink.Text(colFirmware, rowBoot, MsgNoFirmware)
		return errcode.Wrap(errcode.MapDriverErr(err), "monitor.firmware", err)
	}
	mac, err := m.st.MAC()
	if err != nil {
		m.sink.Text(colFirmware, rowBoot, MsgNoMAC)
		return errcode.Wrap(errcode.MapDriverErr(err), "monitor.mac", err)
	}
	m.fw, m.mac = fw, mac
	if err := m.render(colFirmware, rowBoot, "firmware: %s", fw); err != nil {
		return err
	}
	if err := m.render(colMAC, rowBoot, "mac: %s", mac); err != nil {
		return err
	}

	ip, err := m.st.Associate(m.cfg.SSID, m.cfg.Pass)
	if err != nil {
		m.sink.Text(colFirmware, rowIP, MsgNoAP)
		return errcode.Wrap(errcode.AssociateFailed, "monitor.boot", err)
	}
	m.ip = ip
	println("[monitor] associated, ip", addr(ip.IP))
	if err := m.render(colFirmware, rowIP, "ip = %s, netmask = %s, gateway = %s",
		addr(ip.IP), addr(ip.Netmask), addr(ip.Gateway)); err != nil {
		return err
	}

	if m.climate == nil {
		if m.open == nil {
			m.sink.Text(colFirmware, rowIP+15, MsgNoClimate)
			return &errcode.E{C: errcode.InvalidParams, Op: "monitor.climate", Msg: "no climate sensor"}
		}
		c, err := m.open()
		if err != nil {
			m.sink.Text(colFirmware, rowIP+15, MsgNoClimate)
			return errcode.Wrap(errcode.MapDriverErr(err), "monitor.climate", err)
		}
		m.climate = c
	}

	if m.cfg.WithoutSensors {
		println("[monitor] sensors disabled, water fixed at", m.cfg.DummyWaterC)
		return nil
	}
	if err := m.findProbe(); err != nil {
		m.sink.Text(colFirmware, rowIP+15, MsgNoProbe)
		return err
	}
	return nil
}

func (m *Monitor) findProbe() error {
	const op = "monitor.probe"
	if m.wire == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "no 1-Wire bus"}
	}
	var st onewire.SearchState
	a, err := m.wire.SearchFamily(&st, ds18b20.FamilyCode)
	if err != nil {
		return errcode.Wrap(errcode.MapDriverErr(err), op, err)
	}
	dev, err := ds18b20.New(a)
	if err != nil {
		return err
	}
	m.probe = dev
	var hex [16]byte
	println("[monitor] water probe", string(a.Hex(hex[:])))
	return nil
}

// Cycle measures, posts and renders once. Sensor and post failures are
// rendered and returned; the next cycle starts afresh.
func (m *Monitor) Cycle() error {
	r, err := m.measure()
	if err != nil {
		return err
	}
	if !r.Plausible() {
		println("[monitor] readings out of sensor range, posting anyway")
	}
	m.renderPanel(r)

	if err := ambient.BuildRequest(&m.req, m.target, r.Data()); err != nil {
		m.sink.Line(rowStatus, MsgRequestTooBig)
		return err
	}
	_ = m.render(colFirmware, rowMsgLen, "Ok, msg length: %d", m.req.Len())

	m.prog.Reset()
	res, err := m.poster.Post(m.cfg.Endpoint, m.req.Bytes())
	m.sink.Line(rowStatus, StatusText(&m.line, res, err))
	return err
}

func (m *Monitor) measure() (types.SensorReadings, error) {
	var cerr error
	if err := m.climate.Measure(); err != nil {
		println("[monitor] climate:", err.Error())
		m.sink.Line(rowStatus, MsgSensorFailed)
		cerr = err
	} else {
		m.haveClimate = true
	}
	if !m.haveClimate {
		return m.last, cerr
	}
	m.last.AmbientC = m.climate.Celsius()
	m.last.HumidityPct = m.climate.Humidity()

	if m.cfg.WithoutSensors {
		m.last.WaterC = m.cfg.DummyWaterC
		return m.last, nil
	}
	w, err := m.probe.MeasureTemperature(m.wire, m.delay)
	if err != nil {
		println("[monitor] ds18b20:", err.Error())
		m.sink.Line(rowStatus, MsgWaterFailed)
		if !m.haveWater {
			return m.last, err
		}
		// keep the last good water reading
		return m.last, nil
	}
	m.last.WaterC = w
	m.haveWater = true
	return m.last, nil
}

func (m *Monitor) renderPanel(r types.SensorReadings) {
	m.sink.Heading(colPanel, rowHeading, HeadingText)
	_ = m.render(colPanel, rowReadings, " temp: %.1f C\n humid: %.1f %%\n water: %.1f C",
		r.AmbientC, r.HumidityPct, r.WaterC)
	_ = m.render(colPanel, rowPanelIP, "ip = %s", addr(m.ip.IP))
	_ = m.render(colFirmware, rowFooter, "fw: %s  mac: %s", m.fw, m.mac)
}

// StatusText renders the one-line status for a post outcome, using dst as
// scratch.
func StatusText(dst *btext.Text, res types.Response, err error) string {
	switch errcode.Of(err) {
	case errcode.OK:
		dst.Reset()
		if dst.Appendf("%s%d", StatusOK, res.Status) != nil {
			return StatusFailed
		}
		return dst.String()
	case errcode.ConnectFailed:
		return StatusConnect
	case errcode.RecvFailed:
		return StatusRecv
	}
	return StatusFailed
}

func (m *Monitor) onConnected(ep types.Endpoint, n int) {
	_ = m.render(colFirmware, rowConnect, "Connect OK : %s, %d", addr(ep.AddrPort().Addr()), n)
}

func (m *Monitor) onPolled(_, received int) {
	_ = m.prog.AppendString("+")
	if received > 0 {
		m.line.Reset()
		if m.line.Appendf("Ok %s", m.prog.Bytes()) == nil {
			m.sink.Line(rowProgress, m.line.String())
		}
	}
}

func (m *Monitor) onContentLength(n uint32) {
	m.line.Reset()
	if m.line.Appendf("find content length %d", n) == nil {
		m.sink.Line(rowLength, m.line.String())
	}
}

// render formats into the line buffer and writes it at (x, y).
func (m *Monitor) render(x, y int16, format string, args ...any) error {
	m.line.Reset()
	if err := m.line.Appendf(format, args...); err != nil {
		println("[monitor] render overflow:", format)
		return errcode.Wrap(errcode.Overflow, "monitor.render", err)
	}
	m.sink.Text(x, y, m.line.String())
	return nil
}

func addr(a netip.Addr) string {
	if !a.IsValid() {
		return "0.0.0.0"
	}
	return a.String()
}

func idle() {
	for {
		time.Sleep(time.Hour)
	}
}
