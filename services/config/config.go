// Package config resolves the monitor's settings at boot.
//
// Precedence, lowest first: compiled defaults, the embedded JSON document
// for the device, then link-time overrides such as
//
//	tinygo build -ldflags "-X envmon-go/services/config.SSID=lab -X envmon-go/services/config.Pass=secret"
//
// The without_sensors build tag forces the dummy water sensor.
package config

import (
	"net/netip"
	"strconv"

	"github.com/mailru/easyjson/jlexer"

	"envmon-go/errcode"
	"envmon-go/types"
)

// Device selects the embedded document.
var Device = "wioterminal"

// Link-time overrides; empty keeps the resolved value.
var (
	SSID       string
	Pass       string
	ChannelID  string
	WriteKey   string
	Endpoint   string // "a.b.c.d:port"
	IntervalMS string
)

// Ambient sensor names.
const (
	ClimateSHT3x = "sht3x"
	ClimateAHT20 = "aht20"
)

// FixedPauseMS is added to IntervalMS between cycles.
const FixedPauseMS = 5000

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Defaults returns the compiled-in settings.
func Defaults() types.MonitorConfig {
	return types.MonitorConfig{
		SSID:           "<ssid>",
		Pass:           "<password>",
		ChannelID:      12345,
		WriteKey:       "123456789",
		Endpoint:       types.Endpoint{IPv4: 0x3BCE4136, Port: 0x5000}, // 54.65.206.59:80
		BaseURI:        "/api/v2/channels",
		IntervalMS:     5000,
		Climate:        ClimateSHT3x,
		WithoutSensors: withoutSensors,
		DummyWaterC:    19.8,
	}
}

// Load resolves the settings for device. A missing embedded document is
// not an error; a malformed one is.
func Load(device string) (types.MonitorConfig, error) {
	cfg := Defaults()
	if raw, ok := EmbeddedConfigLookup(device); ok && len(raw) > 0 {
		if err := Decode(raw, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := applyOverrides(&cfg); err != nil {
		return cfg, err
	}
	if withoutSensors {
		cfg.WithoutSensors = true
	}
	return cfg, Validate(cfg)
}

// Decode merges a JSON document into cfg; absent keys keep their value.
func Decode(raw []byte, cfg *types.MonitorConfig) error {
	l := jlexer.Lexer{Data: raw}
	cfg.UnmarshalEasyJSON(&l)
	if err := l.Error(); err != nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.decode", Msg: err.Error(), Err: err}
	}
	return nil
}

func applyOverrides(cfg *types.MonitorConfig) error {
	if SSID != "" {
		cfg.SSID = SSID
	}
	if Pass != "" {
		cfg.Pass = Pass
	}
	if WriteKey != "" {
		cfg.WriteKey = WriteKey
	}
	if ChannelID != "" {
		n, err := strconv.ParseUint(ChannelID, 10, 32)
		if err != nil {
			return invalid("channel id " + ChannelID)
		}
		cfg.ChannelID = uint32(n)
	}
	if IntervalMS != "" {
		n, err := strconv.ParseUint(IntervalMS, 10, 32)
		if err != nil {
			return invalid("interval " + IntervalMS)
		}
		cfg.IntervalMS = uint32(n)
	}
	if Endpoint != "" {
		ap, err := netip.ParseAddrPort(Endpoint)
		if err != nil || !ap.Addr().Is4() {
			return invalid("endpoint " + Endpoint)
		}
		cfg.Endpoint = types.EndpointFrom(ap)
	}
	return nil
}

// Validate rejects settings the monitor cannot run with.
func Validate(cfg types.MonitorConfig) error {
	switch {
	case cfg.SSID == "":
		return invalid("empty ssid")
	case cfg.WriteKey == "":
		return invalid("empty write key")
	case cfg.Endpoint.IPv4 == 0 || cfg.Endpoint.Port == 0:
		return invalid("endpoint not set")
	case cfg.Climate != ClimateSHT3x && cfg.Climate != ClimateAHT20:
		return invalid("unknown climate sensor " + cfg.Climate)
	}
	return nil
}

// PauseMS is the wait between two measurement cycles.
func PauseMS(cfg types.MonitorConfig) uint32 { return FixedPauseMS + cfg.IntervalMS }

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: msg}
}
