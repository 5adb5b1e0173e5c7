package config

import (
	"testing"

	"envmon-go/errcode"
	"envmon-go/types"
)

func withLookup(t *testing.T, doc string) {
	t.Helper()
	old := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "test" {
			return nil, false
		}
		return []byte(doc), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = old })
}

func withOverride(t *testing.T, v *string, val string) {
	t.Helper()
	old := *v
	*v = val
	t.Cleanup(func() { *v = old })
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Endpoint.Octets() != [4]byte{54, 65, 206, 59} || cfg.Endpoint.HostPort() != 80 {
		t.Fatalf("endpoint = %v", cfg.Endpoint.AddrPort())
	}
	if cfg.DummyWaterC != 19.8 || cfg.IntervalMS != 5000 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if got := PauseMS(cfg); got != 10000 {
		t.Fatalf("PauseMS = %d, want 10000", got)
	}
}

func TestLoadMergesEmbedded(t *testing.T) {
	withLookup(t, `{"ssid":"lab","channel_id":777,"climate":"aht20","endpoint":"10.0.0.2:8080","unknown":{"x":[1,2]}}`)
	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SSID != "lab" || cfg.ChannelID != 777 || cfg.Climate != ClimateAHT20 {
		t.Fatalf("merged = %+v", cfg)
	}
	if cfg.Endpoint.AddrPort().String() != "10.0.0.2:8080" {
		t.Fatalf("endpoint = %v", cfg.Endpoint.AddrPort())
	}
	if cfg.WriteKey != Defaults().WriteKey {
		t.Fatalf("absent key lost its default: %q", cfg.WriteKey)
	}
}

func TestLoadUnknownDeviceUsesDefaults(t *testing.T) {
	withLookup(t, `{}`)
	cfg, err := Load("nope")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := []string{
		`{"ssid":`,
		`{"endpoint":"::1:80"}`,
		`{"channel_id":"abc"}`,
	}
	for _, doc := range cases {
		withLookup(t, doc)
		if _, err := Load("test"); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("Load(%s) err = %v, want invalid_params", doc, err)
		}
	}
}

func TestOverrides(t *testing.T) {
	withLookup(t, `{"ssid":"from-json"}`)
	withOverride(t, &SSID, "from-ldflags")
	withOverride(t, &ChannelID, "42")
	withOverride(t, &Endpoint, "192.168.1.5:80")
	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SSID != "from-ldflags" || cfg.ChannelID != 42 {
		t.Fatalf("cfg = %+v", cfg)
	}
	want := types.Endpoint{IPv4: 0x0501A8C0, Port: 0x5000}
	if cfg.Endpoint != want {
		t.Fatalf("endpoint = %#v, want %#v", cfg.Endpoint, want)
	}

	withOverride(t, &ChannelID, "not-a-number")
	if _, err := Load("test"); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("bad channel override err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.WriteKey = ""
	if errcode.Of(Validate(cfg)) != errcode.InvalidParams {
		t.Fatal("empty write key accepted")
	}
	cfg = Defaults()
	cfg.Endpoint = types.Endpoint{}
	if Validate(cfg) == nil {
		t.Fatal("zero endpoint accepted")
	}
	cfg = Defaults()
	cfg.Climate = "bme280"
	if Validate(cfg) == nil {
		t.Fatal("unknown climate sensor accepted")
	}
}

func TestEmbeddedDocumentsDecode(t *testing.T) {
	for dev, raw := range embeddedConfigs {
		cfg := Defaults()
		if err := Decode(raw, &cfg); err != nil {
			t.Fatalf("%s: %v", dev, err)
		}
		if err := Validate(cfg); err != nil {
			t.Fatalf("%s: %v", dev, err)
		}
	}
}
