package types

//go:generate easyjson -all=false config.go

// MonitorConfig holds the secrets and constants the monitor runs with.
//
//easyjson:json
type MonitorConfig struct {
	SSID      string `json:"ssid"`
	Pass      string `json:"pass"`
	ChannelID uint32 `json:"channel_id"`
	WriteKey  string `json:"write_key"`

	Endpoint Endpoint `json:"endpoint"`
	// Host header value; empty means the endpoint address.
	Host    string `json:"host"`
	BaseURI string `json:"base_uri"`

	// Extra delay between posts, on top of the fixed 5 s.
	IntervalMS uint32 `json:"interval_ms"`

	// Climate names the ambient sensor: "sht3x" (default) or "aht20".
	Climate string `json:"climate"`

	WithoutSensors bool    `json:"without_sensors"`
	DummyWaterC    float32 `json:"dummy_water_c"`
}
