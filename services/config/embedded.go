package config

// Per-device documents. Keys are device names, values raw JSON merged
// over Defaults. Secrets belong in ldflags, not here.

const cfgWioTerminal = `{
  "endpoint": "54.65.206.59:80",
  "base_uri": "/api/v2/channels",
  "interval_ms": 5000
}`

const cfgBench = `{
  "endpoint": "127.0.0.1:8080",
  "host": "localhost",
  "interval_ms": 1000,
  "without_sensors": true
}`

var embeddedConfigs = map[string][]byte{
	"wioterminal": []byte(cfgWioTerminal),
	"bench":       []byte(cfgBench),
}
