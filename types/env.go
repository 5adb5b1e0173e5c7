package types

import "envmon-go/x/mathx"

// SensorReadings is produced once per measurement cycle. The json tags are
// the Ambient data slots the readings are posted to.
type SensorReadings struct {
	WaterC      float32 `json:"d1"` // DS18B20 temperature
	AmbientC    float32 `json:"d2"` // SHT3x temperature
	HumidityPct float32 `json:"d3"` // SHT3x relative humidity
}

// Data returns the readings in slot order d1, d2, d3.
func (r SensorReadings) Data() [3]float32 {
	return [3]float32{r.WaterC, r.AmbientC, r.HumidityPct}
}

// Plausible reports whether the readings sit inside the sensors' rated
// ranges. Out-of-range values usually mean a bus or CRC fault.
func (r SensorReadings) Plausible() bool {
	return mathx.Between(r.HumidityPct, 0, 100) &&
		mathx.Between(r.AmbientC, -40, 125) &&
		mathx.Between(r.WaterC, -55, 125)
}
